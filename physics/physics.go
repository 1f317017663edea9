package physics

import (
	"context"
	"math"

	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/logger"
	"github.com/TFMV/insights/models"
	opensimplex "github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"
)

// LayoutAlgorithm is a tick-driven layout. Tick reports true once the layout
// has settled; ticks after that are no-ops. Run drives Tick until then.
type LayoutAlgorithm interface {
	Tick() (bool, error)
	Run(ctx context.Context) error
	Phase() Phase
	Alpha() float64
	Ticks() int
	Center() (float64, float64)
	Stop()
	Stopped() bool
	GetName() string
}

var _ LayoutAlgorithm = (*Simulation)(nil)

// Phase is the lifecycle stage of a simulation.
type Phase int

const (
	// Settling: high energy, positions move every tick
	Settling Phase = iota
	// CollisionPass: the one-off declutter sweep has run
	CollisionPass
	// Settled: alpha is zero and positions are frozen
	Settled
)

func (p Phase) String() string {
	switch p {
	case Settling:
		return "settling"
	case CollisionPass:
		return "collision-pass"
	case Settled:
		return "settled"
	}
	return "unknown"
}

// RadiusFunc returns the drawn radius of a node.
type RadiusFunc func(n *models.Node) float64

// body is the per-node integrator state.
type body struct {
	node   *models.Node
	px, py float64
	weight float64
	radius float64
}

type spring struct {
	source, target *body
}

// Simulation is a verlet force simulation with charge repulsion, link
// springs, gravity toward the viewport center and a single quadtree
// collision pass once the layout has cooled down.
type Simulation struct {
	params    Params
	bodies    []*body
	springs   []spring
	alpha     float64
	phase     Phase
	ticks     int
	stopped   bool
	centerX   float64
	centerY   float64
	maxRadius float64
	noise     opensimplex.Noise
	log       *zap.SugaredLogger
}

// NewSimulation prepares a simulation over nodes and links. Nodes without a
// preset position are placed from seeded noise so equal inputs give equal
// layouts.
func NewSimulation(nodes []*models.Node, links []graph.Link, radius RadiusFunc, params Params, log *zap.SugaredLogger) (*Simulation, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Logger
	}
	if radius == nil {
		radius = func(*models.Node) float64 { return 0 }
	}

	s := &Simulation{
		params:  params,
		bodies:  make([]*body, 0, len(nodes)),
		springs: make([]spring, 0, len(links)),
		alpha:   params.InitialAlpha,
		noise:   opensimplex.New(params.Seed),
		log:     log,
		centerX: params.Width / 2,
		centerY: params.Height / 2,
	}

	byID := make(map[models.Key]*body, len(nodes))
	for i, n := range nodes {
		b := &body{node: n, radius: radius(n)}
		if n.X == 0 && n.Y == 0 {
			n.SetPosition(s.seedPosition(i))
		}
		b.px, b.py = n.X, n.Y
		if b.radius > s.maxRadius {
			s.maxRadius = b.radius
		}
		s.bodies = append(s.bodies, b)
		byID[n.ID] = b
	}

	for _, l := range links {
		source, okS := byID[l.Source.ID]
		target, okT := byID[l.Target.ID]
		if !okS || !okT {
			continue
		}
		source.weight++
		target.weight++
		s.springs = append(s.springs, spring{source: source, target: target})
	}

	return s, nil
}

// GetName returns the name of the layout algorithm
func (s *Simulation) GetName() string {
	return "Force-Directed Layout"
}

// Phase returns the current lifecycle stage.
func (s *Simulation) Phase() Phase {
	return s.phase
}

// Alpha returns the current energy term.
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Ticks returns how many integration steps ran.
func (s *Simulation) Ticks() int {
	return s.ticks
}

// Center returns the size-weighted center of mass computed at settle time,
// or the viewport center before that.
func (s *Simulation) Center() (float64, float64) {
	return s.centerX, s.centerY
}

// Stop discards the simulation. Later ticks return ErrStopped.
func (s *Simulation) Stop() {
	s.stopped = true
}

// Stopped reports whether Stop was called.
func (s *Simulation) Stopped() bool {
	return s.stopped
}

// Tick advances the simulation by one step and reports whether it settled.
func (s *Simulation) Tick() (bool, error) {
	if s.stopped {
		return false, errors.ErrStopped
	}

	switch s.phase {
	case Settled:
		return true, nil
	case CollisionPass:
		s.settle()
		return true, nil
	}

	if len(s.bodies) == 0 {
		s.settle()
		return true, nil
	}

	s.ticks++
	s.applySprings()
	s.applyGravity()
	s.applyCharge()
	s.integrate()

	s.alpha *= s.params.Cooling

	if s.alpha < s.params.CollideAt {
		s.collide()
		s.phase = CollisionPass
		if s.alpha < s.params.SettleAt {
			s.settle()
			return true, nil
		}
	}
	return false, nil
}

// Run ticks until the layout settles or ctx is done. A cancelled run leaves
// the simulation stopped.
func (s *Simulation) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		default:
		}

		settled, err := s.Tick()
		if err != nil {
			return err
		}
		if settled {
			return nil
		}
	}
}

// applySprings pulls linked nodes toward the target link distance. The
// lighter endpoint moves more.
func (s *Simulation) applySprings() {
	for _, sp := range s.springs {
		src, tgt := sp.source.node, sp.target.node
		x := tgt.X - src.X
		y := tgt.Y - src.Y
		l := x*x + y*y
		if l == 0 {
			continue
		}
		l = math.Sqrt(l)
		l = s.alpha * s.params.LinkStrength * (l - s.params.LinkDistance) / l
		x *= l
		y *= l

		k := 0.5
		if total := sp.source.weight + sp.target.weight; total > 0 {
			k = sp.source.weight / total
		}
		tgt.X -= x * k
		tgt.Y -= y * k
		src.X += x * (1 - k)
		src.Y += y * (1 - k)
	}
}

func (s *Simulation) applyGravity() {
	k := s.alpha * s.params.Gravity
	if k == 0 {
		return
	}
	cx, cy := s.params.Width/2, s.params.Height/2
	for _, b := range s.bodies {
		b.node.X += (cx - b.node.X) * k
		b.node.Y += (cy - b.node.Y) * k
	}
}

// applyCharge is a pairwise repulsion. It moves the previous position so the
// verlet step turns it into velocity.
func (s *Simulation) applyCharge() {
	if s.params.Charge == 0 {
		return
	}
	for i, a := range s.bodies {
		for j := i + 1; j < len(s.bodies); j++ {
			b := s.bodies[j]
			dx := b.node.X - a.node.X
			dy := b.node.Y - a.node.Y
			l2 := dx*dx + dy*dy
			if l2 < minDistance2 {
				dx, dy = s.jitter(i, j)
				l2 = dx*dx + dy*dy
			}
			dn := s.alpha * s.params.Charge / math.Max(l2, 1)
			a.px -= dx * dn
			a.py -= dy * dn
			b.px += dx * dn
			b.py += dy * dn
		}
	}
}

func (s *Simulation) integrate() {
	friction := s.params.Friction
	for _, b := range s.bodies {
		n := b.node
		x, y := n.X, n.Y
		n.X -= (b.px - x) * friction
		n.Y -= (b.py - y) * friction
		b.px, b.py = x, y
	}
}

// settle freezes positions and computes the size-weighted center.
func (s *Simulation) settle() {
	s.alpha = 0
	s.phase = Settled

	var xMass, yMass, totalSize, xSum, ySum float64
	for _, b := range s.bodies {
		n := b.node
		xMass += n.X * n.Size
		yMass += n.Y * n.Size
		totalSize += n.Size
		xSum += n.X
		ySum += n.Y
	}

	switch {
	case totalSize > 0:
		s.centerX, s.centerY = xMass/totalSize, yMass/totalSize
	case len(s.bodies) > 0:
		count := float64(len(s.bodies))
		s.centerX, s.centerY = xSum/count, ySum/count
	}

	s.log.Debugw("layout settled",
		logger.FieldTicks, s.ticks,
		logger.FieldCount, len(s.bodies),
		"center_x", s.centerX,
		"center_y", s.centerY,
	)
}

const minDistance2 = 1e-6

// seedPosition spreads node i across the viewport using simplex noise.
func (s *Simulation) seedPosition(i int) (float64, float64) {
	w, h := s.params.Width, s.params.Height
	t := float64(i) * 0.731
	return w/2 + s.noise.Eval2(t, 0.5)*w/2,
		h/2 + s.noise.Eval2(t, 101.5)*h/2
}

// jitter returns a small deterministic offset for coincident bodies.
func (s *Simulation) jitter(i, j int) (float64, float64) {
	dx := s.noise.Eval2(float64(i)+0.5, float64(j)+0.5)
	dy := s.noise.Eval2(float64(j)+0.5, float64(i)+0.5)
	if dx == 0 && dy == 0 {
		dx = 1
	}
	norm := math.Hypot(dx, dy)
	return dx / norm * 1e-3, dy / norm * 1e-3
}
