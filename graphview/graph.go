// Package graphview is the public face of the engine: one Graph per drawn
// network, tying layout, selection state, drawing and events together.
//
// A Graph is driven from a single goroutine, the way a UI event loop drives
// it. Filter and Focus only stage intent; Update and the end of Render are
// the commit points.
//
//	g, err := graphview.New(surface, nodes, links, graphview.Options{})
//	if err != nil {
//	    return err
//	}
//	g.On(events.NoMatch, func(events.Payload) { ... })
//	if err := g.Filter(state.Match{"cluster": []any{0, 1}}); err != nil {
//	    return err
//	}
//	err = g.Render(ctx)
package graphview

import (
	"context"

	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/events"
	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/logger"
	"github.com/TFMV/insights/models"
	"github.com/TFMV/insights/physics"
	"github.com/TFMV/insights/render"
	"github.com/TFMV/insights/scale"
	"github.com/TFMV/insights/state"
	"github.com/TFMV/insights/tooltip"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Graph is an interactive force-directed graph. It is not safe for
// concurrent use.
type Graph struct {
	id      uuid.UUID
	opts    Options
	surface render.Surface
	log     *zap.SugaredLogger

	records []models.Record
	links   []models.RawLink
	acc     models.Accessors

	// built lazily by compute
	ix       *graph.Index
	clusters *graph.Clusters
	scales   scale.NodeScales

	view       *state.View
	viewport   *render.Viewport
	transition render.Transition
	tip        *tooltip.Tooltip
	emitter    *events.Emitter

	sim       physics.LayoutAlgorithm
	rendering bool
	settled   bool
	frame     *render.Frame
}

// New creates a graph over nodes and links. Nothing is laid out until
// Render or Start.
func New(surface render.Surface, nodes []models.Record, links []models.RawLink, opts Options) (*Graph, error) {
	if surface == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "surface is nil")
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tip, err := tooltip.New(opts.TooltipTemplate)
	if err != nil {
		return nil, err
	}
	viewport, err := render.NewViewport(opts.Width, opts.Height, opts.ScaleExtent, opts.InitialScale)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	log := opts.Logger
	if log == nil {
		log = logger.Named("graphview")
	}
	log = log.With(logger.FieldGraphID, id.String())

	g := &Graph{
		id:       id,
		opts:     opts,
		surface:  surface,
		log:      log,
		records:  nodes,
		links:    links,
		acc:      opts.Accessors,
		view:     state.NewView(opts.Direction),
		viewport: viewport,
		tip:      tip,
		emitter:  events.NewEmitter(),
	}
	return g, nil
}

// ID identifies the graph in logs.
func (g *Graph) ID() uuid.UUID {
	return g.id
}

// On subscribes to a graph event.
func (g *Graph) On(event string, fn events.Listener) events.Subscription {
	return g.emitter.On(event, fn)
}

// Once subscribes to a single delivery of a graph event.
func (g *Graph) Once(event string, fn events.Listener) events.Subscription {
	return g.emitter.Once(event, fn)
}

// Off removes a subscription.
func (g *Graph) Off(sub events.Subscription) bool {
	return g.emitter.Off(sub)
}

// Attr remaps one of id, size, cluster or text. It is only valid before the
// data is computed.
func (g *Graph) Attr(name string, acc models.Accessor) error {
	if g.ix != nil {
		return errors.WithHint(
			errors.Wrapf(errors.ErrAlreadyComputed, "attr %q", name),
			"set accessors before the first Render, or call Load")
	}
	if acc.IsZero() {
		return errors.Wrapf(errors.ErrInvalidAttr, "empty accessor for %q", name)
	}
	if !g.acc.Set(name, acc) {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidAttr, "unknown attribute %q", name),
			"valid attributes are id, size, cluster and text")
	}
	return nil
}

// compute builds the index, cluster colors and scales once.
func (g *Graph) compute() {
	if g.ix != nil {
		return
	}
	g.ix = graph.Build(g.records, g.links, g.acc)
	g.clusters = graph.NewClusters(g.opts.Palette, g.opts.Colors)
	g.clusters.Register(g.ix.Nodes)
	g.scales = scale.ForMaxSize(g.ix.MaxSize)

	if g.ix.Dropped > 0 {
		g.log.Debugw("dropped links to unknown nodes", logger.FieldCount, g.ix.Dropped)
	}
	g.log.Debugw("graph computed",
		"nodes", len(g.ix.Nodes),
		"links", len(g.ix.Links),
		"clusters", len(g.clusters.Order()),
	)
}

// Load replaces the data. An in-flight simulation is discarded along with
// the selection state.
func (g *Graph) Load(nodes []models.Record, links []models.RawLink) error {
	if g.sim != nil {
		g.sim.Stop()
	}
	g.rendering = false
	g.records, g.links = nodes, links
	g.ix, g.clusters, g.frame = nil, nil, nil
	g.settled = false
	g.view.Reset()
	g.tip.Hide()
	return nil
}

// Render lays the graph out and draws it. It runs the simulation to
// completion unless ctx is cancelled first, in which case the simulation is
// stopped. Rendering a settled graph again only re-commits the view.
func (g *Graph) Render(ctx context.Context) error {
	if err := g.Start(); err != nil {
		return err
	}
	if err := g.sim.Run(ctx); err != nil {
		g.Stop()
		return err
	}
	_, err := g.Tick()
	return err
}

// Start begins a render without driving it. The host calls Tick from its
// animation loop until it reports true.
func (g *Graph) Start() error {
	if g.rendering {
		return errors.ErrRenderInProgress
	}
	g.compute()

	if g.sim == nil || g.sim.Stopped() {
		radius := func(n *models.Node) float64 { return g.scales.Radius(n.Size) }
		sim, err := physics.NewSimulation(g.ix.Nodes, g.ix.Links, radius, g.opts.params(), g.log.Named("physics"))
		if err != nil {
			return err
		}
		g.sim = sim
		g.settled = false
	}
	g.rendering = true
	return nil
}

// Tick advances the current render by one step. It reports true once the
// layout has settled and the view was drawn.
func (g *Graph) Tick() (bool, error) {
	if g.sim == nil {
		return false, errors.WithHint(
			errors.Wrap(errors.ErrNotComputed, "no simulation"),
			"call Start or Render first")
	}
	settled, err := g.sim.Tick()
	if err != nil {
		return false, err
	}
	if !settled || !g.rendering {
		return settled, nil
	}

	// rendering stays set while listeners run
	defer func() { g.rendering = false }()

	if !g.settled {
		g.settled = true
		x, y := g.sim.Center()
		g.viewport.CenterOn(x, y)
		g.log.Debugw("layout settled",
			logger.FieldTicks, g.sim.Ticks(),
			"center_x", x,
			"center_y", y,
		)
	}

	visible, err := g.commit()
	if err != nil {
		return true, err
	}
	g.emitter.Emit(events.Payload{Name: events.Rendered, Visible: visible})
	return true, nil
}

// Stop discards an in-flight simulation. Later ticks return ErrStopped.
func (g *Graph) Stop() {
	if g.sim != nil && !g.settled {
		g.sim.Stop()
	}
	g.rendering = false
}

// Phase returns the simulation phase. A graph that never started reports
// Settling.
func (g *Graph) Phase() physics.Phase {
	if g.sim == nil {
		return physics.Settling
	}
	return g.sim.Phase()
}

// Rendering reports whether a render is in progress.
func (g *Graph) Rendering() bool {
	return g.rendering
}

// Filter stages a filter for the next commit.
func (g *Graph) Filter(m state.Matcher) error {
	p, err := state.Compile(m)
	if err != nil {
		return err
	}
	g.view.AddFilter(p)
	return nil
}

// Focus stages a focus query for the next commit.
func (g *Graph) Focus(m state.Matcher) error {
	p, err := state.CompileFocus(m)
	if err != nil {
		return err
	}
	g.view.SetFocus(p)
	return nil
}

// Update commits staged filters and focus and redraws without touching the
// layout. During a render the commit is left to the settle tick.
func (g *Graph) Update() error {
	if g.rendering {
		return nil
	}
	if !g.settled {
		return errors.WithHint(
			errors.Wrap(errors.ErrNotComputed, "update before layout"),
			"call Render first")
	}
	_, err := g.commit()
	return err
}

// Reset clears focus and filters, redraws and fires the reset event unless
// Silent is passed.
func (g *Graph) Reset(opts ...ResetOption) error {
	var cfg resetConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	g.view.Reset()
	if err := g.redraw(); err != nil {
		return err
	}
	if !cfg.silent {
		g.emitter.Emit(events.Payload{Name: events.Reset, Visible: g.VisibleNodeCount()})
	}
	return nil
}

// commit applies the staged state, draws, and reports an empty view.
func (g *Graph) commit() (int, error) {
	res := g.view.Commit(g.ix)
	if res.FocusMissed {
		g.log.Debugw("focus matched no node, keeping previous focus")
	}
	if err := g.draw(); err != nil {
		return res.Visible, err
	}
	if res.Visible == 0 && len(g.ix.Nodes) > 0 {
		g.log.Infow("no nodes match", logger.FieldEvent, events.NoMatch)
		g.emitter.Emit(events.Payload{Name: events.NoMatch})
	}
	return res.Visible, nil
}

// draw reconciles the current state into a frame and hands it to the
// surface.
func (g *Graph) draw() error {
	g.frame = render.Reconcile(render.Input{
		Nodes:     g.ix.Nodes,
		Links:     g.ix.Links,
		View:      g.view,
		Colors:    g.clusters,
		Scales:    g.scales,
		Transform: g.viewport.Transform(),
		Width:     g.opts.Width,
		Height:    g.opts.Height,
	})
	if err := g.surface.Apply(g.frame); err != nil {
		return errors.Wrap(err, "apply frame")
	}
	return nil
}

// redraw draws only once a layout exists.
func (g *Graph) redraw() error {
	if !g.settled || g.rendering {
		return nil
	}
	return g.draw()
}
