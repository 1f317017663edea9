package physics

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(t *testing.T, n int) *graph.Index {
	t.Helper()
	records := make([]models.Record, 0, n)
	links := make([]models.RawLink, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.Record{"id": i, "size": float64(i%7 + 1), "cluster": i % 3})
		if i > 0 {
			links = append(links, models.Link(i-1, i))
		}
	}
	return graph.Build(records, links, models.Accessors{})
}

func fixedRadius(r float64) RadiusFunc {
	return func(*models.Node) float64 { return r }
}

func positions(ix *graph.Index) [][2]float64 {
	out := make([][2]float64, len(ix.Nodes))
	for i, n := range ix.Nodes {
		out[i] = [2]float64{n.X, n.Y}
	}
	return out
}

func TestSimulationSettlesInBoundedTicks(t *testing.T) {
	ix := chain(t, 25)
	sim, err := NewSimulation(ix.Nodes, ix.Links, fixedRadius(6), DefaultParams(), nil)
	require.NoError(t, err)

	// 0.1 * 0.99^k < 0.07 after 36 ticks, then one settle tick
	limit := 100
	settled := false
	for i := 0; i < limit && !settled; i++ {
		settled, err = sim.Tick()
		require.NoError(t, err)
	}

	require.True(t, settled)
	assert.Equal(t, Settled, sim.Phase())
	assert.Zero(t, sim.Alpha())
	assert.LessOrEqual(t, sim.Ticks(), 40)
}

func TestPhaseProgression(t *testing.T) {
	ix := chain(t, 5)
	sim, err := NewSimulation(ix.Nodes, ix.Links, fixedRadius(6), DefaultParams(), nil)
	require.NoError(t, err)

	seen := []Phase{sim.Phase()}
	for sim.Phase() != Settled {
		_, err := sim.Tick()
		require.NoError(t, err)
		if seen[len(seen)-1] != sim.Phase() {
			seen = append(seen, sim.Phase())
		}
	}

	assert.Equal(t, []Phase{Settling, CollisionPass, Settled}, seen)
}

func TestSettledPositionsAreFrozen(t *testing.T) {
	ix := chain(t, 8)
	sim, err := NewSimulation(ix.Nodes, ix.Links, fixedRadius(6), DefaultParams(), nil)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	before := positions(ix)
	for i := 0; i < 5; i++ {
		settled, err := sim.Tick()
		require.NoError(t, err)
		assert.True(t, settled)
	}

	assert.Equal(t, before, positions(ix))
}

func TestZeroNodesSettleImmediately(t *testing.T) {
	params := DefaultParams()
	sim, err := NewSimulation(nil, nil, nil, params, nil)
	require.NoError(t, err)

	settled, err := sim.Tick()
	require.NoError(t, err)
	assert.True(t, settled)

	x, y := sim.Center()
	assert.Equal(t, params.Width/2, x)
	assert.Equal(t, params.Height/2, y)
}

func TestMassCenterIsSizeWeighted(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", Size: 1, X: 100, Y: 100},
		{ID: "b", Size: 3, X: 500, Y: 300},
	}
	params := DefaultParams()
	params.Charge = 0
	params.Gravity = 0
	params.InitialAlpha = params.SettleAt / 2
	sim, err := NewSimulation(nodes, nil, fixedRadius(0), params, nil)
	require.NoError(t, err)

	require.NoError(t, sim.Run(context.Background()))

	x, y := sim.Center()
	var wantX, wantY float64
	for _, n := range nodes {
		wantX += n.X * n.Size / 4
		wantY += n.Y * n.Size / 4
	}
	assert.InDelta(t, wantX, x, 1e-9)
	assert.InDelta(t, wantY, y, 1e-9)
}

func TestMassCenterWithZeroSizesFallsBackToMean(t *testing.T) {
	nodes := []*models.Node{{ID: "a", X: 10, Y: 10}, {ID: "b", X: 30, Y: 50}}
	params := DefaultParams()
	params.Charge, params.Gravity = 0, 0
	params.InitialAlpha = params.SettleAt / 2
	sim, err := NewSimulation(nodes, nil, fixedRadius(0), params, nil)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	x, y := sim.Center()
	assert.False(t, math.IsNaN(x) || math.IsNaN(y))
	assert.InDelta(t, (nodes[0].X+nodes[1].X)/2, x, 1e-9)
	assert.InDelta(t, (nodes[0].Y+nodes[1].Y)/2, y, 1e-9)
}

func TestDeterministicForSameSeed(t *testing.T) {
	run := func() [][2]float64 {
		ix := chain(t, 30)
		sim, err := NewSimulation(ix.Nodes, ix.Links, fixedRadius(8), DefaultParams(), nil)
		require.NoError(t, err)
		require.NoError(t, sim.Run(context.Background()))
		return positions(ix)
	}

	assert.Equal(t, run(), run())
}

func TestUnlinkedNodeStillMoves(t *testing.T) {
	ix := chain(t, 4)
	loner := &models.Node{ID: "loner", Size: 1}
	nodes := append(append([]*models.Node{}, ix.Nodes...), loner)
	sim, err := NewSimulation(nodes, ix.Links, fixedRadius(6), DefaultParams(), nil)
	require.NoError(t, err)
	startX, startY := loner.X, loner.Y

	_, err = sim.Tick()
	require.NoError(t, err)

	assert.True(t, loner.X != startX || loner.Y != startY)
}

func TestPresetPositionsAreKept(t *testing.T) {
	nodes := []*models.Node{{ID: "a", X: 42, Y: 24}}
	_, err := NewSimulation(nodes, nil, nil, DefaultParams(), nil)
	require.NoError(t, err)

	assert.Equal(t, 42.0, nodes[0].X)
	assert.Equal(t, 24.0, nodes[0].Y)
}

func TestCollisionReducesOverlap(t *testing.T) {
	nodes := make([]*models.Node, 0, 16)
	for i := 0; i < 16; i++ {
		// a tight 4x4 grid, 5px apart, radius 10
		nodes = append(nodes, &models.Node{ID: fmt.Sprint(i), Size: 1, X: 300 + float64(i%4)*5, Y: 300 + float64(i/4)*5})
	}
	params := DefaultParams()
	sim, err := NewSimulation(nodes, nil, fixedRadius(10), params, nil)
	require.NoError(t, err)

	before := sim.Overlaps()
	sim.collide()
	after := sim.Overlaps()

	assert.Greater(t, before, 0)
	assert.Less(t, after, before)
}

func TestCollisionSeparatesCoincidentNodes(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", X: 200, Y: 200},
		{ID: "b", X: 200, Y: 200},
	}
	sim, err := NewSimulation(nodes, nil, fixedRadius(5), DefaultParams(), nil)
	require.NoError(t, err)

	sim.collide()

	assert.False(t, nodes[0].X == nodes[1].X && nodes[0].Y == nodes[1].Y)
	for _, n := range nodes {
		assert.False(t, math.IsNaN(n.X) || math.IsNaN(n.Y))
	}
}

func TestCollisionReachCountsNeighborRadiusTwice(t *testing.T) {
	tests := []struct {
		name  string
		gap   float64
		alpha float64
		want  float64
	}{
		// radius 10, margin 16: a neighbor overlaps within 10 + 10*2 + 16 = 46
		{name: "inside reach", gap: 40, alpha: 0.5, want: 46},
		{name: "outside reach", gap: 50, alpha: 0.5, want: 50},
		{name: "zero alpha", gap: 40, alpha: 0, want: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := []*models.Node{
				{ID: "a", Size: 1, X: 300, Y: 300},
				{ID: "b", Size: 1, X: 300 + tt.gap, Y: 300},
			}
			params := DefaultParams()
			params.CollisionAlpha = tt.alpha
			sim, err := NewSimulation(nodes, nil, fixedRadius(10), params, nil)
			require.NoError(t, err)

			sim.collide()

			assert.InDelta(t, tt.want, nodes[1].X-nodes[0].X, 1e-9)
			assert.Equal(t, 300.0, nodes[0].Y)
		})
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ix := chain(t, 10)
	sim, err := NewSimulation(ix.Nodes, ix.Links, fixedRadius(6), DefaultParams(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = sim.Tick()
	assert.True(t, errors.Is(err, errors.ErrStopped))
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"cooling one", func(p *Params) { p.Cooling = 1 }},
		{"cooling zero", func(p *Params) { p.Cooling = 0 }},
		{"no width", func(p *Params) { p.Width = 0 }},
		{"no alpha", func(p *Params) { p.InitialAlpha = 0 }},
		{"inverted thresholds", func(p *Params) { p.CollideAt = 0.01 }},
		{"collision alpha", func(p *Params) { p.CollisionAlpha = 1.5 }},
		{"friction", func(p *Params) { p.Friction = -0.1 }},
		{"margin", func(p *Params) { p.CollisionMargin = -1 }},
	}

	require.NoError(t, DefaultParams().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestQuadtreeHoldsEveryBody(t *testing.T) {
	bodies := []*body{
		{node: &models.Node{X: 0, Y: 0}},
		{node: &models.Node{X: 10, Y: 0}},
		{node: &models.Node{X: 10, Y: 10}},
		{node: &models.Node{X: 10, Y: 10}},
	}

	tree := newQuadtree(bodies)

	assert.Equal(t, len(bodies), tree.size())

	visited := 0
	tree.visit(func(q *quad) bool {
		visited += len(q.bodies)
		return false
	})
	assert.Equal(t, len(bodies), visited)
}

func TestQuadtreeVisitPrunes(t *testing.T) {
	bodies := []*body{
		{node: &models.Node{X: 0, Y: 0}},
		{node: &models.Node{X: 100, Y: 100}},
	}
	tree := newQuadtree(bodies)

	seen := 0
	tree.visit(func(q *quad) bool {
		// skip anything that does not contain the origin
		if q.x1 > 1 || q.y1 > 1 {
			return true
		}
		seen += len(q.bodies)
		return false
	})

	assert.Equal(t, 1, seen)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "settling", Settling.String())
	assert.Equal(t, "collision-pass", CollisionPass.String())
	assert.Equal(t, "settled", Settled.String())
	assert.Equal(t, "Force-Directed Layout", (&Simulation{}).GetName())
}
