package graphview

import (
	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/events"
	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/models"
	"github.com/TFMV/insights/render"
	"github.com/TFMV/insights/state"
	"github.com/TFMV/insights/tooltip"
)

// Zoom sets the zoom scale, clamped to the scale extent.
func (g *Graph) Zoom(scale float64) error {
	g.transition = g.viewport.Zoom(scale)
	return g.redraw()
}

// ZoomIn zooms in one step.
func (g *Graph) ZoomIn() error {
	g.transition = g.viewport.ZoomIn()
	return g.redraw()
}

// ZoomOut zooms out one step.
func (g *Graph) ZoomOut() error {
	g.transition = g.viewport.ZoomOut()
	return g.redraw()
}

// Center moves the node with the given id, or the size-weighted center of
// the layout when no id is given, to the middle of the viewport.
func (g *Graph) Center(id ...models.Key) error {
	var x, y float64
	switch {
	case len(id) > 0:
		n, err := g.GetNode(id[0])
		if err != nil {
			return err
		}
		x, y = n.X, n.Y
	case g.sim != nil:
		x, y = g.sim.Center()
	default:
		x, y = g.opts.Width/2, g.opts.Height/2
	}
	g.transition = g.viewport.CenterOn(x, y)
	return g.redraw()
}

// Transform returns the current scene transform.
func (g *Graph) Transform() render.Transform {
	return g.viewport.Transform()
}

// Transition returns the most recent viewport animation.
func (g *Graph) Transition() render.Transition {
	return g.transition
}

// HandleClick focuses the clicked node and redraws.
func (g *Graph) HandleClick(id models.Key, at events.Point) error {
	n, err := g.GetNode(id)
	if err != nil {
		return err
	}
	if !g.settled && !g.rendering {
		return errors.WithHint(
			errors.Wrap(errors.ErrNotComputed, "click before layout"),
			"call Render first")
	}
	g.view.SetFocus(state.ByID(n.ID))
	if err := g.Update(); err != nil {
		return err
	}
	g.emitter.Emit(events.Payload{
		Name:    events.NodeClick,
		NodeID:  n.ID,
		Data:    n.TooltipData(),
		Point:   &at,
		Visible: g.VisibleNodeCount(),
	})
	return nil
}

// HandleMouseOver shows the tooltip next to the pointer.
func (g *Graph) HandleMouseOver(id models.Key, at events.Point) error {
	n, err := g.GetNode(id)
	if err != nil {
		return err
	}
	data := n.TooltipData()
	if err := g.tip.Show(tooltip.Near(at.X, at.Y), data); err != nil {
		return err
	}
	g.emitter.Emit(events.Payload{Name: events.NodeOver, NodeID: n.ID, Data: data, Point: &at})
	return nil
}

// HandleMouseOut hides the tooltip.
func (g *Graph) HandleMouseOut(id models.Key) error {
	n, err := g.GetNode(id)
	if err != nil {
		return err
	}
	g.tip.Hide()
	g.emitter.Emit(events.Payload{Name: events.NodeOut, NodeID: n.ID, Data: n.TooltipData()})
	return nil
}

// HandleBackgroundClick resets the selection, like a click on empty space.
func (g *Graph) HandleBackgroundClick() error {
	return g.Reset()
}

// GetNode returns the node with the given id.
func (g *Graph) GetNode(id models.Key) (*models.Node, error) {
	g.compute()
	n, ok := g.ix.Node(id)
	if !ok {
		return nil, errors.NewNotFoundError("node %q", id)
	}
	return n, nil
}

// GetAdjacents returns the neighbors of id, itself included, in the
// configured direction. Without an id it returns the adjacency set of the
// focused node.
func (g *Graph) GetAdjacents(id ...models.Key) graph.Adjacency {
	if len(id) == 0 {
		return g.view.Adjacents()
	}
	g.compute()
	return g.ix.Adjacents(id[0], g.view.Direction())
}

// GetClusters returns the color of every cluster.
func (g *Graph) GetClusters() map[string]string {
	g.compute()
	return g.clusters.All()
}

// ClusterIDs returns every cluster id, sorted.
func (g *Graph) ClusterIDs() []string {
	g.compute()
	return g.clusters.Sorted()
}

// GetFocusedNode returns the focused node or nil.
func (g *Graph) GetFocusedNode() *models.Node {
	return g.view.Focused()
}

// VisibleNodeCount counts the nodes the current state shows.
func (g *Graph) VisibleNodeCount() int {
	g.compute()
	return g.view.VisibleCount(g.ix.Nodes)
}

// Index returns the computed graph index.
func (g *Graph) Index() *graph.Index {
	g.compute()
	return g.ix
}

// Frame returns the last drawn frame, nil before the first render.
func (g *Graph) Frame() *render.Frame {
	return g.frame
}

// Tooltip returns the tooltip state.
func (g *Graph) Tooltip() *tooltip.Tooltip {
	return g.tip
}

// SetDirection changes the adjacency direction used by focus and edges. It
// takes effect at the next commit.
func (g *Graph) SetDirection(dir graph.Direction) {
	g.view.SetDirection(dir)
}
