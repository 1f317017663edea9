package state

import (
	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/models"
)

// View is the selection state of one graph. Filter and focus requests are
// staged and only take effect at Commit.
//
// Filters are one-shot: Commit moves the pending filters into the applied
// set and clears the queue, so a commit with nothing pending shows every
// node again. Focus persists across commits until Reset.
type View struct {
	direction graph.Direction

	pending []Predicate
	applied []Predicate
	matched map[models.Key]bool

	pendingFocus Predicate
	focused      *models.Node
	adjacents    graph.Adjacency
}

// CommitResult describes what a commit changed.
type CommitResult struct {
	// Visible is the number of visible nodes after the commit
	Visible int
	// FocusMissed is set when a staged focus matched no node
	FocusMissed bool
	// Filtered is set when filters were applied in this cycle
	Filtered bool
}

// NewView creates an empty view reading adjacency in the given direction.
func NewView(dir graph.Direction) *View {
	return &View{direction: dir}
}

// Direction returns the adjacency direction.
func (v *View) Direction() graph.Direction {
	return v.direction
}

// SetDirection changes the adjacency direction. It takes effect at the next
// commit.
func (v *View) SetDirection(dir graph.Direction) {
	v.direction = dir
}

// AddFilter stages a filter for the next commit.
func (v *View) AddFilter(p Predicate) {
	v.pending = append(v.pending, p)
}

// SetFocus stages a focus query for the next commit. A later call replaces
// an earlier one.
func (v *View) SetFocus(p Predicate) {
	v.pendingFocus = p
}

// Pending reports the number of staged filters.
func (v *View) Pending() int {
	return len(v.pending)
}

// Filtered reports whether filters are applied.
func (v *View) Filtered() bool {
	return len(v.applied) > 0
}

// Focused returns the focused node or nil.
func (v *View) Focused() *models.Node {
	return v.focused
}

// Adjacents returns a copy of the focus adjacency set, nil without focus.
func (v *View) Adjacents() graph.Adjacency {
	if v.adjacents == nil {
		return nil
	}
	out := make(graph.Adjacency, len(v.adjacents))
	for k := range v.adjacents {
		out[k] = true
	}
	return out
}

// Matched reports whether a node passed every applied filter. Without
// filters every node matches.
func (v *View) Matched(id models.Key) bool {
	if !v.Filtered() {
		return true
	}
	return v.matched[id]
}

// Commit applies the staged filters and focus against ix.
func (v *View) Commit(ix *graph.Index) CommitResult {
	var res CommitResult

	v.applied, v.pending = v.pending, nil
	v.matched = nil
	if len(v.applied) > 0 {
		res.Filtered = true
		match := All(v.applied...)
		v.matched = make(map[models.Key]bool, len(ix.Nodes))
		for _, n := range ix.Nodes {
			if match(n) {
				v.matched[n.ID] = true
			}
		}
	}

	if v.pendingFocus != nil {
		p := v.pendingFocus
		v.pendingFocus = nil
		if n, ok := models.FirstMatch(ix.Nodes, models.NodeFilter(p)); ok {
			v.focused = n
		} else {
			res.FocusMissed = true
		}
	}
	if v.focused != nil {
		v.adjacents = ix.Adjacents(v.focused.ID, v.direction)
	}

	res.Visible = v.VisibleCount(ix.Nodes)
	return res
}

// IsNodeVisible applies the visibility table:
//
//	filters + focus: matched and (adjacent or focused)
//	filters only:    matched
//	focus only:      adjacent or focused
//	neither:         visible
func (v *View) IsNodeVisible(n *models.Node) bool {
	filtered := v.Filtered()
	if v.focused == nil {
		return !filtered || v.matched[n.ID]
	}
	near := n.ID == v.focused.ID || v.adjacents[n.ID]
	if filtered {
		return v.matched[n.ID] && near
	}
	return near
}

// IsPathVisible reports whether an edge is drawn. Both endpoints must be
// visible and, under focus, the edge must join the focused node to an
// adjacent node in the configured direction.
func (v *View) IsPathVisible(l graph.Link) bool {
	if !v.IsNodeVisible(l.Source) || !v.IsNodeVisible(l.Target) {
		return false
	}
	if v.focused == nil {
		return true
	}

	id := v.focused.ID
	switch v.direction {
	case graph.Outgoing:
		return l.Source.ID == id && v.adjacents[l.Target.ID]
	case graph.Incoming:
		return l.Target.ID == id && v.adjacents[l.Source.ID]
	}
	switch id {
	case l.Source.ID:
		return v.adjacents[l.Target.ID]
	case l.Target.ID:
		return v.adjacents[l.Source.ID]
	}
	return false
}

// VisibleCount counts visible nodes.
func (v *View) VisibleCount(nodes []*models.Node) int {
	return models.CountNodes(nodes, v.IsNodeVisible)
}

// Reset clears focus, adjacency and both filter sets.
func (v *View) Reset() {
	v.pending = nil
	v.applied = nil
	v.matched = nil
	v.pendingFocus = nil
	v.focused = nil
	v.adjacents = nil
}
