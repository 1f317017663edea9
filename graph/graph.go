// Package graph normalizes raw node and link input into an indexed structure
// with adjacency lookups and a cluster color registry.
package graph

import (
	"github.com/TFMV/insights/models"
)

// Direction selects which adjacency map a lookup reads.
type Direction int

const (
	Both Direction = iota
	Incoming
	Outgoing
)

// String returns the config name of the direction.
func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	default:
		return "both"
	}
}

// ParseDirection parses "both", "incoming" or "outgoing". Empty means both.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "", "both":
		return Both, true
	case "incoming", "in":
		return Incoming, true
	case "outgoing", "out":
		return Outgoing, true
	}
	return Both, false
}

// Adjacency is a set of neighbor ids.
type Adjacency map[models.Key]bool

// Link is a resolved connection between two nodes. It is directed for
// adjacency bookkeeping and undirected when drawn.
type Link struct {
	Source *models.Node
	Target *models.Node
	Weight float64
}

// Touches reports whether the link has id as one of its endpoints.
func (l Link) Touches(id models.Key) bool {
	return l.Source.ID == id || l.Target.ID == id
}

// Heavier returns the endpoint with the larger size. Ties go to the source.
func (l Link) Heavier() *models.Node {
	if l.Target.Size > l.Source.Size {
		return l.Target
	}
	return l.Source
}

// Index holds the nodes in input order, the resolved links and the
// directional adjacency maps. It is built once and never mutated afterwards.
type Index struct {
	Nodes     []*models.Node
	Links     []Link
	MaxSize   float64
	MaxWeight float64
	// Dropped counts raw links that named an unknown node.
	Dropped int

	byID     map[models.Key]*models.Node
	incoming map[models.Key]Adjacency
	outgoing map[models.Key]Adjacency
}

// Build resolves records and raw links. Duplicate node ids keep the first
// record. Links referencing unknown ids are skipped.
func Build(records []models.Record, raw []models.RawLink, acc models.Accessors) *Index {
	ix := &Index{
		Nodes:    make([]*models.Node, 0, len(records)),
		Links:    make([]Link, 0, len(raw)),
		byID:     make(map[models.Key]*models.Node, len(records)),
		incoming: make(map[models.Key]Adjacency, len(records)),
		outgoing: make(map[models.Key]Adjacency, len(records)),
	}

	for _, rec := range records {
		n := models.NewNode(rec, acc)
		if _, dup := ix.byID[n.ID]; dup {
			continue
		}
		ix.byID[n.ID] = n
		ix.Nodes = append(ix.Nodes, n)
		if n.Size > ix.MaxSize {
			ix.MaxSize = n.Size
		}
		// every node is adjacent to itself
		ix.incoming[n.ID] = Adjacency{n.ID: true}
		ix.outgoing[n.ID] = Adjacency{n.ID: true}
	}

	for _, l := range raw {
		source, okS := ix.byID[l.Source]
		target, okT := ix.byID[l.Target]
		if !okS || !okT {
			ix.Dropped++
			continue
		}
		if l.Weight > ix.MaxWeight {
			ix.MaxWeight = l.Weight
		}
		ix.outgoing[source.ID][target.ID] = true
		ix.incoming[target.ID][source.ID] = true
		ix.Links = append(ix.Links, Link{Source: source, Target: target, Weight: l.Weight})
	}

	return ix
}

// Node returns the node with the given id.
func (ix *Index) Node(id models.Key) (*models.Node, bool) {
	n, ok := ix.byID[id]
	return n, ok
}

// Adjacents returns a fresh set of the node's neighbors in the given
// direction, including the node itself. Unknown ids yield nil.
func (ix *Index) Adjacents(id models.Key, dir Direction) Adjacency {
	if _, ok := ix.byID[id]; !ok {
		return nil
	}
	out := make(Adjacency)
	if dir != Outgoing {
		for k := range ix.incoming[id] {
			out[k] = true
		}
	}
	if dir != Incoming {
		for k := range ix.outgoing[id] {
			out[k] = true
		}
	}
	return out
}

// Neighbors counts the distinct other nodes linked to id in either direction.
func (ix *Index) Neighbors(id models.Key) int {
	adj := ix.Adjacents(id, Both)
	if adj == nil {
		return 0
	}
	return len(adj) - 1
}
