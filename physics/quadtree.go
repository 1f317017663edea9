package physics

import "math"

// maxDepth bounds subdivision so coincident bodies share a leaf.
const maxDepth = 32

// quad is a node of a point quadtree over body positions. Leaves hold bodies;
// internal nodes hold up to four children.
type quad struct {
	x1, y1, x2, y2 float64
	children       [4]*quad
	bodies         []*body
	leaf           bool
}

// newQuadtree indexes bodies by their current positions. The root is square
// and covers every body.
func newQuadtree(bodies []*body) *quad {
	x1, y1 := math.Inf(1), math.Inf(1)
	x2, y2 := math.Inf(-1), math.Inf(-1)
	for _, b := range bodies {
		x1 = math.Min(x1, b.node.X)
		y1 = math.Min(y1, b.node.Y)
		x2 = math.Max(x2, b.node.X)
		y2 = math.Max(y2, b.node.Y)
	}
	if len(bodies) == 0 {
		x1, y1, x2, y2 = 0, 0, 1, 1
	}

	side := math.Max(math.Max(x2-x1, y2-y1), 1)
	root := &quad{x1: x1, y1: y1, x2: x1 + side, y2: y1 + side, leaf: true}
	for _, b := range bodies {
		root.insert(b, 0)
	}
	return root
}

func (q *quad) insert(b *body, depth int) {
	if !q.leaf {
		q.child(b).insert(b, depth+1)
		return
	}
	if len(q.bodies) == 0 || depth >= maxDepth {
		q.bodies = append(q.bodies, b)
		return
	}

	existing := q.bodies
	q.bodies = nil
	q.leaf = false
	for _, e := range existing {
		q.child(e).insert(e, depth+1)
	}
	q.child(b).insert(b, depth+1)
}

// child returns, creating on demand, the quadrant containing b.
func (q *quad) child(b *body) *quad {
	mx, my := (q.x1+q.x2)/2, (q.y1+q.y2)/2
	i := 0
	if b.node.X >= mx {
		i |= 1
	}
	if b.node.Y >= my {
		i |= 2
	}
	if q.children[i] == nil {
		c := &quad{leaf: true}
		if i&1 == 0 {
			c.x1, c.x2 = q.x1, mx
		} else {
			c.x1, c.x2 = mx, q.x2
		}
		if i&2 == 0 {
			c.y1, c.y2 = q.y1, my
		} else {
			c.y1, c.y2 = my, q.y2
		}
		q.children[i] = c
	}
	return q.children[i]
}

// visit walks the tree depth first. Returning true from fn skips the
// children of that quad.
func (q *quad) visit(fn func(q *quad) bool) {
	if fn(q) {
		return
	}
	for _, c := range q.children {
		if c != nil {
			c.visit(fn)
		}
	}
}

// size counts the bodies stored under q.
func (q *quad) size() int {
	n := len(q.bodies)
	for _, c := range q.children {
		if c != nil {
			n += c.size()
		}
	}
	return n
}
