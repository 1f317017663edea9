package physics

import "math"

// collide runs one soft declutter sweep. A neighbor overlaps a body when it
// lies within the body's radius plus twice its own radius plus the margin;
// each overlapping pair is pushed apart by CollisionAlpha of the overlap.
func (s *Simulation) collide() {
	if len(s.bodies) < 2 {
		return
	}

	tree := newQuadtree(s.bodies)
	margin := s.params.CollisionMargin
	damping := s.params.CollisionAlpha

	for i, b := range s.bodies {
		reach := b.radius + 2*s.maxRadius + margin
		nx1, nx2 := b.node.X-reach, b.node.X+reach
		ny1, ny2 := b.node.Y-reach, b.node.Y+reach

		tree.visit(func(q *quad) bool {
			for _, o := range q.bodies {
				if o == b {
					continue
				}
				x := b.node.X - o.node.X
				y := b.node.Y - o.node.Y
				l := math.Sqrt(x*x + y*y)
				minDist := b.radius + o.radius*2 + margin
				if l >= minDist {
					continue
				}
				if l == 0 {
					x, y = s.jitter(i, i+1)
					l = math.Sqrt(x*x + y*y)
				}
				k := (l - minDist) / l * damping
				x *= k
				y *= k
				b.node.X -= x
				b.node.Y -= y
				o.node.X += x
				o.node.Y += y
			}
			return q.x1 > nx2 || q.x2 < nx1 || q.y1 > ny2 || q.y2 < ny1
		})
	}
}

// Overlaps counts pairs of nodes whose circles intersect. It is O(n²) and
// meant for diagnostics and tests.
func (s *Simulation) Overlaps() int {
	count := 0
	for i, a := range s.bodies {
		for _, b := range s.bodies[i+1:] {
			d := math.Hypot(a.node.X-b.node.X, a.node.Y-b.node.Y)
			if d < a.radius+b.radius {
				count++
			}
		}
	}
	return count
}
