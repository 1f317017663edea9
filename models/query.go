package models

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// FirstMatch returns the first node, in input order, accepted by filter.
func FirstMatch(nodes []*Node, filter NodeFilter) (*Node, bool) {
	for _, n := range nodes {
		if filter(n) {
			return n, true
		}
	}
	return nil, false
}

// CountNodes counts nodes accepted by filter.
func CountNodes(nodes []*Node, filter NodeFilter) int {
	count := 0
	for _, n := range nodes {
		if filter(n) {
			count++
		}
	}
	return count
}
