// Package models provides the data structures shared by every layer of the
// graph engine: raw input records, attribute accessors and resolved nodes.
package models

// Key identifies a node. Raw ids of any type are normalized with KeyOf.
type Key = string

// Record is one raw node as supplied by the caller, usually decoded JSON.
type Record map[string]any

// Node is a weighted, clustered, labeled point in the graph.
//
// X and Y belong to the force simulation while it runs and are read-only
// once the layout has settled.
type Node struct {
	ID      Key     `json:"id"`
	Size    float64 `json:"size"`
	Cluster string  `json:"cluster"`
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Data    Record  `json:"data,omitempty"`
}

// RawLink is an unresolved (source, target) pair.
type RawLink struct {
	Source Key     `json:"source"`
	Target Key     `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// Link builds a RawLink from ids of any type.
func Link(source, target any) RawLink {
	return RawLink{Source: KeyOf(source), Target: KeyOf(target)}
}

// WeightedLink builds a RawLink carrying a weight.
func WeightedLink(source, target any, weight float64) RawLink {
	l := Link(source, target)
	l.Weight = weight
	return l
}

// TooltipData is the record handed to the tooltip collaborator. It always
// carries text and size alongside the node's raw fields.
func (n *Node) TooltipData() map[string]any {
	data := make(map[string]any, len(n.Data)+4)
	for k, v := range n.Data {
		data[k] = v
	}
	data["id"] = n.ID
	data["text"] = n.Text
	data["size"] = n.Size
	data["cluster"] = n.Cluster
	return data
}
