package graph

import (
	"sort"

	"github.com/TFMV/insights/models"
)

// Palette is an ordered list of categorical colors.
type Palette []string

// Category20 is the d3 category20 palette.
func Category20() Palette {
	return Palette{
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
		"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
		"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
	}
}

// Clusters assigns display colors to cluster ids. A color, once handed out,
// stays with its cluster for the lifetime of the registry.
type Clusters struct {
	palette   Palette
	overrides map[string]string
	colors    map[string]string
	order     []string
	next      int
}

// NewClusters creates a registry. overrides pin colors for specific cluster
// ids; everything else draws from palette in first-encounter order.
func NewClusters(palette Palette, overrides map[string]string) *Clusters {
	if len(palette) == 0 {
		palette = Category20()
	}
	c := &Clusters{
		palette:   palette,
		overrides: make(map[string]string, len(overrides)),
		colors:    make(map[string]string),
	}
	for k, v := range overrides {
		c.overrides[k] = v
	}
	return c
}

// Color returns the color of a cluster, assigning one on first sight.
func (c *Clusters) Color(cluster string) string {
	if color, ok := c.colors[cluster]; ok {
		return color
	}
	color, ok := c.overrides[cluster]
	if !ok {
		color = c.palette[c.next%len(c.palette)]
		c.next++
	}
	c.colors[cluster] = color
	c.order = append(c.order, cluster)
	return color
}

// Register walks the nodes in input order so assignment is deterministic.
func (c *Clusters) Register(nodes []*models.Node) {
	for _, n := range nodes {
		c.Color(n.Cluster)
	}
}

// All returns a copy of every assigned cluster color.
func (c *Clusters) All() map[string]string {
	out := make(map[string]string, len(c.colors))
	for k, v := range c.colors {
		out[k] = v
	}
	return out
}

// Order returns cluster ids in assignment order.
func (c *Clusters) Order() []string {
	return append([]string(nil), c.order...)
}

// Sorted returns cluster ids sorted lexically.
func (c *Clusters) Sorted() []string {
	ids := c.Order()
	sort.Strings(ids)
	return ids
}
