package graph

import (
	"testing"

	"github.com/TFMV/insights/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fruitRecords() []models.Record {
	return []models.Record{
		{"id": 1, "text": "Apples", "size": 10, "cluster": 0},
		{"id": 2, "text": "Bananas", "size": 20, "cluster": 1},
		{"id": 3, "text": "Carrot", "size": 30, "cluster": 2},
	}
}

func TestBuildResolvesLinks(t *testing.T) {
	ix := Build(fruitRecords(), []models.RawLink{models.Link(1, 2)}, models.Accessors{})

	require.Len(t, ix.Nodes, 3)
	require.Len(t, ix.Links, 1)
	assert.Equal(t, "1", ix.Links[0].Source.ID)
	assert.Equal(t, "2", ix.Links[0].Target.ID)
	assert.Equal(t, 30.0, ix.MaxSize)
	assert.Zero(t, ix.Dropped)
}

func TestBuildDropsDanglingLinks(t *testing.T) {
	links := []models.RawLink{
		models.Link(1, 2),
		models.Link(1, 99),
		models.Link("ghost", 3),
	}

	ix := Build(fruitRecords(), links, models.Accessors{})

	assert.Len(t, ix.Links, 1)
	assert.Equal(t, 2, ix.Dropped)
}

func TestBuildKeepsFirstDuplicate(t *testing.T) {
	records := append(fruitRecords(), models.Record{"id": 1, "text": "Impostor", "size": 99})

	ix := Build(records, nil, models.Accessors{})

	require.Len(t, ix.Nodes, 3)
	n, ok := ix.Node("1")
	require.True(t, ok)
	assert.Equal(t, "Apples", n.Text)
	assert.Equal(t, 30.0, ix.MaxSize)
}

func TestAdjacentsIncludeSelf(t *testing.T) {
	ix := Build(fruitRecords(), []models.RawLink{models.Link(1, 2)}, models.Accessors{})

	assert.Equal(t, Adjacency{"1": true, "2": true}, ix.Adjacents("1", Both))
	assert.Equal(t, Adjacency{"2": true, "1": true}, ix.Adjacents("2", Both))
	// unlinked node is still adjacent to itself
	assert.Equal(t, Adjacency{"3": true}, ix.Adjacents("3", Both))
	assert.Nil(t, ix.Adjacents("42", Both))
}

func TestAdjacentsByDirection(t *testing.T) {
	links := []models.RawLink{models.Link(1, 2), models.Link(3, 1)}
	ix := Build(fruitRecords(), links, models.Accessors{})

	assert.Equal(t, Adjacency{"1": true, "2": true}, ix.Adjacents("1", Outgoing))
	assert.Equal(t, Adjacency{"1": true, "3": true}, ix.Adjacents("1", Incoming))
	assert.Equal(t, Adjacency{"1": true, "2": true, "3": true}, ix.Adjacents("1", Both))
	assert.Equal(t, 2, ix.Neighbors("1"))
	assert.Equal(t, 0, ix.Neighbors("nope"))
}

func TestAdjacentsReturnsCopy(t *testing.T) {
	ix := Build(fruitRecords(), []models.RawLink{models.Link(1, 2)}, models.Accessors{})

	adj := ix.Adjacents("1", Both)
	adj["3"] = true

	assert.False(t, ix.Adjacents("1", Both)["3"])
}

func TestLinkHeavier(t *testing.T) {
	ix := Build(fruitRecords(), []models.RawLink{models.Link(1, 2), models.Link(3, 2)}, models.Accessors{})

	assert.Equal(t, "2", ix.Links[0].Heavier().ID)
	assert.Equal(t, "3", ix.Links[1].Heavier().ID)
	assert.True(t, ix.Links[0].Touches("1"))
	assert.False(t, ix.Links[0].Touches("3"))
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"": Both, "both": Both, "in": Incoming, "outgoing": Outgoing} {
		got, ok := ParseDirection(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseDirection("sideways")
	assert.False(t, ok)
	assert.Equal(t, "incoming", Incoming.String())
}

func TestClustersStableAssignment(t *testing.T) {
	c := NewClusters(Palette{"#1f77b4", "#ff7f0e"}, map[string]string{"special": "#000000"})

	first := c.Color("a")
	assert.Equal(t, "#1f77b4", first)
	assert.Equal(t, "#000000", c.Color("special"))
	assert.Equal(t, "#ff7f0e", c.Color("b"))
	// repeated lookups never reassign
	assert.Equal(t, first, c.Color("a"))

	assert.Equal(t, []string{"a", "special", "b"}, c.Order())
	assert.Equal(t, map[string]string{"a": "#1f77b4", "special": "#000000", "b": "#ff7f0e"}, c.All())
}

func TestClustersRegisterFollowsInputOrder(t *testing.T) {
	ix := Build(fruitRecords(), nil, models.Accessors{})
	c := NewClusters(nil, nil)

	c.Register(ix.Nodes)

	assert.Equal(t, []string{"0", "1", "2"}, c.Order())
	assert.Equal(t, Category20()[1], c.All()["1"])
}

func TestClustersPaletteWraps(t *testing.T) {
	c := NewClusters(Palette{"#111", "#222"}, nil)

	c.Color("a")
	c.Color("b")

	assert.Equal(t, "#111", c.Color("c"))
	assert.Equal(t, []string{"a", "b", "c"}, c.Sorted())
}
