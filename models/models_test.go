package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		in   any
		want Key
	}{
		{nil, ""},
		{"abc", "abc"},
		{1, "1"},
		{int64(7), "7"},
		{1.0, "1"},
		{2.5, "2.5"},
		{json.Number("12"), "12"},
		{true, "true"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyOf(tt.in), "KeyOf(%#v)", tt.in)
	}
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 3.0, ToFloat(3))
	assert.Equal(t, 2.5, ToFloat("2.5"))
	assert.Equal(t, 4.0, ToFloat(json.Number("4")))
	assert.Equal(t, 0.0, ToFloat("lots"))
	assert.Equal(t, 0.0, ToFloat(nil))
	assert.Equal(t, 0.0, ToFloat(math.NaN()))
}

func TestNewNodeDefaultAccessors(t *testing.T) {
	rec := Record{"id": 1.0, "text": "Apples", "size": 10.0, "cluster": 0.0}

	n := NewNode(rec, Accessors{})

	assert.Equal(t, "1", n.ID)
	assert.Equal(t, "Apples", n.Text)
	assert.Equal(t, 10.0, n.Size)
	assert.Equal(t, "0", n.Cluster)
	assert.Equal(t, rec, n.Data)
}

func TestNewNodeCustomAccessors(t *testing.T) {
	acc := DefaultAccessors()
	require.True(t, acc.Set(AttrSize, Field("count")))
	require.True(t, acc.Set(AttrText, Func(func(rec Record) any {
		return strings.ToUpper(rec["word"].(string))
	})))
	assert.False(t, acc.Set("colour", Field("c")))

	n := NewNode(Record{"id": "w1", "word": "pear", "count": 4}, acc)

	assert.Equal(t, "w1", n.ID)
	assert.Equal(t, "PEAR", n.Text)
	assert.Equal(t, 4.0, n.Size)
	assert.Equal(t, "count", acc.Size.String())
	assert.Equal(t, "func", acc.Text.String())
}

func TestTooltipData(t *testing.T) {
	n := NewNode(Record{"id": 1, "text": "Apples", "size": 10, "extra": "x"}, Accessors{})

	data := n.TooltipData()

	assert.Equal(t, "Apples", data["text"])
	assert.Equal(t, 10.0, data["size"])
	assert.Equal(t, "x", data["extra"])
}

func TestQueries(t *testing.T) {
	nodes := []*Node{
		{ID: "1", Size: 10},
		{ID: "2", Size: 20},
		{ID: "3", Size: 30},
	}
	big := func(n *Node) bool { return n.Size > 15 }

	first, ok := FirstMatch(nodes, big)
	require.True(t, ok)
	assert.Equal(t, "2", first.ID)

	_, ok = FirstMatch(nodes, func(n *Node) bool { return n.ID == "9" })
	assert.False(t, ok)

	assert.Equal(t, 2, CountNodes(nodes, big))
}

func TestLinkHelpers(t *testing.T) {
	assert.Equal(t, RawLink{Source: "1", Target: "2"}, Link(1, 2))
	assert.Equal(t, RawLink{Source: "a", Target: "b", Weight: 0.5}, WeightedLink("a", "b", 0.5))
}
