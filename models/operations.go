package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Attribute names that can be re-mapped with accessors.
const (
	AttrID      = "id"
	AttrSize    = "size"
	AttrCluster = "cluster"
	AttrText    = "text"
)

// Extractor pulls an attribute value out of a raw record.
type Extractor func(rec Record) any

// Accessor is either a literal record key or an extractor function.
type Accessor struct {
	field string
	fn    Extractor
}

// Field returns an accessor reading rec[name].
func Field(name string) Accessor {
	return Accessor{field: name}
}

// Func returns an accessor computing the value with fn.
func Func(fn Extractor) Accessor {
	return Accessor{fn: fn}
}

// IsZero reports whether the accessor was never set.
func (a Accessor) IsZero() bool {
	return a.fn == nil && a.field == ""
}

// Get extracts the attribute from rec.
func (a Accessor) Get(rec Record) any {
	if a.fn != nil {
		return a.fn(rec)
	}
	return rec[a.field]
}

// String describes the accessor for logs.
func (a Accessor) String() string {
	if a.fn != nil {
		return "func"
	}
	return a.field
}

// Accessors maps each node attribute to its accessor.
type Accessors struct {
	ID      Accessor
	Size    Accessor
	Cluster Accessor
	Text    Accessor
}

// DefaultAccessors reads id, size, cluster and text keys.
func DefaultAccessors() Accessors {
	return Accessors{
		ID:      Field(AttrID),
		Size:    Field(AttrSize),
		Cluster: Field(AttrCluster),
		Text:    Field(AttrText),
	}
}

// Set replaces the accessor for one attribute. It reports false for unknown
// attribute names.
func (a *Accessors) Set(name string, acc Accessor) bool {
	switch name {
	case AttrID:
		a.ID = acc
	case AttrSize:
		a.Size = acc
	case AttrCluster:
		a.Cluster = acc
	case AttrText:
		a.Text = acc
	default:
		return false
	}
	return true
}

// withDefaults fills unset accessors with the default keys.
func (a Accessors) withDefaults() Accessors {
	def := DefaultAccessors()
	if a.ID.IsZero() {
		a.ID = def.ID
	}
	if a.Size.IsZero() {
		a.Size = def.Size
	}
	if a.Cluster.IsZero() {
		a.Cluster = def.Cluster
	}
	if a.Text.IsZero() {
		a.Text = def.Text
	}
	return a
}

// NewNode resolves a raw record into a Node using the accessors.
func NewNode(rec Record, acc Accessors) *Node {
	acc = acc.withDefaults()
	return &Node{
		ID:      KeyOf(acc.ID.Get(rec)),
		Size:    ToFloat(acc.Size.Get(rec)),
		Cluster: KeyOf(acc.Cluster.Get(rec)),
		Text:    toText(acc.Text.Get(rec)),
		X:       ToFloat(rec["x"]),
		Y:       ToFloat(rec["y"]),
		Data:    rec,
	}
}

// SetPosition sets the position of a node
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
}

// KeyOf normalizes a raw id or cluster value into a Key. Integral floats
// print without a fraction so the JSON number 1 and the int 1 match "1".
func KeyOf(v any) Key {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// ToFloat converts a numeric-ish value to float64. Non-numeric values and
// NaN yield 0.
func ToFloat(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		f, _ = t.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(t), 64)
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func toText(v any) string {
	if v == nil {
		return ""
	}
	return KeyOf(v)
}
