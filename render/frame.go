package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/models"
	"github.com/TFMV/insights/scale"
	"github.com/lucasb-eyer/go-colorful"
)

// Style constants.
const (
	// UnselectedColor fills hidden nodes and strokes hidden edges.
	UnselectedColor = "transparent"
	// DefaultStroke outlines visible, unfocused nodes.
	DefaultStroke = "#FFF"

	DefaultEdgeWidth = 0.3
	FocusedEdgeWidth = 1.5

	CursorPointer = "pointer"
	CursorDefault = "default"

	// darkerFactor matches d3's rgb.darker() with k=1
	darkerFactor = 0.7
)

// Frame is the complete declarative description of one view: every node
// and edge with its geometry and style, plus the scene transform.
type Frame struct {
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	Transform Transform   `json:"transform"`
	Nodes     []NodeStyle `json:"nodes"`
	Edges     []EdgeStyle `json:"edges"`
	Visible   int         `json:"visible"`
	Focused   string      `json:"focused,omitempty"`
}

// NodeStyle is the drawn state of one node.
type NodeStyle struct {
	ID      string     `json:"id"`
	Cluster string     `json:"cluster"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	Radius  float64    `json:"r"`
	Fill    string     `json:"fill"`
	Stroke  string     `json:"stroke"`
	Cursor  string     `json:"cursor"`
	Visible bool       `json:"visible"`
	Focused bool       `json:"focused,omitempty"`
	Title   TitleStyle `json:"title"`
}

// TitleStyle is the label drawn on a node.
type TitleStyle struct {
	Text    string `json:"text"`
	Display bool   `json:"display"`
}

// EdgeStyle is the drawn state of one link.
type EdgeStyle struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Path    string  `json:"d"`
	Stroke  string  `json:"stroke"`
	Width   float64 `json:"strokeWidth"`
	Weight  float64 `json:"weight,omitempty"`
	Visible bool    `json:"visible"`
}

// Visibility answers the per-element questions of the selection state.
type Visibility interface {
	IsNodeVisible(n *models.Node) bool
	IsPathVisible(l graph.Link) bool
	Focused() *models.Node
}

// Colorer maps a cluster id to its color.
type Colorer interface {
	Color(cluster string) string
}

// Input is everything Reconcile reads.
type Input struct {
	Nodes     []*models.Node
	Links     []graph.Link
	View      Visibility
	Colors    Colorer
	Scales    scale.NodeScales
	Transform Transform
	Width     float64
	Height    float64
}

// Reconcile computes the frame for the current positions and selection
// state. It does not modify its input.
func Reconcile(in Input) *Frame {
	f := &Frame{
		Width:     in.Width,
		Height:    in.Height,
		Transform: in.Transform,
		Nodes:     make([]NodeStyle, 0, len(in.Nodes)),
		Edges:     make([]EdgeStyle, 0, len(in.Links)),
	}

	var focusedID string
	if n := in.View.Focused(); n != nil {
		focusedID = n.ID
		f.Focused = n.ID
	}

	for _, n := range in.Nodes {
		visible := in.View.IsNodeVisible(n)
		color := in.Colors.Color(n.Cluster)
		ns := NodeStyle{
			ID:      n.ID,
			Cluster: n.Cluster,
			X:       n.X,
			Y:       n.Y,
			Radius:  in.Scales.Radius(n.Size),
			Visible: visible,
			Focused: n.ID == focusedID,
			Title: TitleStyle{
				Text:    n.Text,
				Display: visible && in.Scales.TitleVisible(n.Size, in.Transform.Scale),
			},
		}
		switch {
		case !visible:
			ns.Fill, ns.Stroke, ns.Cursor = UnselectedColor, UnselectedColor, CursorDefault
		case ns.Focused:
			ns.Fill, ns.Stroke, ns.Cursor = color, Darker(color), CursorPointer
		default:
			ns.Fill, ns.Stroke, ns.Cursor = color, DefaultStroke, CursorPointer
		}
		if visible {
			f.Visible++
		}
		f.Nodes = append(f.Nodes, ns)
	}

	for _, l := range in.Links {
		visible := in.View.IsPathVisible(l)
		es := EdgeStyle{
			Source:  l.Source.ID,
			Target:  l.Target.ID,
			Path:    ArcPath(l.Source.X, l.Source.Y, l.Target.X, l.Target.Y),
			Stroke:  UnselectedColor,
			Width:   DefaultEdgeWidth,
			Weight:  l.Weight,
			Visible: visible,
		}
		if visible {
			es.Stroke = in.Colors.Color(l.Heavier().Cluster)
		}
		if focusedID != "" && l.Touches(focusedID) {
			es.Width = FocusedEdgeWidth
		}
		f.Edges = append(f.Edges, es)
	}

	return f
}

// Darker returns the color one d3 "darker" step down. Colors that are not
// hex strings are returned unchanged.
func Darker(hex string) string {
	c, err := colorful.Hex(normalizeHex(hex))
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	return colorful.Color{
		R: math.Floor(float64(r)*darkerFactor) / 255,
		G: math.Floor(float64(g)*darkerFactor) / 255,
		B: math.Floor(float64(b)*darkerFactor) / 255,
	}.Hex()
}

// normalizeHex expands #RGB to #RRGGBB.
func normalizeHex(hex string) string {
	if len(hex) == 4 && strings.HasPrefix(hex, "#") {
		return "#" + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2) + strings.Repeat(hex[3:4], 2)
	}
	return hex
}

// ArcPath is the SVG path of a clockwise circular arc from source to target
// whose radius is the chord length.
func ArcPath(sx, sy, tx, ty float64) string {
	dr := math.Hypot(tx-sx, ty-sy)
	var b strings.Builder
	b.WriteString("M")
	b.WriteString(num(sx))
	b.WriteString(",")
	b.WriteString(num(sy))
	b.WriteString("A")
	b.WriteString(num(dr))
	b.WriteString(",")
	b.WriteString(num(dr))
	b.WriteString(" 0 0,1 ")
	b.WriteString(num(tx))
	b.WriteString(",")
	b.WriteString(num(ty))
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
