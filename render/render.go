// Package render turns the layout and selection state into declarative
// frames, tracks pan and zoom, and encodes frames as SVG, JSON or DOT.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/TFMV/insights/errors"
	svg "github.com/ajstarks/svgo"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format     string  // Output format (svg, json, dot)
	Background string  // Background color
	FontSize   float64 // Font size for titles
	ShowHidden bool    // Keep hidden nodes and edges in DOT output
	Timestamp  bool    // Stamp the output with the render time
	Indent     bool    // Pretty-print JSON
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render encodes a frame using the provided options
	Render(frame *Frame, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// Description returns a description of the renderer
	Description() string
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:     format,
		Background: "#ffffff",
		FontSize:   10,
		Indent:     true,
	}
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{"svg", "json", "dot"}
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrInvalidConfig, "unsupported output format: %s", format),
			"supported formats: %s", strings.Join(Formats(), ", "))
	}
}

// Encode renders frame with the renderer registered for options.Format.
func Encode(frame *Frame, options *OutputOptions) ([]byte, error) {
	if frame == nil {
		return nil, errors.Wrap(errors.ErrNotComputed, "no frame to encode")
	}
	if options == nil {
		options = NewDefaultOptions("svg")
	}
	renderer, err := GetRenderer(options.Format)
	if err != nil {
		return nil, err
	}
	return renderer.Render(frame, options)
}

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// Description returns a description of the renderer
func (r *SVGRenderer) Description() string {
	return "Renders frames as Scalable Vector Graphics (SVG), one circle per node and one arc per link"
}

// Render creates an SVG document of the frame. Hidden elements are kept with
// transparent styles so element counts match the input.
func (r *SVGRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer
	canvas := svg.New(&buf)

	width, height := int(math.Round(frame.Width)), int(math.Round(frame.Height))
	canvas.Start(width, height, `class="insights-graph"`, `pointer-events="all"`)
	canvas.Rect(0, 0, width, height, "fill:"+options.Background)

	canvas.Gtransform(frame.Transform.String())

	canvas.Group(`class="links"`)
	for _, e := range frame.Edges {
		canvas.Path(e.Path, fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", e.Stroke, num(e.Width)),
			fmt.Sprintf(`data-source="%s" data-target="%s"`, attr(e.Source), attr(e.Target)))
	}
	canvas.Gend()

	for _, n := range frame.Nodes {
		canvas.Group(`class="node"`,
			fmt.Sprintf(`data-id="%s"`, attr(n.ID)),
			fmt.Sprintf(`transform="translate(%s,%s)"`, num(n.X), num(n.Y)))
		canvas.Circle(0, 0, int(math.Round(n.Radius)),
			fmt.Sprintf("fill:%s;stroke:%s;cursor:%s", n.Fill, n.Stroke, n.Cursor))

		display := "none"
		if n.Title.Display {
			display = "inline"
		}
		canvas.Text(0, 0, n.Title.Text,
			fmt.Sprintf("display:%s;font-size:%spx", display, num(options.FontSize)),
			`text-anchor="middle"`, `dy=".35em"`)
		canvas.Gend()
	}

	canvas.Gend()

	if options.Timestamp {
		canvas.Text(5, height-5, time.Now().Format("2006-01-02 15:04:05"), "font-size:8px;fill:#808080")
	}

	canvas.End()
	return buf.Bytes(), nil
}

// JSONRenderer outputs JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// Description returns a description of the renderer
func (r *JSONRenderer) Description() string {
	return "Renders the frame as JSON for machine consumption or custom drawing layers"
}

// Render creates a JSON representation of the frame
func (r *JSONRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	type jsonFrame struct {
		*Frame
		Metadata map[string]any `json:"metadata"`
	}

	out := jsonFrame{
		Frame: frame,
		Metadata: map[string]any{
			"nodeCount":  len(frame.Nodes),
			"edgeCount":  len(frame.Edges),
			"background": options.Background,
		},
	}
	if options.Timestamp {
		out.Metadata["timestamp"] = time.Now().Format(time.RFC3339)
	}

	if options.Indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

// DOTRenderer outputs Graphviz DOT format
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// Description returns a description of the renderer
func (r *DOTRenderer) Description() string {
	return "Renders the frame in Graphviz DOT format with pinned positions for neato -n"
}

// Render creates a DOT representation of the frame. Links are undirected
// when drawn, so the output is a plain graph.
func (r *DOTRenderer) Render(frame *Frame, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("graph G {\n")
	buf.WriteString(fmt.Sprintf("  graph [bgcolor=\"%s\", size=\"%s,%s\"];\n",
		options.Background, num(frame.Width/72.0), num(frame.Height/72.0)))
	buf.WriteString(fmt.Sprintf("  node [shape=circle, style=filled, fontname=\"Arial\", fontsize=%s];\n",
		num(options.FontSize)))

	for _, n := range frame.Nodes {
		if !n.Visible && !options.ShowHidden {
			continue
		}
		label := n.Title.Text
		if label == "" {
			label = n.ID
		}
		// DOT's y axis points up
		buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"%s\", color=\"%s\", width=%s, pos=\"%s,%s!\"];\n",
			dotEscape(n.ID), dotEscape(label), dotColor(n.Fill), dotColor(n.Stroke),
			num(n.Radius*2/72.0), num(n.X), num(frame.Height-n.Y)))
	}

	for _, e := range frame.Edges {
		if !e.Visible && !options.ShowHidden {
			continue
		}
		buf.WriteString(fmt.Sprintf("  \"%s\" -- \"%s\" [color=\"%s\", penwidth=%s];\n",
			dotEscape(e.Source), dotEscape(e.Target), dotColor(e.Stroke), num(e.Width)))
	}

	buf.WriteString("}\n")

	return buf.Bytes(), nil
}

// dotColor maps CSS keywords DOT does not know.
func dotColor(c string) string {
	switch strings.ToUpper(c) {
	case "TRANSPARENT":
		return "transparent"
	case "#FFF":
		return "#FFFFFF"
	}
	return c
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// attr escapes a value for use inside a double-quoted XML attribute.
func attr(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}
