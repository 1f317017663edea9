// Package tooltip renders the hover popup of a graph from a mustache
// template. It only produces content and placement; drawing it is up to the
// host.
package tooltip

import (
	"github.com/TFMV/insights/errors"
	"github.com/cbroglie/mustache"
)

// DefaultTemplate shows the node text and size.
const DefaultTemplate = "<div>word: {{ text }}</div> <div>count: {{ size }}</div>"

// PointerGap is the distance between the pointer and the popup corner.
const PointerGap = 10

// Offset is the top-left corner of the popup in surface coordinates.
type Offset struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Near returns the offset for a pointer at (x, y).
func Near(x, y float64) *Offset {
	return &Offset{Left: x + PointerGap, Top: y + PointerGap}
}

// Tooltip keeps the last rendered content, offset and visibility.
type Tooltip struct {
	source  string
	tmpl    *mustache.Template
	offset  *Offset
	data    map[string]any
	content string
	visible bool
}

// New parses template. An empty template selects DefaultTemplate.
func New(template string) (*Tooltip, error) {
	if template == "" {
		template = DefaultTemplate
	}
	tmpl, err := mustache.ParseString(template)
	if err != nil {
		return nil, errors.WithDetailf(
			errors.Wrap(errors.ErrInvalidTemplate, err.Error()),
			"template: %s", template)
	}
	return &Tooltip{source: template, tmpl: tmpl}, nil
}

// Show renders data at offset and makes the popup visible. A nil offset or
// nil data reuses the previous value; rendering without any offset fails.
func (t *Tooltip) Show(offset *Offset, data map[string]any) error {
	if offset != nil {
		o := *offset
		t.offset = &o
	}
	if data != nil {
		t.data = data
	}
	if t.offset == nil {
		return errors.ErrMissingOffset
	}

	content, err := t.tmpl.Render(t.data)
	if err != nil {
		return errors.Wrap(err, "render tooltip")
	}
	t.content = content
	t.visible = true
	return nil
}

// Hide hides the popup. Content and offset are kept.
func (t *Tooltip) Hide() {
	t.visible = false
}

// Visible reports whether the popup is shown.
func (t *Tooltip) Visible() bool {
	return t.visible
}

// Content returns the last rendered HTML.
func (t *Tooltip) Content() string {
	return t.content
}

// Offset returns the current placement, if any.
func (t *Tooltip) Offset() (Offset, bool) {
	if t.offset == nil {
		return Offset{}, false
	}
	return *t.offset, true
}

// Data returns the record last rendered.
func (t *Tooltip) Data() map[string]any {
	return t.data
}

// Template returns the template source.
func (t *Tooltip) Template() string {
	return t.source
}
