package cmd

import (
	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
)

// Terminal styles.
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Warn   = color.New(color.FgYellow)
	Bad    = color.New(color.FgRed)
)

// swatch draws a block in the given hex color. Unparseable colors fall back
// to plain text.
func swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "■"
	}
	r, g, b := c.RGB255()
	return color.RGB(int(r), int(g), int(b)).Sprint("■")
}

// label renders a padded key for key/value listings.
func label(key string) string {
	return Brand.Sprintf("%-12s", key)
}
