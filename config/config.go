// Package config loads engine settings from TOML or YAML files and
// INSIGHTS_* environment variables.
package config

import (
	"strings"

	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/physics"
	"github.com/TFMV/insights/render"
	"github.com/TFMV/insights/tooltip"
)

// Config is the full settings tree.
type Config struct {
	View      ViewConfig        `mapstructure:"view" toml:"view"`
	Collision CollisionConfig   `mapstructure:"collision" toml:"collision"`
	Physics   PhysicsConfig     `mapstructure:"physics" toml:"physics"`
	Tooltip   TooltipConfig     `mapstructure:"tooltip" toml:"tooltip"`
	Attrs     AttrsConfig       `mapstructure:"attrs" toml:"attrs"`
	Log       LogConfig         `mapstructure:"log" toml:"log"`
	Palette   []string          `mapstructure:"palette" toml:"palette,omitempty"`
	Colors    map[string]string `mapstructure:"colors" toml:"colors,omitempty"`
}

// ViewConfig sizes the viewport and picks the adjacency direction.
type ViewConfig struct {
	Width        float64   `mapstructure:"width" toml:"width"`
	Height       float64   `mapstructure:"height" toml:"height"`
	InitialScale float64   `mapstructure:"initial_scale" toml:"initial_scale"`
	ScaleExtent  []float64 `mapstructure:"scale_extent" toml:"scale_extent"`
	Direction    string    `mapstructure:"direction" toml:"direction"` // "both", "incoming", "outgoing"
}

// CollisionConfig tunes the declutter pass.
type CollisionConfig struct {
	Alpha  float64 `mapstructure:"alpha" toml:"alpha"`
	Margin float64 `mapstructure:"margin" toml:"margin"`
}

// PhysicsConfig tunes the force simulation.
type PhysicsConfig struct {
	LinkDistance float64 `mapstructure:"link_distance" toml:"link_distance"`
	LinkStrength float64 `mapstructure:"link_strength" toml:"link_strength"`
	Gravity      float64 `mapstructure:"gravity" toml:"gravity"`
	Charge       float64 `mapstructure:"charge" toml:"charge"`
	Friction     float64 `mapstructure:"friction" toml:"friction"`
	InitialAlpha float64 `mapstructure:"initial_alpha" toml:"initial_alpha"`
	Cooling      float64 `mapstructure:"cooling" toml:"cooling"`
	CollideAt    float64 `mapstructure:"collide_at" toml:"collide_at"`
	SettleAt     float64 `mapstructure:"settle_at" toml:"settle_at"`
	Seed         int64   `mapstructure:"seed" toml:"seed"`
}

// TooltipConfig holds the tooltip template.
type TooltipConfig struct {
	Template string `mapstructure:"template" toml:"template"`
}

// AttrsConfig names the record fields read for each node attribute.
type AttrsConfig struct {
	ID      string `mapstructure:"id" toml:"id"`
	Size    string `mapstructure:"size" toml:"size"`
	Cluster string `mapstructure:"cluster" toml:"cluster"`
	Text    string `mapstructure:"text" toml:"text"`
}

// LogConfig controls logger setup.
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Level string `mapstructure:"level" toml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	p := physics.DefaultParams()
	extent := render.DefaultScaleExtent
	return &Config{
		View: ViewConfig{
			Width:        p.Width,
			Height:       p.Height,
			InitialScale: 1,
			ScaleExtent:  []float64{extent[0], extent[1]},
			Direction:    graph.Both.String(),
		},
		Collision: CollisionConfig{
			Alpha:  p.CollisionAlpha,
			Margin: p.CollisionMargin,
		},
		Physics: PhysicsConfig{
			LinkDistance: p.LinkDistance,
			LinkStrength: p.LinkStrength,
			Gravity:      p.Gravity,
			Charge:       p.Charge,
			Friction:     p.Friction,
			InitialAlpha: p.InitialAlpha,
			Cooling:      p.Cooling,
			CollideAt:    p.CollideAt,
			SettleAt:     p.SettleAt,
			Seed:         p.Seed,
		},
		Tooltip: TooltipConfig{Template: tooltip.DefaultTemplate},
		Attrs:   AttrsConfig{ID: "id", Size: "size", Cluster: "cluster", Text: "text"},
		Log:     LogConfig{Level: "info"},
	}
}

// PhysicsParams assembles simulation parameters from the view, collision and
// physics sections.
func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		Width:           c.View.Width,
		Height:          c.View.Height,
		LinkDistance:    c.Physics.LinkDistance,
		LinkStrength:    c.Physics.LinkStrength,
		Gravity:         c.Physics.Gravity,
		Charge:          c.Physics.Charge,
		Friction:        c.Physics.Friction,
		InitialAlpha:    c.Physics.InitialAlpha,
		Cooling:         c.Physics.Cooling,
		CollideAt:       c.Physics.CollideAt,
		SettleAt:        c.Physics.SettleAt,
		CollisionAlpha:  c.Collision.Alpha,
		CollisionMargin: c.Collision.Margin,
		Seed:            c.Physics.Seed,
	}
}

// ScaleExtent returns the zoom bounds as an array.
func (c *Config) ScaleExtent() [2]float64 {
	var extent [2]float64
	copy(extent[:], c.View.ScaleExtent)
	return extent
}

// Direction parses the view direction.
func (c *Config) Direction() (graph.Direction, error) {
	dir, ok := graph.ParseDirection(strings.ToLower(c.View.Direction))
	if !ok {
		return graph.Both, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "view.direction %q", c.View.Direction),
			"use both, incoming or outgoing")
	}
	return dir, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks every section.
func (c *Config) Validate() error {
	if len(c.View.ScaleExtent) != 2 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "view.scale_extent has %d values", len(c.View.ScaleExtent)),
			"scale_extent is [min, max]")
	}
	if _, err := render.NewViewport(c.View.Width, c.View.Height, c.ScaleExtent(), c.View.InitialScale); err != nil {
		return errors.Wrap(err, "view")
	}
	if _, err := c.Direction(); err != nil {
		return err
	}
	if err := c.PhysicsParams().Validate(); err != nil {
		return errors.Wrap(err, "physics")
	}
	if _, err := tooltip.New(c.Tooltip.Template); err != nil {
		return errors.Wrap(err, "tooltip")
	}
	for name, field := range map[string]string{
		"id":      c.Attrs.ID,
		"size":    c.Attrs.Size,
		"cluster": c.Attrs.Cluster,
		"text":    c.Attrs.Text,
	} {
		if strings.TrimSpace(field) == "" {
			return errors.Wrapf(errors.ErrInvalidConfig, "attrs.%s is empty", name)
		}
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "log.level %q", c.Log.Level),
			"use debug, info, warn or error")
	}
	return nil
}
