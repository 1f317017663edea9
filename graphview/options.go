package graphview

import (
	"github.com/TFMV/insights/config"
	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/models"
	"github.com/TFMV/insights/physics"
	"github.com/TFMV/insights/render"
	"github.com/TFMV/insights/tooltip"
	"go.uber.org/zap"
)

// Default viewport size.
const (
	DefaultWidth  = 1200
	DefaultHeight = 700
)

// Options configures a Graph. Zero fields select defaults.
type Options struct {
	Width  float64
	Height float64

	// CollisionAlpha damps the declutter pass, in [0, 1]. Nil keeps the
	// physics value; zero turns the push off.
	CollisionAlpha *float64
	ScaleExtent    [2]float64
	InitialScale   float64

	Accessors       models.Accessors
	TooltipTemplate string

	// Colors pins cluster colors; Palette replaces category20 for the rest.
	Colors  map[string]string
	Palette graph.Palette

	Direction graph.Direction

	// Physics overrides the simulation parameters. Width and Height always
	// follow the viewport.
	Physics *physics.Params

	Logger *zap.SugaredLogger
}

// DefaultOptions returns the options used when a field is left zero.
func DefaultOptions() Options {
	params := physics.DefaultParams()
	return Options{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		CollisionAlpha:  Float(params.CollisionAlpha),
		ScaleExtent:     render.DefaultScaleExtent,
		InitialScale:    1,
		Accessors:       models.DefaultAccessors(),
		TooltipTemplate: tooltip.DefaultTemplate,
		Direction:       graph.Both,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width == 0 {
		o.Width = def.Width
	}
	if o.Height == 0 {
		o.Height = def.Height
	}
	if o.ScaleExtent == [2]float64{} {
		o.ScaleExtent = def.ScaleExtent
	}
	if o.InitialScale == 0 {
		o.InitialScale = def.InitialScale
	}
	if o.TooltipTemplate == "" {
		o.TooltipTemplate = def.TooltipTemplate
	}
	return o
}

// params derives the simulation parameters.
func (o Options) params() physics.Params {
	p := physics.DefaultParams()
	if o.Physics != nil {
		p = *o.Physics
	}
	p.Width, p.Height = o.Width, o.Height
	if o.CollisionAlpha != nil {
		p.CollisionAlpha = *o.CollisionAlpha
	}
	return p
}

// Validate rejects out-of-range options.
func (o Options) Validate() error {
	if a := o.CollisionAlpha; a != nil && !(*a >= 0 && *a <= 1) {
		return errors.Wrapf(errors.ErrInvalidConfig, "collision alpha %v must be in [0, 1]", *a)
	}
	if !(o.InitialScale > 0) {
		return errors.Wrapf(errors.ErrInvalidConfig, "initial scale %v must be positive", o.InitialScale)
	}
	if err := o.params().Validate(); err != nil {
		return err
	}
	return nil
}

// OptionsFromConfig maps a loaded configuration onto graph options.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return DefaultOptions(), nil
	}
	dir, err := cfg.Direction()
	if err != nil {
		return Options{}, err
	}
	params := cfg.PhysicsParams()

	opts := Options{
		Width:          cfg.View.Width,
		Height:         cfg.View.Height,
		CollisionAlpha: Float(cfg.Collision.Alpha),
		ScaleExtent:    cfg.ScaleExtent(),
		InitialScale:   cfg.View.InitialScale,
		Accessors: models.Accessors{
			ID:      models.Field(cfg.Attrs.ID),
			Size:    models.Field(cfg.Attrs.Size),
			Cluster: models.Field(cfg.Attrs.Cluster),
			Text:    models.Field(cfg.Attrs.Text),
		},
		TooltipTemplate: cfg.Tooltip.Template,
		Colors:          cfg.Colors,
		Palette:         graph.Palette(cfg.Palette),
		Direction:       dir,
		Physics:         &params,
	}
	return opts, opts.withDefaults().Validate()
}

// Float returns a pointer to v for optional fields.
func Float(v float64) *float64 {
	return &v
}

// ResetOption tunes a Reset call.
type ResetOption func(*resetConfig)

type resetConfig struct {
	silent bool
}

// Silent suppresses the reset event.
func Silent() ResetOption {
	return func(c *resetConfig) {
		c.silent = true
	}
}
