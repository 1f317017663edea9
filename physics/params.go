package physics

import (
	"github.com/TFMV/insights/errors"
)

// Params tunes the simulation. Zero values are not defaults; start from
// DefaultParams.
type Params struct {
	Width  float64
	Height float64

	LinkDistance float64
	LinkStrength float64
	Gravity      float64
	Charge       float64
	Friction     float64

	InitialAlpha float64
	// Cooling multiplies alpha every tick and must be in (0, 1)
	Cooling float64
	// CollideAt is the alpha below which the collision pass runs
	CollideAt float64
	// SettleAt is the alpha below which the layout settles immediately
	SettleAt float64

	// CollisionAlpha damps each collision push so overlaps resolve softly
	CollisionAlpha  float64
	CollisionMargin float64

	Seed int64
}

// DefaultParams returns the tuned defaults for a 1200x700 viewport.
func DefaultParams() Params {
	return Params{
		Width:           1200,
		Height:          700,
		LinkDistance:    60,
		LinkStrength:    1,
		Gravity:         0.2,
		Charge:          -240,
		Friction:        0.9,
		InitialAlpha:    0.1,
		Cooling:         0.99,
		CollideAt:       0.07,
		SettleAt:        0.05,
		CollisionAlpha:  0.5,
		CollisionMargin: 16,
		Seed:            1,
	}
}

// Validate rejects parameters that would stall or explode the layout.
func (p Params) Validate() error {
	switch {
	case !(p.Width > 0) || !(p.Height > 0):
		return errors.Wrapf(errors.ErrInvalidConfig, "viewport %vx%v must be positive", p.Width, p.Height)
	case !(p.Cooling > 0 && p.Cooling < 1):
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "cooling %v out of range", p.Cooling),
			"cooling must be strictly between 0 and 1 so alpha reaches zero")
	case !(p.InitialAlpha > 0):
		return errors.Wrapf(errors.ErrInvalidConfig, "initial alpha %v must be positive", p.InitialAlpha)
	case !(p.SettleAt > 0) || !(p.CollideAt >= p.SettleAt):
		return errors.Wrapf(errors.ErrInvalidConfig,
			"thresholds collide=%v settle=%v: need collide >= settle > 0", p.CollideAt, p.SettleAt)
	case !(p.CollisionAlpha >= 0 && p.CollisionAlpha <= 1):
		return errors.Wrapf(errors.ErrInvalidConfig, "collision alpha %v must be in [0, 1]", p.CollisionAlpha)
	case !(p.Friction >= 0 && p.Friction <= 1):
		return errors.Wrapf(errors.ErrInvalidConfig, "friction %v must be in [0, 1]", p.Friction)
	case p.CollisionMargin < 0 || p.LinkDistance < 0:
		return errors.Wrapf(errors.ErrInvalidConfig, "margin %v and link distance %v must not be negative",
			p.CollisionMargin, p.LinkDistance)
	}
	return nil
}
