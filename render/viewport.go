package render

import (
	"math"
	"time"

	"github.com/TFMV/insights/errors"
)

// Viewport defaults.
const (
	ZoomStep           = 1.2
	TransitionDuration = 750 * time.Millisecond
)

// DefaultScaleExtent bounds the zoom scale.
var DefaultScaleExtent = [2]float64{0.2, 2.3}

// Transform maps scene coordinates to surface coordinates:
// surface = scene*Scale + (X, Y).
type Transform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// Identity is the untransformed scene.
var Identity = Transform{Scale: 1}

// Apply maps a scene point to the surface.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.X, y*t.Scale + t.Y
}

// Invert maps a surface point back into the scene.
func (t Transform) Invert(x, y float64) (float64, float64) {
	return (x - t.X) / t.Scale, (y - t.Y) / t.Scale
}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	return "translate(" + num(t.X) + "," + num(t.Y) + ") scale(" + num(t.Scale) + ")"
}

// Transition animates between two transforms.
type Transition struct {
	From     Transform
	To       Transform
	Duration time.Duration
}

// At returns the transform after elapsed, eased with cubic in-out.
func (tr Transition) At(elapsed time.Duration) Transform {
	if tr.Duration <= 0 || elapsed >= tr.Duration {
		return tr.To
	}
	if elapsed <= 0 {
		return tr.From
	}
	t := easeCubicInOut(float64(elapsed) / float64(tr.Duration))
	return Transform{
		X:     tr.From.X + (tr.To.X-tr.From.X)*t,
		Y:     tr.From.Y + (tr.To.Y-tr.From.Y)*t,
		Scale: tr.From.Scale + (tr.To.Scale-tr.From.Scale)*t,
	}
}

// Done reports whether the transition has finished at elapsed.
func (tr Transition) Done(elapsed time.Duration) bool {
	return elapsed >= tr.Duration
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// Viewport is the pan and zoom state of a surface.
type Viewport struct {
	width, height float64
	extent        [2]float64
	transform     Transform
}

// NewViewport creates a viewport of the given size. The initial scale is
// clamped to extent.
func NewViewport(width, height float64, extent [2]float64, initialScale float64) (*Viewport, error) {
	if !(width > 0) || !(height > 0) {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "viewport %vx%v must be positive", width, height)
	}
	if !(extent[0] > 0) || !(extent[1] >= extent[0]) {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "scale extent %v", extent),
			"scale extent must be [min, max] with 0 < min <= max")
	}
	if initialScale == 0 || math.IsNaN(initialScale) {
		initialScale = 1
	}
	v := &Viewport{width: width, height: height, extent: extent}
	v.transform = Transform{Scale: v.clamp(initialScale)}
	return v, nil
}

// Size returns the viewport dimensions.
func (v *Viewport) Size() (float64, float64) {
	return v.width, v.height
}

// Extent returns the zoom bounds.
func (v *Viewport) Extent() [2]float64 {
	return v.extent
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform {
	return v.transform
}

// Scale returns the current zoom scale.
func (v *Viewport) Scale() float64 {
	return v.transform.Scale
}

// Zoom sets the scale, keeping the scene point under the viewport center
// fixed.
func (v *Viewport) Zoom(scale float64) Transition {
	from := v.transform
	k := v.clamp(scale)
	cx, cy := from.Invert(v.width/2, v.height/2)
	v.transform = Transform{
		X:     v.width/2 - cx*k,
		Y:     v.height/2 - cy*k,
		Scale: k,
	}
	return Transition{From: from, To: v.transform, Duration: TransitionDuration}
}

// ZoomIn multiplies the scale by ZoomStep.
func (v *Viewport) ZoomIn() Transition {
	return v.Zoom(v.transform.Scale * ZoomStep)
}

// ZoomOut divides the scale by ZoomStep.
func (v *Viewport) ZoomOut() Transition {
	return v.Zoom(v.transform.Scale / ZoomStep)
}

// CenterOn translates the scene so (x, y) lands on the viewport center at
// the current scale.
func (v *Viewport) CenterOn(x, y float64) Transition {
	from := v.transform
	k := from.Scale
	v.transform = Transform{
		X:     v.width/2 - x*k,
		Y:     v.height/2 - y*k,
		Scale: k,
	}
	return Transition{From: from, To: v.transform, Duration: TransitionDuration}
}

func (v *Viewport) clamp(scale float64) float64 {
	if math.IsNaN(scale) {
		return v.transform.Scale
	}
	return math.Min(math.Max(scale, v.extent[0]), v.extent[1])
}
