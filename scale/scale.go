// Package scale maps raw node attributes onto visual ranges.
//
// Scales never produce NaN or Inf: a degenerate domain maps every input to the
// start of the range and outputs are clamped to the range.
package scale

import "math"

// Scale maps a domain value onto a range value.
type Scale interface {
	Scale(v float64) float64
}

// Sqrt is a square-root scale. Area, not radius, grows linearly with input.
type Sqrt struct {
	Domain [2]float64
	Range  [2]float64
}

// NewSqrt creates a square-root scale.
func NewSqrt(domain, rng [2]float64) Sqrt {
	return Sqrt{Domain: domain, Range: rng}
}

// Scale returns the range value for v.
func (s Sqrt) Scale(v float64) float64 {
	return interpolate(s.Range, normalize(sqrt(s.Domain[0]), sqrt(s.Domain[1]), sqrt(v)))
}

// Log is a natural-logarithm scale. Domain values must be positive; anything
// below the smallest positive float is raised to it.
type Log struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLog creates a logarithmic scale.
func NewLog(domain, rng [2]float64) Log {
	return Log{Domain: domain, Range: rng}
}

// Scale returns the range value for v.
func (s Log) Scale(v float64) float64 {
	return interpolate(s.Range, normalize(logPositive(s.Domain[0]), logPositive(s.Domain[1]), logPositive(v)))
}

func normalize(d0, d1, v float64) float64 {
	span := d1 - d0
	if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return 0
	}
	t := (v - d0) / span
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

func interpolate(rng [2]float64, t float64) float64 {
	return rng[0] + t*(rng[1]-rng[0])
}

func sqrt(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return math.Sqrt(v)
}

func logPositive(v float64) float64 {
	if v < math.SmallestNonzeroFloat64 || math.IsNaN(v) {
		v = math.SmallestNonzeroFloat64
	}
	return math.Log(v)
}
