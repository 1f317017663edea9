package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSqrtScale(t *testing.T) {
	s := NewSqrt([2]float64{1, 100}, [2]float64{6, 40})

	assert.InDelta(t, 6, s.Scale(1), 1e-9)
	assert.InDelta(t, 40, s.Scale(100), 1e-9)
	// sqrt(25)=5 sits 4/9 of the way between sqrt(1) and sqrt(100)
	assert.InDelta(t, 6+34*4.0/9.0, s.Scale(25), 1e-9)
}

func TestLogScale(t *testing.T) {
	s := NewLog([2]float64{1, 100}, [2]float64{0, 1})

	assert.InDelta(t, 0, s.Scale(1), 1e-9)
	assert.InDelta(t, 1, s.Scale(100), 1e-9)
	assert.InDelta(t, 0.5, s.Scale(10), 1e-9)
}

func TestScalesClampOutput(t *testing.T) {
	s := NewSqrt([2]float64{1, 4}, [2]float64{0, 10})

	assert.Equal(t, 10.0, s.Scale(400))
	assert.Equal(t, 0.0, s.Scale(-3))
}

func TestDegenerateDomain(t *testing.T) {
	tests := []struct {
		name    string
		maxSize float64
	}{
		{"zero", 0},
		{"one", 1},
		{"negative", -5},
		{"nan", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := ForMaxSize(tt.maxSize)
			for _, size := range []float64{0, 1, 3, math.NaN()} {
				r := ns.Radius(size)
				f := ns.Title(size)
				assert.False(t, math.IsNaN(r) || math.IsInf(r, 0), "radius for %v", size)
				assert.False(t, math.IsNaN(f) || math.IsInf(f, 0), "title for %v", size)
				assert.Equal(t, RadiusRange[0], r)
				assert.Equal(t, TitleRange[0], f)
			}
		})
	}
}

func TestSizeZeroTreatedAsOne(t *testing.T) {
	ns := ForMaxSize(30)

	assert.Equal(t, ns.Radius(1), ns.Radius(0))
	assert.Equal(t, ns.Title(1), ns.Title(0))
	assert.InDelta(t, 40, ns.MaxRadius(), 1e-9)
}

func TestTitleVisible(t *testing.T) {
	ns := ForMaxSize(100)

	// factor(100) = 1
	assert.True(t, ns.TitleVisible(100, 1))
	assert.False(t, ns.TitleVisible(100, 0.8))
	// factor(1) = 0, only the zoom threshold can show it
	assert.False(t, ns.TitleVisible(1, 2.2))
	assert.True(t, ns.TitleVisible(1, 2.3))
}
