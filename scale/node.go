package scale

// Visual ranges used for nodes.
var (
	RadiusRange = [2]float64{6, 40}
	TitleRange  = [2]float64{0, 1}
)

// Title visibility thresholds: a label shows when its title factor times the
// zoom scale exceeds TitleFactorThreshold, or when the zoom alone exceeds
// TitleZoomThreshold.
const (
	TitleFactorThreshold = 0.8
	TitleZoomThreshold   = 2.2
)

// NodeScales bundles the radius and title scales built from a graph's largest
// node size.
type NodeScales struct {
	radius Sqrt
	title  Log
}

// ForMaxSize builds node scales for domain [1, maxSize]. maxSize below 1
// (including 0) is raised to 1.
func ForMaxSize(maxSize float64) NodeScales {
	if !(maxSize >= 1) {
		maxSize = 1
	}
	return NodeScales{
		radius: NewSqrt([2]float64{1, maxSize}, RadiusRange),
		title:  NewLog([2]float64{1, maxSize}, TitleRange),
	}
}

// Radius maps a node size to a circle radius. Sizes below 1 count as 1.
func (ns NodeScales) Radius(size float64) float64 {
	return ns.radius.Scale(atLeastOne(size))
}

// Title maps a node size to its label visibility factor.
func (ns NodeScales) Title(size float64) float64 {
	return ns.title.Scale(atLeastOne(size))
}

// TitleVisible reports whether a label of the given size shows at zoom.
func (ns NodeScales) TitleVisible(size, zoom float64) bool {
	return ns.Title(size)*zoom > TitleFactorThreshold || zoom > TitleZoomThreshold
}

// MaxRadius is the radius of the largest node.
func (ns NodeScales) MaxRadius() float64 {
	return ns.radius.Scale(ns.radius.Domain[1])
}

func atLeastOne(size float64) float64 {
	if !(size >= 1) {
		return 1
	}
	return size
}
