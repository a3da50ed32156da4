package overlay

import (
	"math"

	"github.com/uyouii/percentile-chart/model"
)

// HitTest picks the control point nearest to the pointer at (px, py), if it lies within
// radius pixels of it.
func HitTest(points []model.ControlPoint, m Mapper, px, py, radius float64) model.HoverState {
	if len(points) == 0 || m.X == nil || m.Y == nil {
		return model.NoHover()
	}
	if radius <= 0 {
		radius = DefaultHitRadius
	}
	best := -1
	bestD := math.MaxFloat64
	for i, p := range points {
		x, y := m.Point(p.X, p.Y)
		d := math.Hypot(px-x, py-y)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	if best < 0 || bestD > radius {
		return model.NoHover()
	}
	return model.HoverAt(best)
}
