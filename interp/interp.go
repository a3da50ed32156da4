package interp

import (
	"fmt"
	"sort"

	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/utils"
)

func Validate(points []model.ControlPoint) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: empty sequence", common.ErrorInvalidControlPoints)
	}
	for i, p := range points {
		if !utils.IsFinite(p.X) || !utils.IsFinite(p.Y) {
			return fmt.Errorf("%w: point %d (%v, %v) is not finite",
				common.ErrorInvalidControlPoints, i, p.X, p.Y)
		}
		if i > 0 && p.X <= points[i-1].X {
			return fmt.Errorf("%w: x must be strictly ascending, point %d x=%v after x=%v",
				common.ErrorInvalidControlPoints, i, p.X, points[i-1].X)
		}
	}
	return nil
}

// Interpolate returns the piecewise linear value of points at x, clamped to the first and
// last y outside the covered range.
func Interpolate(points []model.ControlPoint, x float64) (float64, error) {
	if err := Validate(points); err != nil {
		return 0, err
	}
	return lookup(points, x), nil
}

// lookup expects validated points.
func lookup(points []model.ControlPoint, x float64) float64 {
	// index of the first point with X > x
	right := sort.Search(len(points), func(i int) bool {
		return points[i].X > x
	})

	left := right - 1
	if left < 0 {
		left = 0
	}
	if right >= len(points) {
		right = len(points) - 1
	}

	lower, upper := points[left], points[right]
	if left == right || lower.X == x {
		return lower.Y
	}

	ratio := (x - lower.X) / (upper.X - lower.X)
	return lower.Y + ratio*(upper.Y-lower.Y)
}

// Interpolator is a validated control point sequence, cheap to query once built.
type Interpolator struct {
	points []model.ControlPoint
}

func New(points []model.ControlPoint) (*Interpolator, error) {
	if err := Validate(points); err != nil {
		return nil, err
	}
	owned := make([]model.ControlPoint, len(points))
	copy(owned, points)
	return &Interpolator{points: owned}, nil
}

func (in *Interpolator) Value(x float64) float64 {
	return lookup(in.points, x)
}

func (in *Interpolator) Points() []model.ControlPoint {
	res := make([]model.ControlPoint, len(in.points))
	copy(res, in.points)
	return res
}

func (in *Interpolator) Len() int {
	return len(in.points)
}

func (in *Interpolator) Point(i int) model.ControlPoint {
	return in.points[i]
}

// Bounds returns the x and y extent of the control points.
func (in *Interpolator) Bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = in.points[0].X, in.points[len(in.points)-1].X
	minY, maxY = in.points[0].Y, in.points[0].Y
	for _, p := range in.points[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}
