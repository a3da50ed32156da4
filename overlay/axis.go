package overlay

// Axis maps a domain value to a pixel position. Min and Max are the domain bounds of the axis.
type Axis interface {
	Pixel(v float64) float64
	Min() float64
	Max() float64
}

// Mapper is the coordinate mapping supplied by the host surface.
type Mapper struct {
	X Axis
	Y Axis
}

func (m Mapper) Point(x, y float64) (float64, float64) {
	return m.X.Pixel(x), m.Y.Pixel(y)
}

// LinearAxis maps [DomainMin, DomainMax] linearly onto [PixelMin, PixelMax]. PixelMin may be
// larger than PixelMax, as for a y axis growing downwards.
type LinearAxis struct {
	DomainMin float64
	DomainMax float64
	PixelMin  float64
	PixelMax  float64
}

func (a LinearAxis) Pixel(v float64) float64 {
	span := a.DomainMax - a.DomainMin
	if span == 0 {
		return a.PixelMin
	}
	return a.PixelMin + (v-a.DomainMin)/span*(a.PixelMax-a.PixelMin)
}

func (a LinearAxis) Min() float64 { return a.DomainMin }

func (a LinearAxis) Max() float64 { return a.DomainMax }

// AxisFunc adapts a host transform function to Axis.
type AxisFunc struct {
	Transform func(float64) float64
	Lo, Hi    float64
}

func (a AxisFunc) Pixel(v float64) float64 { return a.Transform(v) }

func (a AxisFunc) Min() float64 { return a.Lo }

func (a AxisFunc) Max() float64 { return a.Hi }
