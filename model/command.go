package model

import "image/color"

// Pixel is a position in the host surface's coordinate space.
type Pixel struct {
	X float64
	Y float64
}

// Layer orders commands back to front.
type Layer int

const (
	LayerBaseCurve Layer = iota + 1
	LayerPercentileGuide
	LayerPercentileLabel
	LayerHoverGuide
	LayerPointMarkers
	LayerPercentileMarker
	LayerTooltip
)

var layerNames = map[Layer]string{
	LayerBaseCurve:        "base-curve",
	LayerPercentileGuide:  "percentile-guide",
	LayerPercentileLabel:  "percentile-label",
	LayerHoverGuide:       "hover-guide",
	LayerPointMarkers:     "point-markers",
	LayerPercentileMarker: "percentile-marker",
	LayerTooltip:          "tooltip",
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return "unknown"
}

type Kind int

const (
	KindPolyline Kind = iota + 1
	KindLine
	KindCircle
	KindRect
	KindText
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Paint describes a stroke or a fill. A fully transparent colour or, for strokes, a zero
// width means nothing is painted.
type Paint struct {
	Color color.NRGBA
	Width float64
	Dash  []float64
}

func (p Paint) IsStroke() bool {
	return p.Color.A != 0 && p.Width > 0
}

func (p Paint) IsFill() bool {
	return p.Color.A != 0
}

// Command is one entry of a display list.
//
// Points holds the polyline vertices, the two line ends, the circle centre or text anchor, or
// the rect min and max corners depending on Kind. Index is the control point a command belongs
// to, -1 when none.
type Command struct {
	Layer    Layer
	Kind     Kind
	Points   []Pixel
	Radius   float64
	Text     string
	FontSize float64
	Align    Align
	Stroke   Paint
	Fill     Paint
	Index    int
}

func (c Command) Anchor() Pixel {
	if len(c.Points) == 0 {
		return Pixel{}
	}
	return c.Points[0]
}

// FilterLayer returns the commands of cmds belonging to layer, in order.
func FilterLayer(cmds []Command, layer Layer) []Command {
	res := []Command{}
	for _, cmd := range cmds {
		if cmd.Layer == layer {
			res = append(res, cmd)
		}
	}
	return res
}
