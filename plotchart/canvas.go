package plotchart

import (
	"image/color"
	"math"

	"github.com/uyouii/percentile-chart/model"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type canvasState struct {
	stroke color.Color
	fill   color.Color
	width  vg.Length
	dash   []vg.Length
}

// canvasSurface adapts a gonum draw.Canvas to surface.Surface. vg.Canvas has a single
// colour, so stroke and fill colours are kept here and applied when painting.
type canvasSurface struct {
	c     draw.Canvas
	label draw.TextStyle
	path  vg.Path
	state canvasState
	stack []canvasState
}

func newCanvasSurface(c draw.Canvas, label draw.TextStyle) *canvasSurface {
	return &canvasSurface{
		c:     c,
		label: label,
		state: canvasState{stroke: color.Black, fill: color.Black, width: vg.Points(1)},
	}
}

func pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(y)}
}

func (s *canvasSurface) Save() {
	s.c.Push()
	s.stack = append(s.stack, s.state)
}

func (s *canvasSurface) Restore() {
	s.c.Pop()
	if len(s.stack) > 0 {
		s.state = s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
	}
}

func (s *canvasSurface) BeginPath() {
	s.path = nil
}

func (s *canvasSurface) MoveTo(x, y float64) {
	s.path.Move(pt(x, y))
}

func (s *canvasSurface) LineTo(x, y float64) {
	s.path.Line(pt(x, y))
}

func (s *canvasSurface) Arc(x, y, radius float64) {
	s.path.Move(pt(x+radius, y))
	s.path.Arc(pt(x, y), vg.Length(radius), 0, 2*math.Pi)
	s.path.Close()
}

func (s *canvasSurface) ClosePath() {
	s.path.Close()
}

func (s *canvasSurface) SetStrokeStyle(c color.Color, width float64, dash []float64) {
	s.state.stroke = c
	s.state.width = vg.Length(width)
	s.state.dash = nil
	for _, d := range dash {
		s.state.dash = append(s.state.dash, vg.Length(d))
	}
}

func (s *canvasSurface) SetFillStyle(c color.Color) {
	s.state.fill = c
}

func (s *canvasSurface) Stroke() {
	s.c.SetColor(s.state.stroke)
	s.c.SetLineWidth(s.state.width)
	s.c.SetLineDash(s.state.dash, 0)
	s.c.Stroke(s.path)
}

func (s *canvasSurface) Fill() {
	s.c.SetColor(s.state.fill)
	s.c.Fill(s.path)
}

func (s *canvasSurface) FillText(text string, x, y, size float64, align model.Align) {
	sty := s.label
	sty.Color = s.state.fill
	sty.Font.Size = vg.Length(size)
	sty.YAlign = draw.YBottom
	switch align {
	case model.AlignRight:
		sty.XAlign = draw.XRight
	case model.AlignCenter:
		sty.XAlign = draw.XCenter
	default:
		sty.XAlign = draw.XLeft
	}
	s.c.FillText(sty, pt(x, y), text)
}
