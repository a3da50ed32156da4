package gochart

import (
	"image/color"
	"math"

	"github.com/uyouii/percentile-chart/model"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// go-chart's vector renderer cannot close a full-turn arc, circles are drawn as polygons
const circleSegments = 24

type pathOp struct {
	close bool
	move  bool
	x, y  int
}

type rendererState struct {
	stroke drawing.Color
	fill   drawing.Color
	width  float64
	dash   []float64
}

// rendererSurface adapts a go-chart Renderer to surface.Surface. go-chart renderers drop
// the path after Stroke or Fill, so the path is buffered and replayed for each paint.
type rendererSurface struct {
	r        chart.Renderer
	defaults chart.Style
	path     []pathOp
	state    rendererState
	stack    []rendererState
}

func newRendererSurface(r chart.Renderer, defaults chart.Style) *rendererSurface {
	return &rendererSurface{
		r:        r,
		defaults: defaults,
		state:    rendererState{stroke: drawing.Color{A: 255}, fill: drawing.Color{A: 255}, width: 1},
	}
}

func toDrawing(c color.Color) drawing.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

func round(v float64) int {
	return int(math.Round(v))
}

func (s *rendererSurface) Save() {
	s.stack = append(s.stack, s.state)
}

func (s *rendererSurface) Restore() {
	if len(s.stack) > 0 {
		s.state = s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.r.ResetStyle()
}

func (s *rendererSurface) BeginPath() {
	s.path = s.path[:0]
}

func (s *rendererSurface) MoveTo(x, y float64) {
	s.path = append(s.path, pathOp{move: true, x: round(x), y: round(y)})
}

func (s *rendererSurface) LineTo(x, y float64) {
	s.path = append(s.path, pathOp{x: round(x), y: round(y)})
}

func (s *rendererSurface) Arc(x, y, radius float64) {
	for i := 0; i <= circleSegments; i++ {
		angle := 2 * math.Pi * float64(i) / circleSegments
		px, py := x+radius*math.Cos(angle), y+radius*math.Sin(angle)
		if i == 0 {
			s.MoveTo(px, py)
			continue
		}
		s.LineTo(px, py)
	}
	s.ClosePath()
}

func (s *rendererSurface) ClosePath() {
	s.path = append(s.path, pathOp{close: true})
}

func (s *rendererSurface) SetStrokeStyle(c color.Color, width float64, dash []float64) {
	s.state.stroke = toDrawing(c)
	s.state.width = width
	s.state.dash = dash
}

func (s *rendererSurface) SetFillStyle(c color.Color) {
	s.state.fill = toDrawing(c)
}

func (s *rendererSurface) tracePath() {
	for _, op := range s.path {
		switch {
		case op.close:
			s.r.Close()
		case op.move:
			s.r.MoveTo(op.x, op.y)
		default:
			s.r.LineTo(op.x, op.y)
		}
	}
}

func (s *rendererSurface) Stroke() {
	if len(s.path) == 0 {
		return
	}
	s.r.SetStrokeColor(s.state.stroke)
	s.r.SetStrokeWidth(s.state.width)
	s.r.SetStrokeDashArray(s.state.dash)
	s.tracePath()
	s.r.Stroke()
}

func (s *rendererSurface) Fill() {
	if len(s.path) == 0 {
		return
	}
	s.r.SetFillColor(s.state.fill)
	s.r.SetStrokeColor(drawing.Color{})
	s.r.SetStrokeWidth(0)
	s.tracePath()
	s.r.Fill()
}

func (s *rendererSurface) FillText(text string, x, y, size float64, align model.Align) {
	if s.defaults.Font != nil {
		s.r.SetFont(s.defaults.Font)
	} else if font, err := chart.GetDefaultFont(); err == nil {
		s.r.SetFont(font)
	}
	s.r.SetFontColor(s.state.fill)
	s.r.SetFontSize(size)

	width := s.r.MeasureText(text).Width()
	left := round(x)
	switch align {
	case model.AlignRight:
		left -= width
	case model.AlignCenter:
		left -= width / 2
	}
	s.r.Text(text, left, round(y))
}
