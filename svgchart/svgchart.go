package svgchart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
)

// Frame is the SVG viewport and the plot area margins, in pixels.
type Frame struct {
	Width  int
	Height int
	Top    int
	Right  int
	Bottom int
	Left   int
}

func DefaultFrame() Frame {
	return Frame{Width: 512, Height: 256, Top: 10, Right: 16, Bottom: 28, Left: 16}
}

const (
	yHeadRoom = 1.1
	tickStep  = 25.0
	tickSize  = 4
)

func (f Frame) validate() error {
	if f.Width-f.Left-f.Right <= 0 || f.Height-f.Top-f.Bottom <= 0 {
		return fmt.Errorf("%w: frame %dx%d leaves no plot area", common.ErrorInvalidValue, f.Width, f.Height)
	}
	return nil
}

// Mapper maps the renderer's domain onto the plot area of f, y growing downwards.
func (f Frame) Mapper(renderer *overlay.Renderer) overlay.Mapper {
	minX, maxX := renderer.XRange()
	_, _, _, maxY := renderer.Interpolator().Bounds()
	return overlay.Mapper{
		X: overlay.LinearAxis{DomainMin: minX, DomainMax: maxX,
			PixelMin: float64(f.Left), PixelMax: float64(f.Width - f.Right)},
		Y: overlay.LinearAxis{DomainMin: 0, DomainMax: maxY * yHeadRoom,
			PixelMin: float64(f.Height - f.Bottom), PixelMax: float64(f.Top)},
	}
}

// Render writes a standalone SVG document of the chart to w.
func Render(w io.Writer, renderer *overlay.Renderer, percentile model.Percentile,
	hover model.HoverState, f Frame) error {
	if err := f.validate(); err != nil {
		return err
	}
	m := f.Mapper(renderer)
	cmds, err := renderer.Render(percentile, hover, m)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(f.Width, f.Height)
	canvas.Title("percentile distribution")
	drawAxis(canvas, m, renderer.Options().Theme)

	var open model.Layer
	for _, cmd := range cmds {
		if cmd.Layer != open {
			if open != 0 {
				canvas.Gend()
			}
			canvas.Gid(cmd.Layer.String())
			open = cmd.Layer
		}
		if err := element(canvas, cmd); err != nil {
			return err
		}
	}
	if open != 0 {
		canvas.Gend()
	}
	canvas.End()

	_, err = w.Write(buf.Bytes())
	return err
}

func drawAxis(canvas *svg.SVG, m overlay.Mapper, theme overlay.Theme) {
	bottom := px(m.Y.Pixel(m.Y.Min()))
	textStyle := fmt.Sprintf("text-anchor:middle;font-family:Arial,sans-serif;font-size:%gpx;fill:%s",
		theme.FontSize, overlay.Hex(theme.Text))

	canvas.Gid("x-axis")
	canvas.Line(px(m.X.Pixel(m.X.Min())), bottom, px(m.X.Pixel(m.X.Max())), bottom,
		"stroke:"+overlay.Hex(theme.Guide))
	for v := m.X.Min(); v <= m.X.Max(); v += tickStep {
		x := px(m.X.Pixel(v))
		canvas.Line(x, bottom, x, bottom+tickSize, "stroke:"+overlay.Hex(theme.Guide))
		canvas.Text(x, bottom+tickSize+int(theme.FontSize), strconv.FormatFloat(v, 'g', -1, 64), textStyle)
	}
	canvas.Gend()
}

func element(canvas *svg.SVG, cmd model.Command) error {
	switch cmd.Kind {
	case model.KindPolyline, model.KindLine:
		if len(cmd.Points) < 2 {
			return fmt.Errorf("%w: line needs 2 points", common.ErrorInvalidValue)
		}
		var d strings.Builder
		for i, p := range cmd.Points {
			op := "L"
			if i == 0 {
				op = "M"
			}
			fmt.Fprintf(&d, "%s%s %s ", op, num(p.X), num(p.Y))
		}
		canvas.Path(strings.TrimSpace(d.String()), paintStyle(model.Paint{}, cmd.Stroke))
	case model.KindCircle:
		if len(cmd.Points) < 1 {
			return fmt.Errorf("%w: circle without centre", common.ErrorInvalidValue)
		}
		c, r := cmd.Points[0], cmd.Radius
		// two half arcs, svgo only takes integer circles
		d := fmt.Sprintf("M%s %s a%s %s 0 1 0 %s 0 a%s %s 0 1 0 %s 0 Z",
			num(c.X-r), num(c.Y), num(r), num(r), num(2*r), num(r), num(r), num(-2*r))
		canvas.Path(d, paintStyle(cmd.Fill, cmd.Stroke))
	case model.KindRect:
		if len(cmd.Points) < 2 {
			return fmt.Errorf("%w: rect needs 2 corners", common.ErrorInvalidValue)
		}
		lo, hi := cmd.Points[0], cmd.Points[1]
		d := fmt.Sprintf("M%s %s H%s V%s H%s Z", num(lo.X), num(lo.Y), num(hi.X), num(hi.Y), num(lo.X))
		canvas.Path(d, paintStyle(cmd.Fill, cmd.Stroke))
	case model.KindText:
		if len(cmd.Points) < 1 {
			return fmt.Errorf("%w: text without anchor", common.ErrorInvalidValue)
		}
		p := cmd.Points[0]
		canvas.Text(px(p.X), px(p.Y), cmd.Text, textStyle(cmd))
	default:
		return fmt.Errorf("%w: unknown command kind %d", common.ErrorInvalidValue, cmd.Kind)
	}
	return nil
}

func paintStyle(fill, stroke model.Paint) string {
	parts := []string{}
	if fill.IsFill() {
		parts = append(parts, "fill:"+overlay.Hex(opaque(fill.Color)))
		if fill.Color.A != 255 {
			parts = append(parts, "fill-opacity:"+num(float64(fill.Color.A)/255))
		}
	} else {
		parts = append(parts, "fill:none")
	}
	if stroke.IsStroke() {
		parts = append(parts, "stroke:"+overlay.Hex(opaque(stroke.Color)), "stroke-width:"+num(stroke.Width))
		if stroke.Color.A != 255 {
			parts = append(parts, "stroke-opacity:"+num(float64(stroke.Color.A)/255))
		}
		if len(stroke.Dash) > 0 {
			dash := make([]string, len(stroke.Dash))
			for i, d := range stroke.Dash {
				dash[i] = num(d)
			}
			parts = append(parts, "stroke-dasharray:"+strings.Join(dash, ","))
		}
	}
	return strings.Join(parts, ";")
}

func textStyle(cmd model.Command) string {
	anchor := "start"
	switch cmd.Align {
	case model.AlignCenter:
		anchor = "middle"
	case model.AlignRight:
		anchor = "end"
	}
	return fmt.Sprintf("text-anchor:%s;font-family:Arial,sans-serif;font-size:%spx;fill:%s",
		anchor, num(cmd.FontSize), overlay.Hex(opaque(cmd.Fill.Color)))
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}

// num formats v with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func px(v float64) int {
	return int(math.Round(v))
}
