package gochart

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
	"github.com/uyouii/percentile-chart/surface"
	"github.com/uyouii/percentile-chart/utils"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"
)

const (
	DefaultWidth  = 512
	DefaultHeight = 256

	yHeadRoom = 1.1
	tickStep  = 25.0
)

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func (f Format) provider() (chart.RendererProvider, error) {
	switch f {
	case PNG, "":
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	}
	return nil, fmt.Errorf("%w: go-chart format %q", common.ErrorInvalidValue, string(f))
}

var transparent = drawing.Color{R: 255, G: 255, B: 255, A: 0}

// Render draws the distribution with go-chart and replays the overlay as a chart element,
// after go-chart has drawn its axes and series.
func Render(ctx context.Context, w io.Writer, renderer *overlay.Renderer, percentile model.Percentile,
	hover model.HoverState, width, height int, format Format) error {
	logger := utils.GetLogger(ctx)

	provider, err := format.provider()
	if err != nil {
		return err
	}
	if _, _, err := renderer.Marker(percentile); err != nil {
		return err
	}

	minX, maxX := renderer.XRange()
	_, _, _, maxY := renderer.Interpolator().Bounds()
	yMax := maxY * yHeadRoom

	points := renderer.Points()
	xs, ys := make([]float64, len(points)), make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}

	var overlayErr error
	element := func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("overlay element recover panic error!", zap.Any("err", err),
					zap.String("panic info", utils.GetPanicInfo()))
				overlayErr = fmt.Errorf("overlay element panic: %v", err)
			}
		}()

		m := overlay.Mapper{
			X: overlay.LinearAxis{DomainMin: minX, DomainMax: maxX,
				PixelMin: float64(box.Left), PixelMax: float64(box.Right)},
			Y: overlay.LinearAxis{DomainMin: 0, DomainMax: yMax,
				PixelMin: float64(box.Bottom), PixelMax: float64(box.Top)},
		}
		cmds, err := renderer.Render(percentile, hover, m)
		if err != nil {
			overlayErr = err
			return
		}
		overlayErr = surface.Replay(newRendererSurface(r, defaults), cmds)
	}

	textColor := toDrawing(renderer.Options().Theme.Text)
	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 16, Bottom: 10}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
			Ticks: ticks(minX, maxX),
			Style: chart.Style{FontColor: textColor, FontSize: renderer.Options().Theme.FontSize},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Series: []chart.Series{
			// carries the ranges, the visible curve comes from the overlay
			chart.ContinuousSeries{
				Name:    "distribution",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: transparent, StrokeWidth: 1},
			},
		},
	}
	ch.Elements = []chart.Renderable{element}

	if err := ch.Render(provider, w); err != nil {
		logger.Error("go-chart render failed", zap.Error(err))
		return err
	}
	if overlayErr != nil {
		logger.Error("overlay element failed", zap.Error(overlayErr))
		return overlayErr
	}
	return nil
}

func ticks(minX, maxX float64) []chart.Tick {
	res := []chart.Tick{}
	for v := minX; v <= maxX; v += tickStep {
		res = append(res, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return res
}
