package plotchart

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
	"github.com/uyouii/percentile-chart/surface"
	"github.com/uyouii/percentile-chart/utils"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	// head room above the highest control point
	yHeadRoom = 1.1

	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 3 * vg.Inch
)

// TickStep is the spacing of the labelled x axis ticks.
var TickStep = 25.0

// Chart is a gonum plot of the distribution with the overlay drawn by an after-axes plotter.
type Chart struct {
	Plot    *plot.Plot
	overlay *overlayPlotter
}

func New(ctx context.Context, renderer *overlay.Renderer, percentile model.Percentile,
	hover model.HoverState) (*Chart, error) {
	// fail before plotting, Plot has no error return
	if _, _, err := renderer.Marker(percentile); err != nil {
		return nil, err
	}

	minX, maxX := renderer.XRange()
	_, _, _, maxY := renderer.Interpolator().Bounds()

	p := plot.New()
	p.HideY()
	p.X.Tick.Marker = plot.ConstantTicks(ticks(minX, maxX))
	p.X.Tick.Label.Color = renderer.Options().Theme.Text

	o := &overlayPlotter{
		ctx:        ctx,
		renderer:   renderer,
		percentile: percentile,
		hover:      hover,
		yMax:       maxY * yHeadRoom,
	}
	p.Add(o)
	p.X.Min, p.X.Max = minX, maxX
	p.Y.Min, p.Y.Max = 0, o.yMax

	return &Chart{Plot: p, overlay: o}, nil
}

func ticks(minX, maxX float64) []plot.Tick {
	res := []plot.Tick{}
	for v := minX; v <= maxX; v += TickStep {
		res = append(res, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return res
}

// Save writes the chart to file, the format follows the file extension.
func (c *Chart) Save(width, height vg.Length, file string) error {
	if err := c.Plot.Save(width, height, file); err != nil {
		return err
	}
	return c.overlay.err
}

// WriteTo renders the chart in format ("svg", "png", "pdf", ...) to w.
func (c *Chart) WriteTo(w io.Writer, width, height vg.Length, format string) error {
	wt, err := c.Plot.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	if c.overlay.err != nil {
		return c.overlay.err
	}
	_, err = wt.WriteTo(w)
	return err
}

type overlayPlotter struct {
	ctx        context.Context
	renderer   *overlay.Renderer
	percentile model.Percentile
	hover      model.HoverState
	yMax       float64
	err        error
}

func (o *overlayPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	logger := utils.GetLogger(o.ctx)

	defer func() {
		if err := recover(); err != nil {
			logger.Error("overlay plot recover panic error!", zap.Any("err", err),
				zap.String("panic info", utils.GetPanicInfo()))
			o.err = fmt.Errorf("overlay plot panic: %v", err)
		}
	}()

	trX, trY := plt.Transforms(&c)
	m := overlay.Mapper{
		X: overlay.AxisFunc{
			Transform: func(v float64) float64 { return float64(trX(v)) },
			Lo:        plt.X.Min,
			Hi:        plt.X.Max,
		},
		Y: overlay.AxisFunc{
			Transform: func(v float64) float64 { return float64(trY(v)) },
			Lo:        plt.Y.Min,
			Hi:        plt.Y.Max,
		},
	}

	cmds, err := o.renderer.Render(o.percentile, o.hover, m)
	if err != nil {
		logger.Error("overlay render failed", zap.Error(err))
		o.err = err
		return
	}

	s := newCanvasSurface(c, plt.X.Tick.Label)
	if err := surface.Replay(s, cmds); err != nil {
		logger.Error("overlay replay failed", zap.Error(err))
		o.err = err
		return
	}
	logger.Debug("overlay plotted", zap.Int("commands", len(cmds)),
		zap.Stringer("percentile", o.percentile), zap.Stringer("hover", o.hover))
}

func (o *overlayPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = o.renderer.XRange()
	return xmin, xmax, 0, o.yMax
}
