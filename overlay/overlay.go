package overlay

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/interp"
	"github.com/uyouii/percentile-chart/model"
)

type Options struct {
	Theme Theme
	Label string

	Tooltip      bool
	TooltipTitle func(model.ControlPoint) string
	TooltipBody  func(model.ControlPoint) string
}

func DefaultOptions() Options {
	return Options{
		Theme:        DefaultTheme(),
		Label:        DefaultPercentileLabel,
		Tooltip:      true,
		TooltipTitle: DefaultTooltipTitle,
		TooltipBody:  DefaultTooltipBody,
	}
}

func DefaultTooltipTitle(p model.ControlPoint) string {
	return strconv.FormatFloat(p.X, 'g', -1, 64)
}

func DefaultTooltipBody(p model.ControlPoint) string {
	return "value: " + strconv.FormatFloat(p.Y, 'g', -1, 64)
}

// withDefaults fills the zero fields of opts. Tooltip is left as given.
func (opts Options) withDefaults() Options {
	if opts.Theme.FontSize == 0 {
		opts.Theme = DefaultTheme()
	}
	if opts.Label == "" {
		opts.Label = DefaultPercentileLabel
	}
	if opts.TooltipTitle == nil {
		opts.TooltipTitle = DefaultTooltipTitle
	}
	if opts.TooltipBody == nil {
		opts.TooltipBody = DefaultTooltipBody
	}
	return opts
}

// Renderer turns (percentile, hover, mapping) into an ordered display list over a fixed
// distribution curve. It keeps no draw state between calls.
type Renderer struct {
	interpolator *interp.Interpolator
	opts         Options
}

func NewRenderer(points []model.ControlPoint, opts Options) (*Renderer, error) {
	in, err := interp.New(points)
	if err != nil {
		return nil, err
	}
	return &Renderer{interpolator: in, opts: opts.withDefaults()}, nil
}

// Render builds a renderer and runs it once.
func Render(points []model.ControlPoint, percentile model.Percentile, hover model.HoverState,
	m Mapper, opts Options) ([]model.Command, error) {
	r, err := NewRenderer(points, opts)
	if err != nil {
		return nil, err
	}
	return r.Render(percentile, hover, m)
}

func (r *Renderer) Points() []model.ControlPoint {
	return r.interpolator.Points()
}

func (r *Renderer) Interpolator() *interp.Interpolator {
	return r.interpolator
}

func (r *Renderer) Options() Options {
	return r.opts
}

// XRange is the x domain hosts should plot: the whole percentile scale, widened to the
// control points when they reach past it.
func (r *Renderer) XRange() (lo, hi float64) {
	minX, maxX, _, _ := r.interpolator.Bounds()
	return math.Min(minX, model.MinPercentile), math.Max(maxX, model.MaxPercentile)
}

// Marker returns where the percentile marker lands, false when percentile is absent.
func (r *Renderer) Marker(percentile model.Percentile) (model.ControlPoint, bool, error) {
	if err := percentile.Validate(); err != nil {
		return model.ControlPoint{}, false, err
	}
	p, ok := percentile.Value()
	if !ok {
		return model.ControlPoint{}, false, nil
	}
	return model.ControlPoint{X: p, Y: r.interpolator.Value(p)}, true, nil
}

func (r *Renderer) Render(percentile model.Percentile, hover model.HoverState, m Mapper) ([]model.Command, error) {
	if m.X == nil || m.Y == nil {
		return nil, fmt.Errorf("%w: mapper needs both axes", common.ErrorInvalidValue)
	}
	marker, hasPercentile, err := r.Marker(percentile)
	if err != nil {
		return nil, err
	}

	active, hovered := hover.Index()
	if hovered && (active < 0 || active >= r.interpolator.Len()) {
		hovered = false
	}

	theme := r.opts.Theme
	top, bottom := m.Y.Pixel(m.Y.Max()), m.Y.Pixel(m.Y.Min())
	down := 1.0
	if bottom < top {
		down = -1.0
	}

	cmds := make([]model.Command, 0, 2*r.interpolator.Len()+8)

	// 1. base curve
	cmds = append(cmds, r.baseCurve(m))

	// 2, 3. percentile guide and label
	if hasPercentile {
		x := m.X.Pixel(marker.X)
		// right of the guide when the label would cross the left edge of the plot
		labelX, labelAlign := x-LabelGap, model.AlignRight
		left := math.Min(m.X.Pixel(m.X.Min()), m.X.Pixel(m.X.Max()))
		if labelX-textWidth(r.opts.Label, theme.FontSize) < left {
			labelX, labelAlign = x+LabelGap, model.AlignLeft
		}
		cmds = append(cmds, model.Command{
			Layer:  model.LayerPercentileGuide,
			Kind:   model.KindLine,
			Points: []model.Pixel{{X: x, Y: top}, {X: x, Y: bottom}},
			Stroke: model.Paint{Color: theme.Guide, Width: theme.GuideWidth, Dash: copyDash(theme.GuideDash)},
			Index:  -1,
		}, model.Command{
			Layer:    model.LayerPercentileLabel,
			Kind:     model.KindText,
			Points:   []model.Pixel{{X: labelX, Y: top + down*LabelTopGap}},
			Text:     r.opts.Label,
			FontSize: theme.FontSize,
			Align:    labelAlign,
			Fill:     model.Paint{Color: theme.Text},
			Index:    -1,
		})
	}

	// 4. hover guide
	if hovered {
		x := m.X.Pixel(r.interpolator.Point(active).X)
		cmds = append(cmds, model.Command{
			Layer:  model.LayerHoverGuide,
			Kind:   model.KindLine,
			Points: []model.Pixel{{X: x, Y: top}, {X: x, Y: bottom}},
			Stroke: model.Paint{Color: theme.HoverGuide, Width: theme.GuideWidth},
			Index:  active,
		})
	}

	// 5. point markers
	for i := 0; i < r.interpolator.Len(); i++ {
		p := r.interpolator.Point(i)
		x, y := m.Point(p.X, p.Y)
		center := []model.Pixel{{X: x, Y: y}}
		if hovered && i == active {
			cmds = append(cmds, model.Command{
				Layer: model.LayerPointMarkers, Kind: model.KindCircle, Points: center,
				Radius: theme.HaloRadius,
				Fill:   model.Paint{Color: withAlpha(theme.Accent, theme.HaloAlpha)},
				Index:  i,
			}, model.Command{
				Layer: model.LayerPointMarkers, Kind: model.KindCircle, Points: center,
				Radius: theme.ActiveRadius,
				Fill:   model.Paint{Color: theme.Accent},
				Index:  i,
			}, model.Command{
				Layer: model.LayerPointMarkers, Kind: model.KindCircle, Points: center,
				Radius: theme.InnerRadius,
				Fill:   model.Paint{Color: theme.PointFill},
				Index:  i,
			})
			continue
		}
		cmds = append(cmds, model.Command{
			Layer: model.LayerPointMarkers, Kind: model.KindCircle, Points: center,
			Radius: theme.PointRadius,
			Fill:   model.Paint{Color: theme.PointFill},
			Stroke: model.Paint{Color: theme.Accent, Width: theme.PointBorderWidth},
			Index:  i,
		})
	}

	// 6. percentile marker
	if hasPercentile {
		x, y := m.Point(marker.X, marker.Y)
		cmds = append(cmds, model.Command{
			Layer:  model.LayerPercentileMarker,
			Kind:   model.KindCircle,
			Points: []model.Pixel{{X: x, Y: y}},
			Radius: theme.MarkerRadius,
			Fill:   model.Paint{Color: theme.PointFill},
			Stroke: model.Paint{Color: theme.Marker, Width: theme.MarkerWidth},
			Index:  -1,
		})
	}

	// 7. tooltip
	if hovered && r.opts.Tooltip {
		cmds = append(cmds, r.tooltip(active, m, down)...)
	}

	return cmds, nil
}

func (r *Renderer) baseCurve(m Mapper) model.Command {
	pixels := make([]model.Pixel, 0, r.interpolator.Len())
	for i := 0; i < r.interpolator.Len(); i++ {
		p := r.interpolator.Point(i)
		x, y := m.Point(p.X, p.Y)
		pixels = append(pixels, model.Pixel{X: x, Y: y})
	}
	return model.Command{
		Layer:  model.LayerBaseCurve,
		Kind:   model.KindPolyline,
		Points: pixels,
		Stroke: model.Paint{Color: r.opts.Theme.Accent, Width: r.opts.Theme.CurveWidth},
		Index:  -1,
	}
}

func (r *Renderer) tooltip(active int, m Mapper, down float64) []model.Command {
	theme := r.opts.Theme
	p := r.interpolator.Point(active)
	px, py := m.Point(p.X, p.Y)
	title, body := r.opts.TooltipTitle(p), r.opts.TooltipBody(p)

	fs := theme.FontSize
	width := math.Max(textWidth(title, fs), textWidth(body, fs)) + 2*TooltipPadding
	height := 2*fs + 2*TooltipPadding + fs/3

	left := px + TooltipGap
	if right := m.X.Pixel(m.X.Max()); left+width > right {
		left = px - TooltipGap - width
	}
	boxTop := py - down*height/2
	boxBottom := py + down*height/2

	rect := model.Command{
		Layer: model.LayerTooltip,
		Kind:  model.KindRect,
		Points: []model.Pixel{
			{X: left, Y: math.Min(boxTop, boxBottom)},
			{X: left + width, Y: math.Max(boxTop, boxBottom)},
		},
		Fill:   model.Paint{Color: theme.TooltipBox},
		Stroke: model.Paint{Color: theme.TooltipRim, Width: 1},
		Index:  active,
	}
	titleCmd := model.Command{
		Layer:    model.LayerTooltip,
		Kind:     model.KindText,
		Points:   []model.Pixel{{X: left + TooltipPadding, Y: boxTop + down*(TooltipPadding+fs)}},
		Text:     title,
		FontSize: fs,
		Align:    model.AlignLeft,
		Fill:     model.Paint{Color: theme.Text},
		Index:    active,
	}
	bodyCmd := titleCmd
	bodyCmd.Points = []model.Pixel{{X: left + TooltipPadding, Y: boxTop + down*(TooltipPadding+2*fs+fs/3)}}
	bodyCmd.Text = body
	bodyCmd.Fill = model.Paint{Color: theme.Accent}
	return []model.Command{rect, titleCmd, bodyCmd}
}

// textWidth estimates the advance of text without font metrics.
func textWidth(text string, fontSize float64) float64 {
	return float64(utf8.RuneCountInString(text)) * fontSize * GlyphWidthRatio
}

func copyDash(dash []float64) []float64 {
	if len(dash) == 0 {
		return nil
	}
	res := make([]float64, len(dash))
	copy(res, dash)
	return res
}
