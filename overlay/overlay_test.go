package overlay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
)

// 500x200 canvas with y growing downwards, y domain [0, 100]
func canvasMapper() Mapper {
	return Mapper{
		X: LinearAxis{DomainMin: 0, DomainMax: 100, PixelMin: 0, PixelMax: 500},
		Y: LinearAxis{DomainMin: 0, DomainMax: 100, PixelMin: 200, PixelMax: 0},
	}
}

func layers(cmds []model.Command) []model.Layer {
	res := []model.Layer{}
	for _, cmd := range cmds {
		if len(res) == 0 || res[len(res)-1] != cmd.Layer {
			res = append(res, cmd.Layer)
		}
	}
	return res
}

func TestRenderWithoutPercentileOrHover(t *testing.T) {
	points := model.DefaultControlPoints()
	cmds, err := Render(points, model.NoPercentile, model.NoHover(), canvasMapper(), DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, []model.Layer{model.LayerBaseCurve, model.LayerPointMarkers}, layers(cmds))
	require.Len(t, model.FilterLayer(cmds, model.LayerPointMarkers), len(points))

	curve := cmds[0]
	require.Equal(t, model.KindPolyline, curve.Kind)
	require.Len(t, curve.Points, len(points))
	require.Equal(t, model.Pixel{X: 0, Y: 190}, curve.Points[0])
}

func TestRenderDrawOrder(t *testing.T) {
	cmds, err := Render(model.DefaultControlPoints(), model.NewPercentile(27), model.HoverAt(3),
		canvasMapper(), DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, []model.Layer{
		model.LayerBaseCurve,
		model.LayerPercentileGuide,
		model.LayerPercentileLabel,
		model.LayerHoverGuide,
		model.LayerPointMarkers,
		model.LayerPercentileMarker,
		model.LayerTooltip,
	}, layers(cmds))
}

func TestRenderPercentileLayers(t *testing.T) {
	opts := DefaultOptions()
	cmds, err := Render(model.DefaultControlPoints(), model.NewPercentile(27), model.NoHover(),
		canvasMapper(), opts)
	require.NoError(t, err)

	guide := model.FilterLayer(cmds, model.LayerPercentileGuide)
	require.Len(t, guide, 1)
	assert.Equal(t, model.KindLine, guide[0].Kind)
	require.Len(t, guide[0].Points, 2)
	assert.InDelta(t, 135, guide[0].Points[0].X, 1e-9)
	assert.Equal(t, 0.0, guide[0].Points[0].Y)
	assert.Equal(t, 200.0, guide[0].Points[1].Y)
	assert.Equal(t, []float64{5, 5}, guide[0].Stroke.Dash)

	label := model.FilterLayer(cmds, model.LayerPercentileLabel)
	require.Len(t, label, 1)
	assert.Equal(t, DefaultPercentileLabel, label[0].Text)
	assert.Equal(t, model.AlignRight, label[0].Align)
	assert.InDelta(t, 135-LabelGap, label[0].Anchor().X, 1e-9)
	assert.Equal(t, LabelTopGap, label[0].Anchor().Y)

	marker := model.FilterLayer(cmds, model.LayerPercentileMarker)
	require.Len(t, marker, 1)
	// (27, 29) on the default curve
	assert.InDelta(t, 135, marker[0].Anchor().X, 1e-9)
	assert.InDelta(t, 142, marker[0].Anchor().Y, 1e-9)
	assert.Equal(t, opts.Theme.Marker, marker[0].Stroke.Color)
	assert.NotEqual(t, opts.Theme.Accent, marker[0].Stroke.Color)
}

func TestXRange(t *testing.T) {
	tests := []struct {
		name   string
		points []model.ControlPoint
		lo, hi float64
	}{
		{"default", model.DefaultControlPoints(), 0, 100},
		{"inside the scale", []model.ControlPoint{{X: 10, Y: 1}, {X: 90, Y: 2}}, 0, 100},
		{"past the scale", []model.ControlPoint{{X: -10, Y: 1}, {X: 120, Y: 2}}, -10, 120},
	}
	for _, test := range tests {
		r, err := NewRenderer(test.points, DefaultOptions())
		require.NoError(t, err, test.name)
		lo, hi := r.XRange()
		assert.Equal(t, test.lo, lo, test.name)
		assert.Equal(t, test.hi, hi, test.name)
	}
}

func TestPercentileLabelStaysInsidePlot(t *testing.T) {
	cmds, err := Render(model.DefaultControlPoints(), model.NewPercentile(5), model.NoHover(),
		canvasMapper(), DefaultOptions())
	require.NoError(t, err)

	label := model.FilterLayer(cmds, model.LayerPercentileLabel)
	require.Len(t, label, 1)
	assert.Equal(t, model.AlignLeft, label[0].Align)
	assert.InDelta(t, 25+LabelGap, label[0].Anchor().X, 1e-9)
	assert.Equal(t, LabelTopGap, label[0].Anchor().Y)
}

func TestMarkerPosition(t *testing.T) {
	r, err := NewRenderer(model.DefaultControlPoints(), DefaultOptions())
	require.NoError(t, err)

	tests := []struct {
		name       string
		percentile model.Percentile
		output     model.ControlPoint
		present    bool
	}{
		{"control point", model.NewPercentile(25), model.ControlPoint{X: 25, Y: 25}, true},
		{"between points", model.NewPercentile(27), model.ControlPoint{X: 27, Y: 29}, true},
		{"zero", model.NewPercentile(0), model.ControlPoint{X: 0, Y: 5}, true},
		{"absent", model.NoPercentile, model.ControlPoint{}, false},
	}
	for _, test := range tests {
		res, ok, err := r.Marker(test.percentile)
		require.NoError(t, err, test.name)
		require.Equal(t, test.present, ok, test.name)
		require.Equal(t, test.output, res, test.name)
	}
}

func TestRenderHoverTreatment(t *testing.T) {
	opts := DefaultOptions()
	points := model.DefaultControlPoints()
	for active := range points {
		cmds, err := Render(points, model.NoPercentile, model.HoverAt(active), canvasMapper(), opts)
		require.NoError(t, err)

		markers := model.FilterLayer(cmds, model.LayerPointMarkers)
		activeCount := 0
		for _, cmd := range markers {
			if cmd.Radius == opts.Theme.ActiveRadius {
				activeCount++
				require.Equal(t, active, cmd.Index)
				require.Equal(t, opts.Theme.Accent, cmd.Fill.Color)
			}
			if cmd.Index != active {
				require.Equal(t, opts.Theme.PointRadius, cmd.Radius)
				require.Equal(t, opts.Theme.PointFill, cmd.Fill.Color)
			}
		}
		require.Equal(t, 1, activeCount)
		// halo, active circle and inner dot replace the base marker
		require.Len(t, markers, len(points)+2)

		hoverGuide := model.FilterLayer(cmds, model.LayerHoverGuide)
		require.Len(t, hoverGuide, 1)
		require.Nil(t, hoverGuide[0].Stroke.Dash)
		require.InDelta(t, points[active].X*5, hoverGuide[0].Points[0].X, 1e-9)
	}
}

func TestRenderIgnoresOutOfRangeHover(t *testing.T) {
	cmds, err := Render(model.DefaultControlPoints(), model.NoPercentile, model.HoverAt(99),
		canvasMapper(), DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, model.FilterLayer(cmds, model.LayerHoverGuide))
	require.Empty(t, model.FilterLayer(cmds, model.LayerTooltip))
}

func TestRenderTooltip(t *testing.T) {
	opts := DefaultOptions()
	opts.TooltipBody = func(model.ControlPoint) string { return "numberOfStudent: 4" }

	cmds, err := Render(model.DefaultControlPoints(), model.NoPercentile, model.HoverAt(13),
		canvasMapper(), opts)
	require.NoError(t, err)

	tooltip := model.FilterLayer(cmds, model.LayerTooltip)
	require.Len(t, tooltip, 3)
	require.Equal(t, model.KindRect, tooltip[0].Kind)
	require.Equal(t, "100", tooltip[1].Text)
	require.Equal(t, "numberOfStudent: 4", tooltip[2].Text)
	// last point sits on the right edge, box flips to the left
	require.Less(t, tooltip[0].Points[1].X, 500.0)

	opts.Tooltip = false
	cmds, err = Render(model.DefaultControlPoints(), model.NoPercentile, model.HoverAt(13),
		canvasMapper(), opts)
	require.NoError(t, err)
	require.Empty(t, model.FilterLayer(cmds, model.LayerTooltip))
}

func TestRenderUpwardYAxis(t *testing.T) {
	m := Mapper{
		X: LinearAxis{DomainMin: 0, DomainMax: 100, PixelMin: 10, PixelMax: 110},
		Y: LinearAxis{DomainMin: 0, DomainMax: 100, PixelMin: 0, PixelMax: 100},
	}
	cmds, err := Render(model.DefaultControlPoints(), model.NewPercentile(50), model.NoHover(), m, DefaultOptions())
	require.NoError(t, err)

	label := model.FilterLayer(cmds, model.LayerPercentileLabel)
	require.Len(t, label, 1)
	require.Equal(t, 100-LabelTopGap, label[0].Anchor().Y)
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(nil, model.NoPercentile, model.NoHover(), canvasMapper(), DefaultOptions())
	require.ErrorIs(t, err, common.ErrorInvalidControlPoints)

	for _, p := range []float64{-1, 100.5, math.NaN()} {
		_, err = Render(model.DefaultControlPoints(), model.NewPercentile(p), model.NoHover(),
			canvasMapper(), DefaultOptions())
		require.ErrorIs(t, err, common.ErrorInvalidPercentile, "percentile %v", p)
	}

	_, err = Render(model.DefaultControlPoints(), model.NoPercentile, model.NoHover(), Mapper{}, DefaultOptions())
	require.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestRenderIsRepeatable(t *testing.T) {
	r, err := NewRenderer(model.DefaultControlPoints(), Options{})
	require.NoError(t, err)

	first, err := r.Render(model.NewPercentile(33), model.HoverAt(2), canvasMapper())
	require.NoError(t, err)
	second, err := r.Render(model.NewPercentile(33), model.HoverAt(2), canvasMapper())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestHitTest(t *testing.T) {
	points := model.DefaultControlPoints()
	m := canvasMapper()

	// (25, 25) -> (125, 150)
	idx, ok := HitTest(points, m, 127, 148, 0).Index()
	require.True(t, ok)
	require.Equal(t, 3, idx)

	_, ok = HitTest(points, m, 300, 10, 5).Index()
	require.False(t, ok)

	_, ok = HitTest(nil, m, 0, 0, 5).Index()
	require.False(t, ok)
}

func TestColor(t *testing.T) {
	c, err := Color("#6b72ff")
	require.NoError(t, err)
	require.Equal(t, uint8(0x6b), c.R)
	require.Equal(t, uint8(255), c.A)
	require.Equal(t, "#6b72ff", Hex(c))

	c, err = Color("6b72ff80")
	require.NoError(t, err)
	require.Equal(t, uint8(0x80), c.A)
	require.Equal(t, "#6b72ff80", Hex(c))

	_, err = Color("zz72ff")
	require.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = Color("fff")
	require.ErrorIs(t, err, common.ErrorInvalidValue)
}
