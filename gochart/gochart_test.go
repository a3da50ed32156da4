package gochart

import (
	"bytes"
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func newRenderer(t *testing.T) *overlay.Renderer {
	r, err := overlay.NewRenderer(model.DefaultControlPoints(), overlay.DefaultOptions())
	require.NoError(t, err)
	return r
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	err := Render(context.Background(), &buf, newRenderer(t), model.NewPercentile(27), model.HoverAt(4),
		DefaultWidth, DefaultHeight, PNG)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	err := Render(context.Background(), &buf, newRenderer(t), model.NewPercentile(50), model.NoHover(),
		DefaultWidth, DefaultHeight, SVG)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "<svg")
	require.Contains(t, buf.String(), "your percentile")
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	err := Render(context.Background(), &buf, newRenderer(t), model.NoPercentile, model.NoHover(),
		DefaultWidth, DefaultHeight, Format("gif"))
	require.ErrorIs(t, err, common.ErrorInvalidValue)

	err = Render(context.Background(), &buf, newRenderer(t), model.NewPercentile(-3), model.NoHover(),
		DefaultWidth, DefaultHeight, PNG)
	require.ErrorIs(t, err, common.ErrorInvalidPercentile)
	require.Zero(t, buf.Len())
}

func TestToDrawing(t *testing.T) {
	require.Equal(t, drawing.Color{R: 107, G: 114, B: 255, A: 255},
		toDrawing(color.RGBA{R: 107, G: 114, B: 255, A: 255}))
	require.Equal(t, drawing.Color{}, toDrawing(color.RGBA{}))

	half := toDrawing(color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	require.Equal(t, uint8(128), half.A)
	require.InDelta(t, 200, int(half.R), 1)
}
