package surface

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/overlay"
)

func TestReplayOverlay(t *testing.T) {
	m := overlay.Mapper{
		X: overlay.LinearAxis{DomainMin: 0, DomainMax: 100, PixelMin: 0, PixelMax: 500},
		Y: overlay.LinearAxis{DomainMin: 0, DomainMax: 100, PixelMin: 200, PixelMax: 0},
	}
	points := model.DefaultControlPoints()
	cmds, err := overlay.Render(points, model.NewPercentile(25), model.HoverAt(5), m, overlay.DefaultOptions())
	require.NoError(t, err)

	rec := &Recorder{}
	require.NoError(t, Replay(rec, cmds))

	require.Equal(t, 0, rec.Depth())
	require.Equal(t, len(cmds), rec.Count("save"))
	// 13 plain markers, halo + active + inner dot, percentile marker
	require.Equal(t, len(points)+2+1, rec.Count("arc"))
	// label, tooltip title and body
	require.Equal(t, 3, rec.Count("text"))
	require.Contains(t, rec.Calls, `text "your percentile" 120 14 12 2`)
	require.Contains(t, rec.Calls, "stroke-style {200 200 200 255} 1 [5 5]")
}

func TestReplayPaintOrder(t *testing.T) {
	rec := &Recorder{}
	err := Replay(rec, []model.Command{{
		Layer:  model.LayerPointMarkers,
		Kind:   model.KindCircle,
		Points: []model.Pixel{{X: 1, Y: 2}},
		Radius: 3,
		Fill:   model.Paint{Color: color.NRGBA{R: 255, A: 255}},
		Stroke: model.Paint{Color: color.NRGBA{B: 255, A: 255}, Width: 1},
	}})
	require.NoError(t, err)
	require.Equal(t, []string{
		"save",
		"begin",
		"arc 1 2 3",
		"fill-style {255 0 0 255}",
		"fill",
		"stroke-style {0 0 255 255} 1 []",
		"stroke",
		"restore",
	}, rec.Calls)
}

func TestReplayRect(t *testing.T) {
	rec := &Recorder{}
	err := Replay(rec, []model.Command{{
		Kind:   model.KindRect,
		Points: []model.Pixel{{X: 0, Y: 0}, {X: 4, Y: 2}},
		Stroke: model.Paint{Color: color.NRGBA{A: 255}, Width: 1},
	}})
	require.NoError(t, err)
	require.Equal(t, 3, rec.Count("line"))
	require.Equal(t, 1, rec.Count("close"))
	require.Equal(t, 0, rec.Count("fill"))
}

func TestReplayInvalidCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  model.Command
	}{
		{"short line", model.Command{Kind: model.KindLine, Points: []model.Pixel{{}}}},
		{"circle without centre", model.Command{Kind: model.KindCircle}},
		{"rect with one corner", model.Command{Kind: model.KindRect, Points: []model.Pixel{{}}}},
		{"text without anchor", model.Command{Kind: model.KindText}},
		{"unknown kind", model.Command{Kind: 42}},
	}
	for _, test := range tests {
		rec := &Recorder{}
		err := Replay(rec, []model.Command{test.cmd})
		require.ErrorIs(t, err, common.ErrorInvalidValue, test.name)
		require.Equal(t, 0, rec.Depth(), test.name)
	}
}
