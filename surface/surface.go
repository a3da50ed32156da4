package surface

import (
	"fmt"
	"image/color"

	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
)

// Surface is a canvas-like 2D drawing target. Path calls build the current path until
// Stroke or Fill paints it.
type Surface interface {
	Save()
	Restore()

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Arc(x, y, radius float64)
	ClosePath()

	SetStrokeStyle(c color.Color, width float64, dash []float64)
	SetFillStyle(c color.Color)
	Stroke()
	Fill()

	FillText(text string, x, y, size float64, align model.Align)
}

// Replay executes cmds on s in order.
func Replay(s Surface, cmds []model.Command) error {
	for i, cmd := range cmds {
		if err := replay(s, cmd); err != nil {
			return fmt.Errorf("command %d (%v): %w", i, cmd.Layer, err)
		}
	}
	return nil
}

func replay(s Surface, cmd model.Command) error {
	s.Save()
	defer s.Restore()

	switch cmd.Kind {
	case model.KindPolyline, model.KindLine:
		if len(cmd.Points) < 2 {
			return fmt.Errorf("%w: line needs 2 points, got %d", common.ErrorInvalidValue, len(cmd.Points))
		}
		s.BeginPath()
		s.MoveTo(cmd.Points[0].X, cmd.Points[0].Y)
		for _, p := range cmd.Points[1:] {
			s.LineTo(p.X, p.Y)
		}
		paint(s, cmd, false)
	case model.KindCircle:
		if len(cmd.Points) < 1 {
			return fmt.Errorf("%w: circle without centre", common.ErrorInvalidValue)
		}
		s.BeginPath()
		s.Arc(cmd.Points[0].X, cmd.Points[0].Y, cmd.Radius)
		paint(s, cmd, true)
	case model.KindRect:
		if len(cmd.Points) < 2 {
			return fmt.Errorf("%w: rect needs 2 corners, got %d", common.ErrorInvalidValue, len(cmd.Points))
		}
		lo, hi := cmd.Points[0], cmd.Points[1]
		s.BeginPath()
		s.MoveTo(lo.X, lo.Y)
		s.LineTo(hi.X, lo.Y)
		s.LineTo(hi.X, hi.Y)
		s.LineTo(lo.X, hi.Y)
		s.ClosePath()
		paint(s, cmd, true)
	case model.KindText:
		if len(cmd.Points) < 1 {
			return fmt.Errorf("%w: text without anchor", common.ErrorInvalidValue)
		}
		s.SetFillStyle(cmd.Fill.Color)
		s.FillText(cmd.Text, cmd.Points[0].X, cmd.Points[0].Y, cmd.FontSize, cmd.Align)
	default:
		return fmt.Errorf("%w: unknown command kind %d", common.ErrorInvalidValue, cmd.Kind)
	}
	return nil
}

// paint fills before stroking so the outline stays on top.
func paint(s Surface, cmd model.Command, fill bool) {
	if fill && cmd.Fill.IsFill() {
		s.SetFillStyle(cmd.Fill.Color)
		s.Fill()
	}
	if cmd.Stroke.IsStroke() {
		s.SetStrokeStyle(cmd.Stroke.Color, cmd.Stroke.Width, cmd.Stroke.Dash)
		s.Stroke()
	}
}
