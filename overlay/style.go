package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/uyouii/percentile-chart/common"
)

// Color parses "rrggbb" or "rrggbbaa", with or without a leading '#'.
func Color(hash string) (color.NRGBA, error) {
	hash = strings.TrimPrefix(hash, "#")
	if len(hash) != 6 && len(hash) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: colour %q", common.ErrorInvalidValue, hash)
	}
	c := color.NRGBA{A: 255}
	cs := []*uint8{&c.R, &c.G, &c.B, &c.A}
	for i := 0; i < len(hash); i += 2 {
		ui, err := strconv.ParseUint(hash[i:i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: colour %q: %v", common.ErrorInvalidValue, hash, err)
		}
		*cs[i/2] = uint8(ui)
	}
	return c, nil
}

func mustColor(hash string) color.NRGBA {
	c, err := Color(hash)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when it is not opaque.
func Hex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func withAlpha(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}

type Theme struct {
	Accent     color.NRGBA
	PointFill  color.NRGBA
	Guide      color.NRGBA
	HoverGuide color.NRGBA
	Marker     color.NRGBA
	Text       color.NRGBA
	TooltipBox color.NRGBA
	TooltipRim color.NRGBA

	CurveWidth       float64
	GuideWidth       float64
	GuideDash        []float64
	PointRadius      float64
	PointBorderWidth float64
	ActiveRadius     float64
	HaloRadius       float64
	HaloAlpha        uint8
	InnerRadius      float64
	MarkerRadius     float64
	MarkerWidth      float64
	FontSize         float64
}

func DefaultTheme() Theme {
	return Theme{
		Accent:     mustColor(DefaultAccent),
		PointFill:  mustColor(DefaultPointFill),
		Guide:      mustColor(DefaultGuide),
		HoverGuide: mustColor(DefaultHoverGuide),
		Marker:     mustColor(DefaultMarker),
		Text:       mustColor(DefaultText),
		TooltipBox: mustColor(DefaultPointFill),
		TooltipRim: mustColor(DefaultGuide),

		CurveWidth:       2,
		GuideWidth:       1,
		GuideDash:        []float64{5, 5},
		PointRadius:      3,
		PointBorderWidth: 1,
		ActiveRadius:     6,
		HaloRadius:       10,
		HaloAlpha:        0x33,
		InnerRadius:      2.5,
		MarkerRadius:     5,
		MarkerWidth:      2,
		FontSize:         12,
	}
}
