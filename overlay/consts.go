package overlay

const (
	DefaultAccent     = "6b72ff"
	DefaultPointFill  = "ffffff"
	DefaultGuide      = "c8c8c8"
	DefaultHoverGuide = "a0a0a0"
	DefaultMarker     = "ec4899"
	DefaultText       = "646464"

	DefaultPercentileLabel = "your percentile"

	// label sits left of the guide line, this far below the top of the plot
	LabelGap    = 5.0
	LabelTopGap = 14.0

	TooltipGap     = 10.0
	TooltipPadding = 8.0
	// rough advance of a glyph relative to the font size, used to size the tooltip box
	GlyphWidthRatio = 0.6

	DefaultHitRadius = 8.0
)
