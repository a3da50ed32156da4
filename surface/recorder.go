package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/uyouii/percentile-chart/model"
)

// Recorder is a Surface that logs every call, one line per call.
type Recorder struct {
	Calls []string
	depth int
}

func (r *Recorder) add(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) Save() {
	r.depth++
	r.add("save")
}

func (r *Recorder) Restore() {
	r.depth--
	r.add("restore")
}

// Depth is the number of unmatched Save calls.
func (r *Recorder) Depth() int {
	return r.depth
}

func (r *Recorder) BeginPath()          { r.add("begin") }
func (r *Recorder) MoveTo(x, y float64) { r.add("move %g %g", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.add("line %g %g", x, y) }
func (r *Recorder) Arc(x, y, radius float64) {
	r.add("arc %g %g %g", x, y, radius)
}
func (r *Recorder) ClosePath() { r.add("close") }

func (r *Recorder) SetStrokeStyle(c color.Color, width float64, dash []float64) {
	r.add("stroke-style %v %g %v", c, width, dash)
}

func (r *Recorder) SetFillStyle(c color.Color) { r.add("fill-style %v", c) }
func (r *Recorder) Stroke()                    { r.add("stroke") }
func (r *Recorder) Fill()                      { r.add("fill") }

func (r *Recorder) FillText(text string, x, y, size float64, align model.Align) {
	r.add("text %q %g %g %g %d", text, x, y, size, align)
}

// Count returns how many recorded calls are named op, e.g. "arc" or "stroke-style".
func (r *Recorder) Count(op string) int {
	n := 0
	for _, call := range r.Calls {
		if call == op || strings.HasPrefix(call, op+" ") {
			n++
		}
	}
	return n
}
