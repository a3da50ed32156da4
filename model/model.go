package model

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/uyouii/percentile-chart/common"
)

type ControlPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

var defaultControlPoints = []ControlPoint{
	{X: 0, Y: 5},
	{X: 10, Y: 8},
	{X: 20, Y: 12},
	{X: 25, Y: 25},
	{X: 30, Y: 35},
	{X: 35, Y: 45},
	{X: 40, Y: 65},
	{X: 45, Y: 90},
	{X: 50, Y: 85},
	{X: 60, Y: 55},
	{X: 70, Y: 25},
	{X: 80, Y: 15},
	{X: 90, Y: 25},
	{X: 100, Y: 5},
}

// DefaultControlPoints returns a copy of the built-in 14 point distribution.
func DefaultControlPoints() []ControlPoint {
	res := make([]ControlPoint, len(defaultControlPoints))
	copy(res, defaultControlPoints)
	return res
}

const (
	MinPercentile = 0.0
	MaxPercentile = 100.0
)

// Percentile is an optional value in [0, 100]. The zero value is absent.
type Percentile struct {
	value float64
	valid bool
}

var NoPercentile = Percentile{}

func NewPercentile(v float64) Percentile {
	return Percentile{value: v, valid: true}
}

func (p Percentile) Value() (float64, bool) {
	return p.value, p.valid
}

func (p Percentile) Validate() error {
	if !p.valid {
		return nil
	}
	if math.IsNaN(p.value) || p.value < MinPercentile || p.value > MaxPercentile {
		return fmt.Errorf("%w: %v not in [%v, %v]", common.ErrorInvalidPercentile,
			p.value, MinPercentile, MaxPercentile)
	}
	return nil
}

func (p Percentile) String() string {
	if !p.valid {
		return "none"
	}
	return fmt.Sprintf("%v", p.value)
}

func (p Percentile) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

func (p *Percentile) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPercentile
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = NewPercentile(v)
	return nil
}

// HoverState identifies the control point under pointer focus, if any.
type HoverState struct {
	index  int
	active bool
}

func NoHover() HoverState {
	return HoverState{}
}

func HoverAt(index int) HoverState {
	return HoverState{index: index, active: true}
}

func (h HoverState) Index() (int, bool) {
	return h.index, h.active
}

func (h HoverState) String() string {
	if !h.active {
		return "none"
	}
	return fmt.Sprintf("point %d", h.index)
}
