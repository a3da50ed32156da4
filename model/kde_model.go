package model

type Clip struct {
	Lower float64
	Upper float64
}

type Cdf struct {
	X     float64
	Value float64
}

// ScoreQuantile is the score found at quantile Quantile of a score distribution.
type ScoreQuantile struct {
	Score    float64 `json:"score" yaml:"score"`
	Quantile float64 `json:"quantile" yaml:"quantile"`
}
