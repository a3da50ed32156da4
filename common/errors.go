package common

import "errors"

var (
	ErrorInvalidValue = errors.New("invalid value")

	// control points must be non-empty, finite and strictly ascending by x
	ErrorInvalidControlPoints = errors.New("invalid control points")

	ErrorInvalidPercentile = errors.New("invalid percentile")
)
