package utils

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, 1.235, FormatFloat(1.23456, 3))
	assert.Equal(t, 2.0, FormatFloat(1.5, 0))
	assert.Equal(t, -0.12, FormatFloat(-0.1249, 2))
	assert.True(t, math.IsNaN(FormatFloat(math.NaN(), 2)))
	assert.True(t, math.IsInf(FormatFloat(math.Inf(1), 2), 1))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestGetLogger(t *testing.T) {
	assert.Equal(t, zap.L(), GetLogger(context.Background()))

	logger := zap.NewNop()
	assert.Same(t, logger, GetLogger(WithLogger(context.Background(), logger)))
	assert.Contains(t, GetPanicInfo(), "goroutine")
}
