package kde

import (
	"context"
	"fmt"
	"math"

	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/interp"
	"github.com/uyouii/percentile-chart/model"
	"github.com/uyouii/percentile-chart/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

type DistributionOptions struct {
	// score range sampled by the curve
	Min float64
	Max float64
	// number of control points, at least 2
	GridSize int
	// y of the highest control point
	Peak float64
	// drop samples further than this many standard deviations from the mean, 0 keeps all
	ClipZScore float64
	Weights    []float64
}

func DefaultDistributionOptions() DistributionOptions {
	return DistributionOptions{
		Min:        model.MinPercentile,
		Max:        model.MaxPercentile,
		GridSize:   DefaultDistributionGridSize,
		Peak:       DefaultDistributionPeak,
		ClipZScore: ClipZScore,
	}
}

func zScoreClip(values []float64, z float64) *model.Clip {
	if z <= 0 {
		return nil
	}
	mean, stddev := stat.MeanStdDev(values, nil)
	return &model.Clip{
		Lower: mean - stddev*z,
		Upper: mean + stddev*z,
	}
}

func newScoreKDE(ctx context.Context, scores []float64, weights []float64, clipZScore float64) (*KDEUnivariate, error) {
	logger := utils.GetLogger(ctx)

	if len(scores) < KdeMinCalculatePointCnt {
		logger.Error("point too little, skip calculate", zap.Int("cnt", len(scores)))
		return nil, fmt.Errorf("%w: need %d scores, got %d", common.ErrorInvalidValue,
			KdeMinCalculatePointCnt, len(scores))
	}
	for i, s := range scores {
		if !utils.IsFinite(s) {
			return nil, fmt.Errorf("%w: score %d is %v", common.ErrorInvalidValue, i, s)
		}
	}

	k, err := NewKDEUnivariate(scores, weights, 1.0, DefaultCut, zScoreClip(scores, clipZScore))
	if err != nil {
		logger.Error("NewKDEUnivariate failed", zap.Error(err))
		return nil, err
	}
	return k, nil
}

// Distribution estimates the density of scores and samples it on an even grid, giving a
// control point sequence whose highest y equals opts.Peak.
func Distribution(ctx context.Context, scores []float64, opts DistributionOptions) (points []model.ControlPoint, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Distribution recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.Int("scores", len(scores)))
			points, err = nil, fmt.Errorf("%w: distribution panic: %v", common.ErrorInvalidValue, r)
		}
	}()

	if opts.GridSize < 2 || !(opts.Max > opts.Min) || opts.Peak <= 0 {
		return nil, fmt.Errorf("%w: distribution options %+v", common.ErrorInvalidValue, opts)
	}

	k, err := newScoreKDE(ctx, scores, opts.Weights, opts.ClipZScore)
	if err != nil {
		return nil, err
	}

	grid := linspace(opts.Min, opts.Max, opts.GridSize)
	values := make([]float64, len(grid))
	peak := 0.0
	for i, x := range grid {
		if values[i], err = k.Evaluate(x); err != nil {
			logger.Error("kde evaluate failed", zap.Error(err), zap.Float64("x", x))
			return nil, err
		}
		peak = math.Max(peak, values[i])
	}
	if peak == 0 {
		return nil, fmt.Errorf("%w: no density inside [%v, %v]", common.ErrorInvalidValue, opts.Min, opts.Max)
	}

	points = make([]model.ControlPoint, len(grid))
	for i, x := range grid {
		points[i] = model.ControlPoint{
			X: x,
			Y: utils.FormatFloat(values[i]/peak*opts.Peak, DistributionPrecision),
		}
	}

	logger.Info("distribution estimated", zap.Int("scores", len(scores)),
		zap.Int("samples", len(k.Endog)), zap.Float64("bandwidth", k.bw), zap.Int("points", len(points)))
	return points, nil
}

// PercentileOfScore returns the share of estimated mass below score, as a percentile.
func PercentileOfScore(ctx context.Context, scores []float64, score float64) (model.Percentile, error) {
	logger := utils.GetLogger(ctx)

	if !utils.IsFinite(score) {
		return model.NoPercentile, fmt.Errorf("%w: score %v", common.ErrorInvalidValue, score)
	}

	k, err := newScoreKDE(ctx, scores, nil, 0)
	if err != nil {
		return model.NoPercentile, err
	}
	cdf, err := k.Cdf()
	if err != nil {
		logger.Error("kde Cdf failed", zap.Error(err))
		return model.NoPercentile, err
	}

	points := make([]model.ControlPoint, len(cdf))
	for i, c := range cdf {
		points[i] = model.ControlPoint{X: c.X, Y: c.Value}
	}
	mass, err := interp.Interpolate(points, score)
	if err != nil {
		return model.NoPercentile, err
	}
	if score > cdf[len(cdf)-1].X {
		mass = 1
	}

	p := utils.FormatFloat(math.Min(math.Max(mass*100, model.MinPercentile), model.MaxPercentile), 2)
	logger.Debug("percentile of score", zap.Float64("score", score), zap.Float64("percentile", p))
	return model.NewPercentile(p), nil
}

// ScoreQuantiles returns the score found at each quantile in qs, each in [0, 1].
func ScoreQuantiles(ctx context.Context, scores []float64, qs []float64) ([]model.ScoreQuantile, error) {
	logger := utils.GetLogger(ctx)

	k, err := newScoreKDE(ctx, scores, nil, 0)
	if err != nil {
		return nil, err
	}

	res := make([]model.ScoreQuantile, 0, len(qs))
	for _, q := range qs {
		sq, err := k.Quantile(q)
		if err != nil {
			logger.Error("kde Quantile failed", zap.Error(err), zap.Float64("quantile", q))
			return nil, err
		}
		sq.Score = utils.FormatFloat(sq.Score, DistributionPrecision)
		res = append(res, *sq)
	}
	return res, nil
}
