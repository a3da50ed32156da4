package kde

import (
	"fmt"

	"github.com/uyouii/percentile-chart/common"
	"github.com/uyouii/percentile-chart/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// KDEUnivariate is a weighted gaussian kernel density estimate of one variable.
type KDEUnivariate struct {
	Weights []float64

	// An adjustment factor for the bw. Bandwidth becomes bw * adjust.
	bwAdjust float64

	// Defines the length of the grid past the lowest and highest values
	// of x so that the kernel goes to zero. The end points are
	// ``min(x) - cut * bw`` and ``max(x) + cut * bw``.
	cut float64

	// endogenous variable, sorted
	Endog []float64

	gridSize int
	cdf      []model.Cdf
	grid     []float64
	bw       float64
	fitted   bool
	kernel   *GaussianKernel
}

// NewKDEUnivariate copies endog and weights, clips them and orders them by value. Nil
// weights mean equal weights.
func NewKDEUnivariate(endog []float64, weights []float64,
	bwAdjust float64, cut float64, clip *model.Clip) (*KDEUnivariate, error) {
	if len(endog) == 0 {
		return nil, fmt.Errorf("%w: no samples", common.ErrorInvalidValue)
	}

	if len(weights) == 0 {
		weights = InitOnes(len(endog))
	} else if len(weights) != len(endog) {
		return nil, fmt.Errorf("%w: %d weights for %d samples", common.ErrorInvalidValue,
			len(weights), len(endog))
	}

	if cut == 0 {
		cut = DefaultCut
	}
	if bwAdjust == 0 {
		bwAdjust = 1
	}

	endog, weights = sortTogether(endog, weights)
	if clip != nil {
		endog, weights = Clip(endog, weights, clip)
		if len(endog) == 0 {
			return nil, fmt.Errorf("%w: clip [%v, %v] removed every sample", common.ErrorInvalidValue,
				clip.Lower, clip.Upper)
		}
	}

	return &KDEUnivariate{
		Weights:  weights,
		gridSize: max(len(endog), MinGridSize),
		bwAdjust: bwAdjust,
		cut:      cut,
		Endog:    endog,
	}, nil
}

func (kde *KDEUnivariate) fit() error {
	if kde.fitted {
		return nil
	}

	kernel := NewGaussianKernel()
	bw, err := NewNormalReferenceBandWidth(kernel).BandWidth(kde.Endog)
	if err != nil {
		return err
	}
	bw = bw * kde.bwAdjust
	kernel.SetH(bw)
	kernel.SetWeights(kde.Weights)

	a := floats.Min(kde.Endog) - kde.cut*bw
	b := floats.Max(kde.Endog) + kde.cut*bw
	grid := linspace(a, b, kde.gridSize)

	kde.bw = bw
	kde.grid = grid
	kde.kernel = kernel
	kde.fitted = true
	return nil
}

// Evaluate returns the estimated density at x.
func (kde *KDEUnivariate) Evaluate(x float64) (float64, error) {
	if err := kde.fit(); err != nil {
		return 0, err
	}
	return kde.kernel.Density(kde.Endog, x), nil
}

// Cdf integrates the density over the estimation grid.
func (kde *KDEUnivariate) Cdf() ([]model.Cdf, error) {
	if err := kde.fit(); err != nil {
		return nil, err
	}
	if len(kde.cdf) > 0 {
		return kde.cdf, nil
	}

	f := func(x float64) float64 {
		return kde.kernel.Density(kde.Endog, x)
	}

	res := make([]model.Cdf, 0, len(kde.grid))
	res = append(res, model.Cdf{X: kde.grid[0], Value: 0})

	var cumSum float64
	for i := 1; i < len(kde.grid); i++ {
		cumSum += quad.Fixed(f, kde.grid[i-1], kde.grid[i], CdfQuadratureNodes, nil, 0)
		res = append(res, model.Cdf{X: kde.grid[i], Value: min(cumSum, 1)})
	}

	kde.cdf = res
	return res, nil
}

// Quantile returns the value below which a fraction p of the estimated mass lies.
func (kde *KDEUnivariate) Quantile(p float64) (*model.ScoreQuantile, error) {
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("%w: quantile %v not in [0, 1]", common.ErrorInvalidValue, p)
	}
	cdf, err := kde.Cdf()
	if err != nil {
		return nil, err
	}

	if p <= cdf[0].Value {
		return &model.ScoreQuantile{Quantile: p, Score: cdf[0].X}, nil
	}
	if p >= cdf[len(cdf)-1].Value {
		return &model.ScoreQuantile{Quantile: p, Score: cdf[len(cdf)-1].X}, nil
	}

	for i := 1; i < len(cdf); i++ {
		if cdf[i].Value > p {
			lowerX, lowerP := cdf[i-1].X, cdf[i-1].Value
			upperX, upperP := cdf[i].X, cdf[i].Value
			return &model.ScoreQuantile{
				Quantile: p,
				Score:    lowerX + (upperX-lowerX)*(p-lowerP)/(upperP-lowerP),
			}, nil
		}
	}
	return &model.ScoreQuantile{Quantile: p, Score: cdf[len(cdf)-1].X}, nil
}
