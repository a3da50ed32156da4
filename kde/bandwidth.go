package kde

import (
	"fmt"
	"math"

	"github.com/uyouii/percentile-chart/common"
	"gonum.org/v1/gonum/stat"
)

type BandWidth interface {
	BandWidth(x []float64) (float64, error)
}

// NormalReferenceBandWidth is the rule of thumb C * min(std, iqr/1.349) * n^(-1/5).
type NormalReferenceBandWidth struct {
	kernel Kernel
}

func NewNormalReferenceBandWidth(kernel Kernel) *NormalReferenceBandWidth {
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &NormalReferenceBandWidth{
		kernel: kernel,
	}
}

// BandWidth expects x sorted ascending.
func (bw *NormalReferenceBandWidth) BandWidth(x []float64) (float64, error) {
	C := bw.kernel.NormalReferenceConstant()
	A := selectSigma(x)
	if A == 0 || math.IsNaN(A) {
		return 0, fmt.Errorf("%w: samples have no spread", common.ErrorInvalidValue)
	}
	return C * A * math.Pow(float64(len(x)), -0.2), nil
}

func selectSigma(x []float64) float64 {
	normalize := 1.349

	q75 := stat.Quantile(0.75, stat.Empirical, x, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, x, nil)
	iqr := (q75 - q25) / normalize

	stdDev := stat.StdDev(x, nil)

	if iqr > 0 {
		return math.Min(stdDev, iqr)
	}
	return stdDev
}
