package kde

const (
	// samples further than this many standard deviations from the mean are dropped
	ClipZScore = 3.0

	KdeMinCalculatePointCnt = 5

	// grid length past the extreme samples, in bandwidths
	DefaultCut = 3.0
	// integration nodes per cdf grid interval
	CdfQuadratureNodes = 50
	MinGridSize        = 100

	DefaultDistributionGridSize = 21
	DefaultDistributionPeak     = 90.0
	DistributionPrecision       = 3
)

// quartiles reported next to an estimated distribution
var DefaultScoreQuantiles = []float64{0.25, 0.5, 0.75}
