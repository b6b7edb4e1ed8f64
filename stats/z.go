package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	zValue := dist.Quantile(area)
	return zValue
}

// MeanCI returns the confidence interval around the statistic's mean at
// the given confidence level (0 to 100 percent).
func (s *Statistic) MeanCI(confidenceInterval float64) (lo, hi float64) {
	m := s.Mean()
	if s.totalRuns <= 1 {
		return m, m
	}
	margin := ZVal(confidenceInterval) * s.StandardError()
	return m - margin, m + margin
}
