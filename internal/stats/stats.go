// Package stats implements the incremental mean/variance estimator used to
// track the ETF-future price spread. Updates are O(1) per sample with no
// history buffer beyond the counters themselves.
package stats

import "math"

// UpdateVariance folds one new sample into a population variance using the
// mean from BEFORE the sample was applied. n is the number of samples
// already folded in; n=0 is valid and yields (newValue-oldMean)^2.
func UpdateVariance(oldVariance, oldMean float64, n int64, newValue float64) float64 {
	d := newValue - oldMean
	return (oldVariance*float64(n) + d*d) / float64(n+1)
}

// UpdateMean folds one new sample into a running arithmetic mean.
func UpdateMean(oldMean float64, n int64, newValue float64) float64 {
	return (oldMean*float64(n) + newValue) / float64(n+1)
}

// SpreadStats tracks the running mean and standard deviation of the spread.
// State is stored as a standard deviation, so Observe re-derives the
// variance by squaring before the update and takes the square root after.
type SpreadStats struct {
	Count int64
	Mean  float64
	Std   float64
}

// Observe folds one spread sample into the estimator. The variance must be
// advanced with the previous mean before the mean itself moves; swapping
// the two updates breaks the online-variance recurrence.
func (s *SpreadStats) Observe(spread float64) {
	s.Std = math.Sqrt(UpdateVariance(s.Std*s.Std, s.Mean, s.Count, spread))
	s.Mean = UpdateMean(s.Mean, s.Count, spread)
	s.Count++
}

// Upper returns the mean + 2 sigma threshold.
func (s *SpreadStats) Upper() float64 { return s.Mean + 2*s.Std }

// Lower returns the mean - 2 sigma threshold.
func (s *SpreadStats) Lower() float64 { return s.Mean - 2*s.Std }
