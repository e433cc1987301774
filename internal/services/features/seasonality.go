package features

import "BizPulse/internal/domain/models"

// seasonalityThreshold separates detectable periodic structure from noise.
const seasonalityThreshold = 0.1

// DetectSeasonality buckets the series by index mod period, takes each
// bucket's mean as the seasonal index, and compares the variance of the
// indices to the variance of the series. The ratio, clipped to [0,1], is the
// seasonal strength. The series is linearly detrended first so a plain trend
// does not register as a weekly cycle.
func DetectSeasonality(data []float64, period int) models.SeasonalityReport {
	report := models.SeasonalityReport{
		SeasonalIndices: make([]float64, 0, period),
	}
	if period <= 0 || len(data) < period {
		return report
	}

	detrended := detrend(data)

	sums := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		sums[i%period] += v
		counts[i%period]++
	}
	for i := 0; i < period; i++ {
		idx := 0.0
		if counts[i] > 0 {
			idx = sums[i] / float64(counts[i])
		}
		report.SeasonalIndices = append(report.SeasonalIndices, idx)
	}

	totalVar := Variance(detrended)
	if totalVar <= 1e-12 {
		return report
	}

	strength := Variance(report.SeasonalIndices) / totalVar
	if strength > 1 {
		strength = 1
	}
	report.SeasonalStrength = strength
	report.HasSeasonality = strength > seasonalityThreshold
	return report
}

// detrend removes the straight line between the series endpoints.
func detrend(data []float64) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n < 2 {
		copy(out, data)
		return out
	}
	slope := (data[n-1] - data[0]) / float64(n-1)
	for i, v := range data {
		out[i] = v - slope*float64(i)
	}
	return out
}
