package features

import (
	"math"

	"BizPulse/internal/domain/models"
)

// CalculateRollingStats computes windowed mean, population std and variance.
// Each output sequence has length len(data)-window+1. Data shorter than the
// window yields empty sequences, not an error.
func CalculateRollingStats(data []float64, window int) models.RollingStats {
	if window <= 0 || len(data) < window {
		return models.RollingStats{
			Mean:     []float64{},
			Std:      []float64{},
			Variance: []float64{},
		}
	}

	n := len(data) - window + 1
	out := models.RollingStats{
		Mean:     make([]float64, 0, n),
		Std:      make([]float64, 0, n),
		Variance: make([]float64, 0, n),
	}

	for i := 0; i < n; i++ {
		sum := 0.0
		sum2 := 0.0
		for j := i; j < i+window; j++ {
			sum += data[j]
			sum2 += data[j] * data[j]
		}
		w := float64(window)
		mean := sum / w
		variance := sum2/w - mean*mean
		if variance < 0 {
			variance = 0
		}
		out.Mean = append(out.Mean, mean)
		out.Variance = append(out.Variance, variance)
		out.Std = append(out.Std, math.Sqrt(variance))
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Variance returns the population variance, or 0 for an empty slice.
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := Mean(data)
	sum := 0.0
	for _, v := range data {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(data))
}

// Std returns the population standard deviation.
func Std(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// CoefficientOfVariation returns std/mean, or 0 when the mean is zero.
func CoefficientOfVariation(data []float64) float64 {
	m := Mean(data)
	if m == 0 {
		return 0
	}
	return Std(data) / math.Abs(m)
}
