package forecast

// zScore maps a two-sided confidence level to its normal quantile. Levels
// outside the table round to the nearest supported entry.
func zScore(confidence float64) float64 {
	table := []struct {
		level float64
		z     float64
	}{
		{0.50, 0.674},
		{0.80, 1.282},
		{0.90, 1.645},
		{0.95, 1.960},
		{0.99, 2.576},
	}
	best := table[0]
	for _, e := range table[1:] {
		if abs(confidence-e.level) < abs(confidence-best.level) {
			best = e
		}
	}
	return best.z
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
