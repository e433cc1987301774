package features

import (
	"math"
	"testing"
)

func TestRollingStatsShortData(t *testing.T) {
	rs := CalculateRollingStats([]float64{1, 2}, 5)
	if len(rs.Mean) != 0 || len(rs.Std) != 0 || len(rs.Variance) != 0 {
		t.Fatalf("expected empty stats, got %+v", rs)
	}
}

func TestRollingStatsLength(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	rs := CalculateRollingStats(data, 3)
	want := len(data) - 3 + 1
	if len(rs.Mean) != want {
		t.Fatalf("expected %d means, got %d", want, len(rs.Mean))
	}
	if len(rs.Std) != want || len(rs.Variance) != want {
		t.Fatalf("expected %d std/variance, got %d/%d", want, len(rs.Std), len(rs.Variance))
	}
}

func TestRollingStatsValues(t *testing.T) {
	rs := CalculateRollingStats([]float64{2, 4, 6}, 3)
	if len(rs.Mean) != 1 {
		t.Fatalf("expected one window, got %d", len(rs.Mean))
	}
	if math.Abs(rs.Mean[0]-4) > 1e-9 {
		t.Fatalf("expected mean 4, got %v", rs.Mean[0])
	}
	// population variance of {2,4,6} is 8/3
	if math.Abs(rs.Variance[0]-8.0/3.0) > 1e-9 {
		t.Fatalf("expected variance 8/3, got %v", rs.Variance[0])
	}
	if math.Abs(rs.Std[0]-math.Sqrt(8.0/3.0)) > 1e-9 {
		t.Fatalf("expected std sqrt(8/3), got %v", rs.Std[0])
	}
}

func TestRollingStatsConstantSeries(t *testing.T) {
	rs := CalculateRollingStats([]float64{5, 5, 5, 5}, 2)
	for i, v := range rs.Variance {
		if v != 0 {
			t.Fatalf("window %d: expected zero variance, got %v", i, v)
		}
	}
}
