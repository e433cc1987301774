package features

import "testing"

func TestDetectSeasonalityPeriodicPattern(t *testing.T) {
	// repeating 7-day pattern, three full periods
	pattern := []float64{100, 80, 90, 110, 130, 150, 95}
	data := make([]float64, 0, len(pattern)*3)
	for i := 0; i < 3; i++ {
		data = append(data, pattern...)
	}

	report := DetectSeasonality(data, 7)
	if !report.HasSeasonality {
		t.Fatalf("expected seasonality, strength=%v", report.SeasonalStrength)
	}
	if report.SeasonalStrength <= 0 {
		t.Fatalf("expected positive strength, got %v", report.SeasonalStrength)
	}
	if len(report.SeasonalIndices) != 7 {
		t.Fatalf("expected 7 indices, got %d", len(report.SeasonalIndices))
	}
}

func TestDetectSeasonalityMonotonicSeries(t *testing.T) {
	data := make([]float64, 21)
	for i := range data {
		data[i] = 100 + float64(i)*10
	}

	report := DetectSeasonality(data, 7)
	if report.HasSeasonality {
		t.Fatalf("expected no seasonality for trend-only series")
	}
	if report.SeasonalStrength >= 0.1 {
		t.Fatalf("expected strength < 0.1, got %v", report.SeasonalStrength)
	}
}

func TestDetectSeasonalityShortSeries(t *testing.T) {
	report := DetectSeasonality([]float64{1, 2, 3}, 7)
	if report.HasSeasonality || report.SeasonalStrength != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
