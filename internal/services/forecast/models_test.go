package forecast

import (
	"errors"
	"math"
	"testing"
	"time"
)

var testLastDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func linearSeries(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestETSLiteRejectsShortSeries(t *testing.T) {
	m := NewETSLite(0.3, 0.1, 0.2, 7)
	_, err := m.Fit(linearSeries(100, 1, 13))
	if err == nil {
		t.Fatal("expected error for series shorter than two seasonal cycles")
	}
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %T", err)
	}
	if ide.Minimum != 14 || ide.Got != 13 {
		t.Fatalf("unexpected bounds in error: %+v", ide)
	}
}

func TestETSLiteTrendingSeries(t *testing.T) {
	m := NewETSLite(0.3, 0.1, 0.2, 7)
	fit, err := m.Fit(linearSeries(100, 10, 21))
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	points := fit.Forecast(testLastDate, 14, 0.8)
	if len(points) != 14 {
		t.Fatalf("expected 14 points, got %d", len(points))
	}
	if points[0].Date != "2026-03-02" {
		t.Fatalf("first forecast date = %s, want 2026-03-02", points[0].Date)
	}
	if points[13].Date != "2026-03-15" {
		t.Fatalf("last forecast date = %s, want 2026-03-15", points[13].Date)
	}
	// An upward ramp keeps trending upward.
	if points[13].Point <= points[0].Point {
		t.Fatalf("expected increasing forecast, first=%f last=%f", points[0].Point, points[13].Point)
	}
	for i, p := range points {
		if p.CILow > p.Point || p.Point > p.CIHigh {
			t.Fatalf("point %d violates ciLow <= point <= ciHigh: %+v", i, p)
		}
	}
}

func TestETSLiteIntervalsWiden(t *testing.T) {
	m := NewETSLite(0.3, 0.1, 0.2, 7)
	series := []float64{10, 20, 15, 25, 12, 22, 18, 11, 21, 16, 26, 13, 23, 19}
	fit, err := m.Fit(series)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	points := fit.Forecast(testLastDate, 14, 0.8)
	firstWidth := points[0].CIHigh - points[0].CILow
	lastWidth := points[13].CIHigh - points[13].CILow
	if lastWidth <= firstWidth {
		t.Fatalf("expected intervals to widen: first=%f last=%f", firstWidth, lastWidth)
	}
}

func TestEWMAFitsTwoPoints(t *testing.T) {
	m := NewEWMA(0.35)
	fit, err := m.Fit([]float64{100, 110})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	points := fit.Forecast(testLastDate, 14, 0.8)
	if len(points) != 14 {
		t.Fatalf("expected 14 points, got %d", len(points))
	}
	for i, p := range points {
		if p.CILow > p.Point || p.Point > p.CIHigh {
			t.Fatalf("point %d violates interval invariant: %+v", i, p)
		}
	}
}

func TestEWMARejectsEmptySeries(t *testing.T) {
	m := NewEWMA(0.35)
	if _, err := m.Fit(nil); err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestEWMAConstantSeries(t *testing.T) {
	m := NewEWMA(0.35)
	fit, err := m.Fit([]float64{50, 50, 50, 50, 50, 50, 50, 50})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	points := fit.Forecast(testLastDate, 5, 0.8)
	for i, p := range points {
		if math.Abs(p.Point-50) > 1e-9 {
			t.Fatalf("point %d = %f, want 50 for constant series", i, p.Point)
		}
		if math.Abs(p.CIHigh-p.CILow) > 1e-9 {
			t.Fatalf("point %d should have zero-width interval, got %+v", i, p)
		}
	}
}

func TestARLiteRejectsSeriesAtOrder(t *testing.T) {
	m := NewARLite(3)
	_, err := m.Fit([]float64{1, 2, 3})
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if ide.Minimum != 4 {
		t.Fatalf("minimum = %d, want 4 for order 3", ide.Minimum)
	}
}

func TestARLiteRecoversLinearTrend(t *testing.T) {
	m := NewARLite(3)
	fit, err := m.Fit(linearSeries(100, 5, 30))
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	points := fit.Forecast(testLastDate, 5, 0.8)
	// AR with intercept fits an exact linear recurrence, so the
	// continuation stays on the ramp.
	last := 100.0 + 5*29
	for i, p := range points {
		want := last + 5*float64(i+1)
		if math.Abs(p.Point-want) > 1.0 {
			t.Fatalf("point %d = %f, want about %f", i, p.Point, want)
		}
	}
}

func TestARLiteConstantSeries(t *testing.T) {
	// Constant history makes the lag columns collinear with the
	// intercept; the regularized fit still returns the constant.
	m := NewARLite(3)
	fit, err := m.Fit([]float64{5, 5, 5, 5, 5, 5, 5, 5})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	points := fit.Forecast(testLastDate, 5, 0.8)
	for i, p := range points {
		if math.Abs(p.Point-5) > 0.01 {
			t.Fatalf("point %d = %f, want 5 for constant series", i, p.Point)
		}
	}
}

func TestZScoreNearestLevel(t *testing.T) {
	if z := zScore(0.8); z != 1.282 {
		t.Fatalf("zScore(0.8) = %f", z)
	}
	if z := zScore(0.96); z != 1.960 {
		t.Fatalf("zScore(0.96) = %f, want nearest entry 1.960", z)
	}
}
