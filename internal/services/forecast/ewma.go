package forecast

import (
	"math"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/service"
	"BizPulse/pkg/util"
)

const ewmaModelName = "ewma"

// driftWindow bounds how far back the smoothed slope looks.
const driftWindow = 7

// EWMA is the robust fallback model: exponentially weighted smoothing with a
// short-window drift term. It fits any non-empty series, which keeps the
// ensemble alive for sparse histories.
type EWMA struct {
	alpha float64
}

func NewEWMA(alpha float64) *EWMA {
	return &EWMA{alpha: alpha}
}

func (m *EWMA) Name() string { return ewmaModelName }

func (m *EWMA) Fit(series []float64) (service.ModelFit, error) {
	if len(series) == 0 {
		return nil, &InsufficientDataError{Model: ewmaModelName, Minimum: 1, Got: 0}
	}

	smoothed := make([]float64, len(series))
	smoothed[0] = series[0]
	var sumSq float64
	var count int
	for t := 1; t < len(series); t++ {
		resid := series[t] - smoothed[t-1]
		sumSq += resid * resid
		count++
		smoothed[t] = m.alpha*series[t] + (1-m.alpha)*smoothed[t-1]
	}

	resStd := 0.0
	if count > 0 {
		resStd = math.Sqrt(sumSq / float64(count))
	}

	drift := 0.0
	if n := len(smoothed); n >= 2 {
		back := driftWindow
		if back > n-1 {
			back = n - 1
		}
		drift = (smoothed[n-1] - smoothed[n-1-back]) / float64(back)
	}

	return &ewmaFit{
		last:   smoothed[len(smoothed)-1],
		drift:  drift,
		resStd: resStd,
	}, nil
}

type ewmaFit struct {
	last   float64
	drift  float64
	resStd float64
}

func (f *ewmaFit) Forecast(lastDate time.Time, horizonDays int, confidenceLevel float64) []models.ForecastPoint {
	z := zScore(confidenceLevel)
	points := make([]models.ForecastPoint, 0, horizonDays)
	for h := 1; h <= horizonDays; h++ {
		point := f.last + float64(h)*f.drift
		half := z * f.resStd * math.Sqrt(float64(h))
		points = append(points, models.ForecastPoint{
			Date:   util.FormatDay(lastDate.AddDate(0, 0, h)),
			Point:  point,
			CILow:  point - half,
			CIHigh: point + half,
		})
	}
	return points
}
