package forecast

import (
	"math"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/service"
	"BizPulse/internal/services/features"
	"BizPulse/pkg/util"
)

const etsModelName = "ets_lite"

// ETSLite is a Holt-Winters additive model with level, trend and a seasonal
// component. The seasonal term is only carried when the series actually shows
// periodic structure; otherwise the fit degrades to plain Holt level/trend,
// which keeps trending series from inheriting phantom seasonality. Needs at
// least two full cycles to initialize either way.
type ETSLite struct {
	alpha  float64
	beta   float64
	gamma  float64
	period int
}

func NewETSLite(alpha, beta, gamma float64, period int) *ETSLite {
	if period < 2 {
		period = 7
	}
	return &ETSLite{alpha: alpha, beta: beta, gamma: gamma, period: period}
}

func (m *ETSLite) Name() string { return etsModelName }

func (m *ETSLite) Fit(series []float64) (service.ModelFit, error) {
	minLen := 2 * m.period
	if len(series) < minLen {
		return nil, &InsufficientDataError{Model: etsModelName, Minimum: minLen, Got: len(series)}
	}

	if features.DetectSeasonality(series, m.period).HasSeasonality {
		return m.fitSeasonal(series), nil
	}
	return m.fitTrend(series), nil
}

func (m *ETSLite) fitSeasonal(series []float64) *etsFit {
	p := m.period
	level := mean(series[:p])
	next := mean(series[p : 2*p])
	trend := (next - level) / float64(p)

	seasonal := make([]float64, p)
	for i := 0; i < p; i++ {
		seasonal[i] = series[i] - level
	}

	var sumSq float64
	for t := 0; t < len(series); t++ {
		s := t % p
		fitted := level + trend + seasonal[s]
		resid := series[t] - fitted
		sumSq += resid * resid

		prevLevel := level
		level = m.alpha*(series[t]-seasonal[s]) + (1-m.alpha)*(level+trend)
		trend = m.beta*(level-prevLevel) + (1-m.beta)*trend
		seasonal[s] = m.gamma*(series[t]-level) + (1-m.gamma)*seasonal[s]
	}

	return &etsFit{
		level:    level,
		trend:    trend,
		seasonal: seasonal,
		resStd:   math.Sqrt(sumSq / float64(len(series))),
		n:        len(series),
	}
}

func (m *ETSLite) fitTrend(series []float64) *etsFit {
	level := series[0]
	trend := series[1] - series[0]

	var sumSq float64
	for t := 1; t < len(series); t++ {
		fitted := level + trend
		resid := series[t] - fitted
		sumSq += resid * resid

		prevLevel := level
		level = m.alpha*series[t] + (1-m.alpha)*(level+trend)
		trend = m.beta*(level-prevLevel) + (1-m.beta)*trend
	}

	return &etsFit{
		level:  level,
		trend:  trend,
		resStd: math.Sqrt(sumSq / float64(len(series)-1)),
		n:      len(series),
	}
}

type etsFit struct {
	level    float64
	trend    float64
	seasonal []float64 // nil when the series showed no seasonality
	resStd   float64
	n        int
}

func (f *etsFit) Forecast(lastDate time.Time, horizonDays int, confidenceLevel float64) []models.ForecastPoint {
	z := zScore(confidenceLevel)
	points := make([]models.ForecastPoint, 0, horizonDays)
	for h := 1; h <= horizonDays; h++ {
		point := f.level + float64(h)*f.trend
		if p := len(f.seasonal); p > 0 {
			point += f.seasonal[(f.n+h-1)%p]
		}
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

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}
