package service

import (
	"time"

	"BizPulse/internal/domain/models"
)

// ForecastModel is the common contract of the competing forecast strategies.
// Fit consumes a plain daily series (one value per day, caller-guaranteed)
// and returns model-specific fitted state; the state is only ever used
// through Forecast.
type ForecastModel interface {
	Name() string
	Fit(series []float64) (ModelFit, error)
}

// ModelFit is fitted model state. Forecast produces horizonDays points whose
// dates are the consecutive calendar days after lastDate, with confidence
// bounds at the requested level.
type ModelFit interface {
	Forecast(lastDate time.Time, horizonDays int, confidenceLevel float64) []models.ForecastPoint
}

// Governance validates forecast explanation text before display.
type Governance interface {
	RunCreatorCheck(forecast *models.ForecastOutput) models.CreatorCheck
}
