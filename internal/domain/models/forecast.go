package models

import (
	"fmt"
	"time"
)

// Horizon is a supported forecast length.
type Horizon string

const (
	Horizon14d Horizon = "14d"
	Horizon30d Horizon = "30d"
	Horizon60d Horizon = "60d"
)

// Days returns the horizon length in days.
func (h Horizon) Days() int {
	switch h {
	case Horizon14d:
		return 14
	case Horizon30d:
		return 30
	case Horizon60d:
		return 60
	default:
		return 0
	}
}

// ParseHorizon validates a raw horizon string.
func ParseHorizon(s string) (Horizon, error) {
	h := Horizon(s)
	switch h {
	case Horizon14d, Horizon30d, Horizon60d:
		return h, nil
	default:
		return "", fmt.Errorf("unknown horizon %q (want 14d, 30d or 60d)", s)
	}
}

// ForecastPoint is one forecasted day with its confidence interval.
// Invariant: CILow <= Point <= CIHigh.
type ForecastPoint struct {
	Date   string  `json:"date"`
	Point  float64 `json:"point"`
	CILow  float64 `json:"ciLow"`
	CIHigh float64 `json:"ciHigh"`
}

// AnticipatedNeed is the predicted window of the next likely reorder.
type AnticipatedNeed struct {
	NextWindowStart string   `json:"nextWindowStart"`
	NextWindowEnd   string   `json:"nextWindowEnd"`
	Confidence      float64  `json:"confidence"`
	TopSignals      []string `json:"topSignals"`
}

// CreatorCheck is the outcome of the governance gate over explanation text.
// Notes is non-empty whenever a check ran: either violation reasons or
// positive confirmations.
type CreatorCheck struct {
	Passed bool     `json:"passed"`
	Notes  []string `json:"notes"`
}

// ForecastOutput is the aggregate forecast document returned to callers.
// Created once per pipeline invocation and immutable thereafter.
type ForecastOutput struct {
	GeneratedAt            time.Time                  `json:"generatedAt"`
	Horizons               []string                   `json:"horizons"`
	Persona                string                     `json:"persona"`
	RevenueForecast        []ForecastPoint            `json:"revenueForecast"`
	HorizonForecasts       map[string][]ForecastPoint `json:"horizonForecasts,omitempty"`
	CashFlowStabilityIndex float64                    `json:"cashFlowStabilityIndex"`
	ChurnRisk              float64                    `json:"churnRisk"`
	AnticipatedNeed        AnticipatedNeed            `json:"anticipatedNeed"`
	Explanations           []string                   `json:"explanations"`
	CreatorCheck           CreatorCheck               `json:"creatorCheck"`
}
