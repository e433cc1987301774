package models

import "time"

// FeatureSet is the canonical aligned view over the raw domain records:
// every numeric sequence has exactly one value per entry of Dates. Produced
// fresh per pipeline run; never persisted.
type FeatureSet struct {
	Dates []time.Time `json:"dates"`

	DailyRevenue     []float64 `json:"dailyRevenue"`
	GrossMargin      []float64 `json:"grossMargin"`
	Refunds          []float64 `json:"refunds"`
	LeadVolume       []float64 `json:"leadVolume"`
	Reorders         []float64 `json:"reorders"`
	ReorderIntervals []float64 `json:"reorderIntervals"`
	SLAPromiseMet    []float64 `json:"slaPromiseMet"`
	OnTimePercentage []float64 `json:"onTimePercentage"`
	RushShare        []float64 `json:"rushShare"`
	ReceivablesAging []float64 `json:"receivablesAging"`
	TopCustomerShare []float64 `json:"topCustomerShare"`
	Engagement       []float64 `json:"engagement"`

	PersonaMix map[string]float64 `json:"personaMix"`
	ProductMix map[string]float64 `json:"productMix"`
}

// LastDate returns the most recent observed date, or zero when empty.
func (f *FeatureSet) LastDate() time.Time {
	if len(f.Dates) == 0 {
		return time.Time{}
	}
	return f.Dates[len(f.Dates)-1]
}

// Len returns the number of aligned observations.
func (f *FeatureSet) Len() int { return len(f.Dates) }

// RollingStats holds windowed statistics over one numeric sequence. All three
// slices have length len(data)-window+1, or zero when the data is shorter
// than the window.
type RollingStats struct {
	Mean     []float64 `json:"mean"`
	Std      []float64 `json:"std"`
	Variance []float64 `json:"variance"`
}

// SeasonalityReport describes detected periodic structure in a series.
type SeasonalityReport struct {
	HasSeasonality   bool      `json:"hasSeasonality"`
	SeasonalStrength float64   `json:"seasonalStrength"`
	SeasonalIndices  []float64 `json:"seasonalIndices"`
}
