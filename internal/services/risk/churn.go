package risk

import (
	"math"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/services/features"
)

// Churn component weights. They sum to 1 before the persona multiplier is
// applied; the final score is clamped back into [0,1].
const (
	weightRecency    = 0.30
	weightFrequency  = 0.25
	weightEngagement = 0.30
	weightMonetary   = 0.15
)

// recencySaturationDays controls how fast the recency component saturates:
// risk = 1 - exp(-days/recencySaturationDays).
const recencySaturationDays = 30.0

// engagementWindow is the recent slice compared against the trailing baseline.
const engagementWindow = 7

// personaMultipliers scale churn risk per customer segment. Unknown personas
// get the neutral multiplier 1.
var personaMultipliers = map[string]float64{
	"contractor":       1.0,
	"homeowner":        1.2,
	"property_manager": 0.8,
	"reseller":         0.9,
}

// ChurnRisk computes the RFM-style churn score in [0,1] for the persona.
func (ix *Indices) ChurnRisk(fs *models.FeatureSet, persona string) float64 {
	score := weightRecency*ix.recencyRisk(fs) +
		weightFrequency*ix.frequencyRisk(fs) +
		weightEngagement*ix.engagementRisk(fs) +
		weightMonetary*ix.monetaryRisk(fs)

	mult, ok := personaMultipliers[persona]
	if !ok {
		mult = 1.0
	}
	return clamp(score*mult, 0, 1)
}

// recencyRisk grows with days since the last reorder and saturates toward 1.
func (ix *Indices) recencyRisk(fs *models.FeatureSet) float64 {
	last := lastOrderIndex(fs)
	if last < 0 {
		return 0.5
	}
	days := float64(fs.Len() - 1 - last)
	return 1 - math.Exp(-days/recencySaturationDays)
}

// frequencyRisk shrinks as the monthly order rate grows.
func (ix *Indices) frequencyRisk(fs *models.FeatureSet) float64 {
	if fs.Len() == 0 {
		return 0.5
	}
	months := float64(fs.Len()) / 30.0
	perMonth := sum(fs.Reorders) / months
	return 1 / (1 + perMonth)
}

// engagementRisk measures the drop of recent engagement against a trailing
// baseline. Rising engagement scores 0.
func (ix *Indices) engagementRisk(fs *models.FeatureSet) float64 {
	if len(fs.Engagement) < engagementWindow {
		return 0.5
	}
	recent := features.Mean(tail(fs.Engagement, engagementWindow))
	baseline := features.Mean(fs.Engagement)
	if baseline <= 0 {
		return 0.5
	}
	return clamp((baseline-recent)/baseline, 0, 1)
}

// monetaryRisk measures recent revenue against the full-history mean.
func (ix *Indices) monetaryRisk(fs *models.FeatureSet) float64 {
	if len(fs.DailyRevenue) < cfsiWindow/2 {
		return 0.5
	}
	recent := features.Mean(tail(fs.DailyRevenue, cfsiWindow))
	overall := features.Mean(fs.DailyRevenue)
	if overall <= 0 {
		return 0.5
	}
	return clamp(1-recent/overall, 0, 1)
}

// lastOrderIndex returns the index of the most recent day with a reorder, or
// -1 when the history has none.
func lastOrderIndex(fs *models.FeatureSet) int {
	for i := len(fs.Reorders) - 1; i >= 0; i-- {
		if fs.Reorders[i] > 0 {
			return i
		}
	}
	return -1
}
