package risk

import (
	"sort"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/services/features"
	"BizPulse/pkg/util"
)

// The fixed vocabulary of anticipated-need drivers. Signals outside this set
// are never emitted.
const (
	SignalConsistentCadence = "Consistent reorder cadence"
	SignalIncreasedEngage   = "Increased engagement"
	SignalRevenueGrowth     = "Revenue growth trend"
	SignalRisingLeads       = "Rising lead volume"
	SignalHistoricalPattern = "Historical order pattern"
	SignalLimitedHistory    = "Limited order history"
)

// Band half-width around the projected reorder date, as a fraction of the
// typical interval.
const needBandFraction = 0.2

// defaultIntervalDays stands in for the typical reorder interval when the
// history carries none.
const defaultIntervalDays = 30.0

const maxTopSignals = 3

// AnticipatedNeed projects the next likely reorder window from the historical
// reorder intervals. The window is a band around the median interval after
// the most recent order; confidence reflects how tight the intervals are.
func (ix *Indices) AnticipatedNeed(fs *models.FeatureSet) models.AnticipatedNeed {
	intervals := nonZero(fs.ReorderIntervals)

	interval := defaultIntervalDays
	confidence := ix.cfg.MinConfidence
	if len(intervals) > 0 {
		interval = median(intervals)
		cov := features.CoefficientOfVariation(intervals)
		confidence = clamp(1-cov, ix.cfg.MinConfidence, 1)
	}

	anchor := fs.LastDate()
	if i := lastOrderIndex(fs); i >= 0 {
		anchor = fs.Dates[i]
	}

	band := interval * needBandFraction
	start := anchor.AddDate(0, 0, int(interval-band+0.5))
	end := anchor.AddDate(0, 0, int(interval+band+0.5))
	if end.Before(start) {
		end = start
	}

	return models.AnticipatedNeed{
		NextWindowStart: util.FormatDay(start),
		NextWindowEnd:   util.FormatDay(end),
		Confidence:      confidence,
		TopSignals:      ix.topSignals(fs, intervals),
	}
}

// topSignals ranks which inputs drove the estimate, most influential first.
func (ix *Indices) topSignals(fs *models.FeatureSet, intervals []float64) []string {
	var signals []string

	if len(intervals) == 0 {
		signals = append(signals, SignalLimitedHistory)
	} else if features.CoefficientOfVariation(intervals) < 0.3 {
		signals = append(signals, SignalConsistentCadence)
	}

	if len(fs.Engagement) >= engagementWindow {
		recent := features.Mean(tail(fs.Engagement, engagementWindow))
		if baseline := features.Mean(fs.Engagement); baseline > 0 && recent > baseline {
			signals = append(signals, SignalIncreasedEngage)
		}
	}

	if n := len(fs.DailyRevenue); n >= 2*engagementWindow {
		recent := features.Mean(tail(fs.DailyRevenue, engagementWindow))
		prior := features.Mean(fs.DailyRevenue[:n-engagementWindow])
		if prior > 0 && recent > prior {
			signals = append(signals, SignalRevenueGrowth)
		}
	}

	if n := len(fs.LeadVolume); n >= 2*engagementWindow {
		recent := features.Mean(tail(fs.LeadVolume, engagementWindow))
		prior := features.Mean(fs.LeadVolume[:n-engagementWindow])
		if recent > prior {
			signals = append(signals, SignalRisingLeads)
		}
	}

	if len(signals) == 0 {
		signals = append(signals, SignalHistoricalPattern)
	}
	if len(signals) > maxTopSignals {
		signals = signals[:maxTopSignals]
	}
	return signals
}

func nonZero(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func median(data []float64) float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
