package risk

import (
	"BizPulse/internal/domain/models"
	"BizPulse/internal/services/features"
	"BizPulse/pkg/config"
)

// Sub-score weights for the Cash-Flow Stability Index. They sum to 1, so the
// composite stays in [0,100] whenever every sub-score does.
const (
	weightVolatility    = 0.25
	weightOnTime        = 0.20
	weightAging         = 0.15
	weightRefunds       = 0.15
	weightConcentration = 0.15
	weightShippingMix   = 0.10
)

// Normalization scales for the raw inputs behind the sub-scores.
const (
	volatilityScale = 1.0  // coefficient of variation at or above 1 scores 0
	agingScaleDays  = 60.0 // receivables aging of 60+ days scores 0
	refundRateScale = 0.2  // refunds at 20%+ of revenue score 0
)

// cfsiWindow bounds how much recent history feeds the volatility sub-score.
const cfsiWindow = 30

// Indices derives the risk metrics of a feature set. Horizon-independent:
// computed once per pipeline run.
type Indices struct {
	cfg config.ModelConfig
}

func NewIndices(cfg config.ModelConfig) *Indices {
	return &Indices{cfg: cfg}
}

// CFSI computes the Cash-Flow Stability Index in [0,100]. Higher is more
// stable. Missing inputs score neutrally at 50 rather than dragging the
// composite to an extreme.
func (ix *Indices) CFSI(fs *models.FeatureSet) float64 {
	scores := []struct {
		value  float64
		weight float64
	}{
		{ix.volatilityScore(fs.DailyRevenue), weightVolatility},
		{ix.onTimeScore(fs.OnTimePercentage), weightOnTime},
		{ix.agingScore(fs.ReceivablesAging), weightAging},
		{ix.refundScore(fs.Refunds, fs.DailyRevenue), weightRefunds},
		{ix.concentrationScore(fs.TopCustomerShare), weightConcentration},
		{ix.shippingMixScore(fs.RushShare), weightShippingMix},
	}
	var total float64
	for _, s := range scores {
		total += s.value * s.weight
	}
	return clamp(total, 0, 100)
}

func (ix *Indices) volatilityScore(revenue []float64) float64 {
	recent := tail(revenue, cfsiWindow)
	if len(recent) < 2 {
		return 50
	}
	cov := features.CoefficientOfVariation(recent)
	return clamp(100*(1-cov/volatilityScale), 0, 100)
}

func (ix *Indices) onTimeScore(onTime []float64) float64 {
	if len(onTime) == 0 {
		return 50
	}
	return clamp(features.Mean(tail(onTime, cfsiWindow)), 0, 100)
}

func (ix *Indices) agingScore(aging []float64) float64 {
	if len(aging) == 0 {
		return 50
	}
	days := aging[len(aging)-1]
	return clamp(100*(1-days/agingScaleDays), 0, 100)
}

func (ix *Indices) refundScore(refunds, revenue []float64) float64 {
	totalRevenue := sum(tail(revenue, cfsiWindow))
	if totalRevenue <= 0 {
		return 50
	}
	rate := sum(tail(refunds, cfsiWindow)) / totalRevenue
	return clamp(100*(1-rate/refundRateScale), 0, 100)
}

func (ix *Indices) concentrationScore(share []float64) float64 {
	if len(share) == 0 {
		return 50
	}
	return clamp(100*(1-share[len(share)-1]), 0, 100)
}

func (ix *Indices) shippingMixScore(rush []float64) float64 {
	if len(rush) == 0 {
		return 50
	}
	return clamp(100*(1-features.Mean(tail(rush, cfsiWindow))), 0, 100)
}

func tail(data []float64, n int) []float64 {
	if len(data) <= n {
		return data
	}
	return data[len(data)-n:]
}

func sum(data []float64) float64 {
	var s float64
	for _, v := range data {
		s += v
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
