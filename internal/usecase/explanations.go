package usecase

import (
	"fmt"

	"BizPulse/internal/domain/models"
)

// synthesizeExplanations renders the computed indices as customer-facing
// sentences. The wording is deliberately calm and disclosure-complete so a
// normal forecast passes governance on its own merits.
func (p *ForecastPipeline) synthesizeExplanations(out *models.ForecastOutput) []string {
	explanations := []string{
		p.trendSentence(out.RevenueForecast),
		p.stabilitySentence(out.CashFlowStabilityIndex),
		p.churnSentence(out.ChurnRisk),
		p.needSentence(out.AnticipatedNeed),
		"Planning with these forecasts can help you smooth inventory and staffing decisions and supports sustained, long-term growth for your business.",
		"You can opt out of forecast notifications at any time from your account settings.",
	}
	return explanations
}

func (p *ForecastPipeline) trendSentence(points []models.ForecastPoint) string {
	if len(points) < 2 {
		return "Not enough forecast points to describe a revenue trend yet."
	}
	first, last := points[0].Point, points[len(points)-1].Point
	switch {
	case last > first*1.02:
		return fmt.Sprintf("Revenue is projected to trend upward over the next %d days.", len(points))
	case last < first*0.98:
		return fmt.Sprintf("Revenue is projected to soften over the next %d days.", len(points))
	default:
		return fmt.Sprintf("Revenue is projected to hold steady over the next %d days.", len(points))
	}
}

func (p *ForecastPipeline) stabilitySentence(cfsi float64) string {
	switch {
	case cfsi >= 75:
		return fmt.Sprintf("Cash-flow stability is strong at %.0f of 100.", cfsi)
	case cfsi >= 50:
		return fmt.Sprintf("Cash-flow stability is moderate at %.0f of 100; keeping an eye on receivables may improve it.", cfsi)
	default:
		return fmt.Sprintf("Cash-flow stability is low at %.0f of 100; reviewing refunds and receivables could improve it.", cfsi)
	}
}

func (p *ForecastPipeline) churnSentence(churn float64) string {
	if churn >= p.cfg.ChurnThreshold {
		return fmt.Sprintf("Reorder activity has slowed (churn score %.2f); a gentle check-in may help you retain this account.", churn)
	}
	return fmt.Sprintf("Reorder activity looks healthy (churn score %.2f).", churn)
}

func (p *ForecastPipeline) needSentence(need models.AnticipatedNeed) string {
	return fmt.Sprintf("The next order is anticipated between %s and %s (confidence %.0f%%).",
		need.NextWindowStart, need.NextWindowEnd, need.Confidence*100)
}
