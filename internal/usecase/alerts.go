package usecase

import (
	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
	"BizPulse/pkg/config"
	"BizPulse/pkg/logger"
)

// AlertChecker evaluates a completed forecast against the configured rules.
// Pure decision logic: no dispatch happens here, the fired actions are handed
// to an external sink.
type AlertChecker struct {
	rules   []models.AlertRule
	log     *logger.Logger
	metrics repository.Metrics
}

func NewAlertChecker(rules []config.AlertRuleConfig, log *logger.Logger, metrics repository.Metrics) *AlertChecker {
	converted := make([]models.AlertRule, 0, len(rules))
	for _, r := range rules {
		converted = append(converted, models.AlertRule{
			ID:        r.ID,
			Name:      r.Name,
			Condition: r.Condition,
			Threshold: r.Threshold,
			Severity:  models.Severity(r.Severity),
			Action:    models.Action(r.Action),
			Enabled:   r.Enabled,
		})
	}
	return &AlertChecker{rules: converted, log: log, metrics: metrics}
}

// CheckAlerts evaluates every enabled rule. Severity never gates firing; it
// rides along for the consumer to prioritize.
func (a *AlertChecker) CheckAlerts(forecast *models.ForecastOutput) *models.AlertEvaluation {
	eval := &models.AlertEvaluation{
		Triggered:    []string{},
		Actions:      []string{},
		CreatorCheck: forecast.CreatorCheck,
	}

	seenActions := make(map[string]struct{})
	for _, rule := range a.rules {
		if !rule.Enabled || !a.fires(rule, forecast) {
			continue
		}
		eval.Triggered = append(eval.Triggered, rule.ID)
		a.metrics.RecordAlertFired(rule.ID, string(rule.Severity))
		action := string(rule.Action)
		if _, dup := seenActions[action]; !dup {
			seenActions[action] = struct{}{}
			eval.Actions = append(eval.Actions, action)
		}
	}

	if len(eval.Triggered) > 0 {
		a.log.Info("alerts fired",
			logger.String("persona", forecast.Persona),
			logger.Strings("rules", eval.Triggered))
	}
	return eval
}

func (a *AlertChecker) fires(rule models.AlertRule, f *models.ForecastOutput) bool {
	switch rule.Condition {
	case models.ConditionChurnAbove:
		return f.ChurnRisk > rule.Threshold
	case models.ConditionCFSIBelow:
		return f.CashFlowStabilityIndex < rule.Threshold
	case models.ConditionRevenueDropPct:
		return revenueDropPct(f.RevenueForecast) > rule.Threshold
	case models.ConditionNeedConfidence:
		return f.AnticipatedNeed.Confidence > rule.Threshold
	case models.ConditionCreatorCheckFailed:
		return !f.CreatorCheck.Passed
	default:
		a.log.Warn("unknown alert condition", logger.String("rule", rule.ID), logger.String("condition", rule.Condition))
		return false
	}
}

// revenueDropPct is the percent decline from the first to the last forecast
// point; 0 when the forecast is flat, rising or too short.
func revenueDropPct(points []models.ForecastPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	first, last := points[0].Point, points[len(points)-1].Point
	if first <= 0 || last >= first {
		return 0
	}
	return (first - last) / first * 100
}
