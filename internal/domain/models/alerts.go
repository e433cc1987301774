package models

// Severity ranks an alert for the consumer; it never gates firing.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Action names the delivery channel implied by a fired rule. Dispatch itself
// is handled by external workers.
type Action string

const (
	ActionEmail   Action = "email"
	ActionHubspot Action = "hubspot"
	ActionWebhook Action = "webhook"
)

// Alert rule conditions evaluated against a completed forecast.
const (
	ConditionChurnAbove         = "churn_risk_above"
	ConditionCFSIBelow          = "cfsi_below"
	ConditionRevenueDropPct     = "revenue_drop_pct"
	ConditionNeedConfidence     = "need_confidence_above"
	ConditionCreatorCheckFailed = "creator_check_failed"
)

// AlertRule is static configuration, read-only at evaluation time.
type AlertRule struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Condition string   `json:"condition"`
	Threshold float64  `json:"threshold"`
	Severity  Severity `json:"severity"`
	Action    Action   `json:"action"`
	Enabled   bool     `json:"enabled"`
}

// AlertEvaluation is the typed decision produced by evaluating all enabled
// rules against one forecast.
type AlertEvaluation struct {
	Triggered    []string     `json:"triggered"`
	Actions      []string     `json:"actions"`
	CreatorCheck CreatorCheck `json:"creatorCheck"`
}
