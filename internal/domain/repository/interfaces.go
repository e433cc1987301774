package repository

import (
	"context"
	"time"

	"BizPulse/internal/domain/models"
)

// RecordSource supplies raw daily business records for a lookback window.
// Implemented by the warehouse adapter; the pipeline never talks to storage
// directly.
type RecordSource interface {
	FetchRecords(ctx context.Context, from, to time.Time) (*models.RawRecords, error)
}

// AlertSink receives fired alert decisions for external delivery.
type AlertSink interface {
	PublishAlerts(ctx context.Context, persona string, eval *models.AlertEvaluation) error
	Close() error
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordForecast(persona, horizon string)
	RecordModelFailure(model string)
	RecordGovernanceFailure(rule string)
	RecordAlertFired(rule, severity string)
	RecordLatency(op string, seconds float64)
}
