package repository

import (
	"context"
	"time"

	"BizPulse/internal/domain/models"
	pkgkafka "BizPulse/pkg/kafka"
	applogger "BizPulse/pkg/logger"
)

// KafkaAlertSink publishes alert decisions for external dispatch workers
// (mail, CRM, webhooks). The decision document carries everything a worker
// needs; no forecast internals leak onto the topic.
type KafkaAlertSink struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaAlertSink(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaAlertSink {
	return &KafkaAlertSink{producer: producer, topic: topic, l: l}
}

// alertMessage is the wire shape of one published decision.
type alertMessage struct {
	Persona    string                  `json:"persona"`
	OccurredAt time.Time               `json:"occurredAt"`
	Evaluation *models.AlertEvaluation `json:"evaluation"`
}

func (s *KafkaAlertSink) PublishAlerts(ctx context.Context, persona string, eval *models.AlertEvaluation) error {
	if len(eval.Triggered) == 0 {
		return nil
	}
	msg := alertMessage{
		Persona:    persona,
		OccurredAt: time.Now().UTC(),
		Evaluation: eval,
	}
	if err := s.producer.Publish(ctx, s.topic, []byte(persona), msg); err != nil {
		if s.l != nil {
			s.l.Error("publish alerts failed",
				applogger.String("topic", s.topic),
				applogger.String("persona", persona),
				applogger.Error(err),
			)
		}
		return err
	}
	if s.l != nil {
		s.l.Info("alerts published",
			applogger.String("topic", s.topic),
			applogger.String("persona", persona),
			applogger.Strings("rules", eval.Triggered),
		)
	}
	return nil
}

func (s *KafkaAlertSink) Close() error {
	return s.producer.Close()
}

// NopAlertSink swallows decisions when Kafka is disabled.
type NopAlertSink struct{}

func (NopAlertSink) PublishAlerts(context.Context, string, *models.AlertEvaluation) error { return nil }
func (NopAlertSink) Close() error                                                        { return nil }
