package di

import (
	"context"
	"fmt"
	"time"

	"BizPulse/internal/domain/repository"
	internalrepo "BizPulse/internal/repository"
	"BizPulse/internal/services/forecast"
	"BizPulse/internal/services/governance"
	"BizPulse/internal/services/risk"
	"BizPulse/internal/usecase"
	"BizPulse/pkg/cache"
	pkgch "BizPulse/pkg/clickhouse"
	"BizPulse/pkg/config"
	pkgkafka "BizPulse/pkg/kafka"
	applogger "BizPulse/pkg/logger"
	"BizPulse/pkg/metrics"
	"BizPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// warehouse schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideRecordSource creates the ClickHouse-backed record source.
func ProvideRecordSource(chClient *pkgch.Client, log *applogger.Logger) repository.RecordSource {
	src := internalrepo.NewCHRecordSource(chClient)
	src.SetLogger(log)
	return src
}

// ProvideCache creates the forecast cache: layered over Redis when enabled,
// memory-only otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideAlertSink creates the Kafka alert sink, or a no-op when Kafka is
// disabled.
func ProvideAlertSink(cfg *config.Config, log *applogger.Logger) (repository.AlertSink, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopAlertSink{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAlertSink(producer, cfg.Kafka.AlertsTopic, log), nil
}

// ProvideEnsemble builds the model ensemble from the configured tuning
// constants.
func ProvideEnsemble(cfg *config.Config, log *applogger.Logger, rec repository.Metrics) *forecast.Ensemble {
	m := cfg.Model
	return forecast.NewEnsemble(log, rec,
		forecast.NewETSLite(m.Alpha, m.Beta, m.Gamma, m.SeasonalPeriod),
		forecast.NewEWMA(m.EWMAAlpha),
		forecast.NewARLite(m.AROrder),
	)
}

// ProvidePipeline builds the forecast pipeline.
func ProvidePipeline(
	cfg *config.Config,
	source repository.RecordSource,
	ensemble *forecast.Ensemble,
	log *applogger.Logger,
	rec repository.Metrics,
) *usecase.ForecastPipeline {
	return usecase.NewForecastPipeline(
		source,
		ensemble,
		risk.NewIndices(cfg.Model),
		governance.NewCreatorCheck(log, rec),
		log, rec, cfg.Model, cfg.Personas,
	)
}

// ProvideAlertChecker builds the alert evaluator from configured rules.
func ProvideAlertChecker(cfg *config.Config, log *applogger.Logger, rec repository.Metrics) *usecase.AlertChecker {
	return usecase.NewAlertChecker(cfg.Alerts, log, rec)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
	alertSink repository.AlertSink,
	pipeline *usecase.ForecastPipeline,
	alerts *usecase.AlertChecker,
) *server.App {
	return server.New(cfg, log, chClient, cacheSvc, alertSink, pipeline, alerts)
}
