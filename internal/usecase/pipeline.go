package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
	"BizPulse/internal/domain/service"
	"BizPulse/internal/services/features"
	"BizPulse/internal/services/forecast"
	"BizPulse/internal/services/risk"
	"BizPulse/pkg/config"
	"BizPulse/pkg/logger"
)

// ForecastPipeline orchestrates a full forecast run: fetch records, extract
// features, run the ensemble per horizon, score risk once, synthesize
// explanations, gate them through the Creator Check and assemble the output
// document. Each invocation is independent; the pipeline holds no mutable
// state across calls.
type ForecastPipeline struct {
	source     repository.RecordSource
	ensemble   *forecast.Ensemble
	indices    *risk.Indices
	governance service.Governance
	log        *logger.Logger
	metrics    repository.Metrics
	cfg        config.ModelConfig
	personas   map[string]struct{}
}

func NewForecastPipeline(
	source repository.RecordSource,
	ensemble *forecast.Ensemble,
	indices *risk.Indices,
	governance service.Governance,
	log *logger.Logger,
	metrics repository.Metrics,
	cfg config.ModelConfig,
	personas []string,
) *ForecastPipeline {
	known := make(map[string]struct{}, len(personas))
	for _, p := range personas {
		known[p] = struct{}{}
	}
	return &ForecastPipeline{
		source:     source,
		ensemble:   ensemble,
		indices:    indices,
		governance: governance,
		log:        log,
		metrics:    metrics,
		cfg:        cfg,
		personas:   known,
	}
}

// GenerateForecast runs the pipeline for one persona and set of horizons.
// A failed Creator Check is not an error: the output is still returned with
// creatorCheck.passed=false and the caller decides whether to display it.
func (p *ForecastPipeline) GenerateForecast(ctx context.Context, persona string, rawHorizons []string) (*models.ForecastOutput, error) {
	started := time.Now()
	defer func() {
		p.metrics.RecordLatency("generate_forecast", time.Since(started).Seconds())
	}()

	if _, ok := p.personas[persona]; !ok {
		return nil, &InputError{Field: "persona", Reason: fmt.Sprintf("unknown persona %q", persona)}
	}
	horizons, err := parseHorizons(rawHorizons)
	if err != nil {
		return nil, err
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -p.cfg.LookbackDays)
	records, err := p.source.FetchRecords(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	fs := features.ExtractFeatures(records.Revenue, records.Leads, records.Customers, records.Operational, records.Engagement)
	lastDate := fs.LastDate()
	if lastDate.IsZero() {
		lastDate = to
	}

	horizonForecasts := make(map[string][]models.ForecastPoint, len(horizons))
	for _, h := range horizons {
		points, err := p.ensemble.Forecast(fs.DailyRevenue, lastDate, h.Days(), p.cfg.ConfidenceLevel)
		if err != nil {
			return nil, fmt.Errorf("horizon %s: %w", h, err)
		}
		horizonForecasts[string(h)] = points
		p.metrics.RecordForecast(persona, string(h))
	}

	cfsi := p.indices.CFSI(fs)
	churn := p.indices.ChurnRisk(fs, persona)
	need := p.indices.AnticipatedNeed(fs)

	longest := horizons[len(horizons)-1]
	revenueForecast := horizonForecasts[string(longest)]

	out := &models.ForecastOutput{
		GeneratedAt:            time.Now().UTC(),
		Horizons:               horizonStrings(horizons),
		Persona:                persona,
		RevenueForecast:        revenueForecast,
		HorizonForecasts:       horizonForecasts,
		CashFlowStabilityIndex: cfsi,
		ChurnRisk:              churn,
		AnticipatedNeed:        need,
	}
	out.Explanations = p.synthesizeExplanations(out)
	out.CreatorCheck = p.governance.RunCreatorCheck(out)

	if !out.CreatorCheck.Passed {
		p.log.Warn("forecast failed creator check",
			logger.String("persona", persona),
			logger.Strings("notes", out.CreatorCheck.Notes))
	}

	p.log.Info("forecast generated",
		logger.String("persona", persona),
		logger.Strings("horizons", out.Horizons),
		logger.Float64("cfsi", cfsi),
		logger.Float64("churn_risk", churn),
		logger.Bool("creator_check_passed", out.CreatorCheck.Passed))

	return out, nil
}

// parseHorizons validates and sorts the requested horizons ascending by
// length, deduplicating repeats.
func parseHorizons(raw []string) ([]models.Horizon, error) {
	if len(raw) == 0 {
		return nil, &InputError{Field: "horizons", Reason: "at least one horizon is required"}
	}
	seen := make(map[models.Horizon]struct{}, len(raw))
	out := make([]models.Horizon, 0, len(raw))
	for _, s := range raw {
		h, err := models.ParseHorizon(s)
		if err != nil {
			return nil, &InputError{Field: "horizons", Reason: err.Error()}
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Days() < out[j].Days() })
	return out, nil
}

func horizonStrings(hs []models.Horizon) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = string(h)
	}
	return out
}
