package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BizPulse/internal/domain/models"
	repo "BizPulse/internal/repository"
	"BizPulse/internal/service/ratelimit"
	"BizPulse/internal/services/forecast"
	"BizPulse/internal/services/governance"
	"BizPulse/internal/services/risk"
	"BizPulse/internal/usecase"
	"BizPulse/pkg/cache"
	"BizPulse/pkg/config"
	xhttp "BizPulse/pkg/http"
	"BizPulse/pkg/logger"
	"BizPulse/pkg/metrics"
	"BizPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

type stubSource struct {
	records *models.RawRecords
}

func (s *stubSource) FetchRecords(ctx context.Context, from, to time.Time) (*models.RawRecords, error) {
	return s.records, nil
}

func rampRecords(days int) *models.RawRecords {
	records := &models.RawRecords{}
	start := time.Now().UTC().AddDate(0, 0, -days)
	for i := 0; i < days; i++ {
		records.Revenue = append(records.Revenue, models.RevenueRecord{
			Date:    util.FormatDay(start.AddDate(0, 0, i)),
			Revenue: 100 + 10*float64(i),
		})
	}
	return records
}

func testHandler(t *testing.T) (*ForecastEchoHandler, *echo.Echo) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	rec := metrics.New()
	cfg := config.DefaultModelConfig()
	ensemble := forecast.NewEnsemble(log, rec,
		forecast.NewETSLite(cfg.Alpha, cfg.Beta, cfg.Gamma, cfg.SeasonalPeriod),
		forecast.NewEWMA(cfg.EWMAAlpha),
		forecast.NewARLite(cfg.AROrder),
	)
	pipeline := usecase.NewForecastPipeline(
		&stubSource{records: rampRecords(21)},
		ensemble,
		risk.NewIndices(cfg),
		governance.NewCreatorCheck(log, rec),
		log, rec, cfg,
		[]string{"contractor", "homeowner"},
	)
	alerts := usecase.NewAlertChecker([]config.AlertRuleConfig{
		{ID: "churn-high", Condition: models.ConditionChurnAbove, Threshold: 0.6, Severity: "high", Action: "email", Enabled: true},
	}, log, rec)

	h := NewForecastEchoHandler(log, pipeline, alerts, repo.NopAlertSink{}, cache.NewMemoryCache(), ratelimit.New(), time.Minute)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestForecastEndpoint(t *testing.T) {
	_, e := testHandler(t)
	rec := doRequest(e, "/api/forecast?persona=contractor&horizons=14d")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, _ := json.Marshal(resp.Data)
	var out models.ForecastOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode forecast: %v", err)
	}
	if len(out.RevenueForecast) != 14 {
		t.Fatalf("expected 14 points, got %d", len(out.RevenueForecast))
	}
	if out.Persona != "contractor" {
		t.Fatalf("persona = %q", out.Persona)
	}
}

func TestForecastEndpointDefaultsHorizons(t *testing.T) {
	_, e := testHandler(t)
	rec := doRequest(e, "/api/forecast?persona=contractor")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"30d"`) {
		t.Fatalf("default horizons should include 30d: %s", rec.Body.String())
	}
}

func TestForecastEndpointRejectsUnknownPersona(t *testing.T) {
	_, e := testHandler(t)
	rec := doRequest(e, "/api/forecast?persona=astronaut&horizons=14d")

	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestForecastEndpointRejectsMissingPersona(t *testing.T) {
	_, e := testHandler(t)
	rec := doRequest(e, "/api/forecast")

	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestForecastEndpointServesFromCache(t *testing.T) {
	h, e := testHandler(t)

	first := doRequest(e, "/api/forecast?persona=contractor&horizons=14d")
	if first.Code != http.StatusOK {
		t.Fatalf("first request failed: %s", first.Body.String())
	}

	// Swap the pipeline's source for an empty one; a cache hit means the
	// second response is still served.
	key := forecastKey("contractor", []string{"14d"})
	var cached models.ForecastOutput
	if err := h.cache.Get(context.Background(), key, &cached); err != nil {
		t.Fatalf("expected forecast in cache: %v", err)
	}

	second := doRequest(e, "/api/forecast?persona=contractor&horizons=14d")
	if second.Code != http.StatusOK {
		t.Fatalf("cached request failed: %s", second.Body.String())
	}
}

func TestCheckAlertsEndpoint(t *testing.T) {
	_, e := testHandler(t)
	rec := doRequest(e, "/api/alerts/check?persona=contractor")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	raw, _ := json.Marshal(resp.Data)
	var eval models.AlertEvaluation
	if err := json.Unmarshal(raw, &eval); err != nil {
		t.Fatalf("decode evaluation: %v", err)
	}
	if eval.Triggered == nil || eval.Actions == nil {
		t.Fatal("triggered and actions must be present, possibly empty")
	}
}

func TestForecastEndpointRateLimits(t *testing.T) {
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	rec := metrics.New()
	cfg := config.DefaultModelConfig()
	ensemble := forecast.NewEnsemble(log, rec, forecast.NewEWMA(cfg.EWMAAlpha))
	pipeline := usecase.NewForecastPipeline(
		&stubSource{records: rampRecords(21)}, ensemble,
		risk.NewIndices(cfg), governance.NewCreatorCheck(log, rec),
		log, rec, cfg, []string{"contractor"},
	)
	h := NewForecastEchoHandler(log, pipeline, usecase.NewAlertChecker(nil, log, rec),
		repo.NopAlertSink{}, cache.NewMemoryCache(), ratelimit.New(), time.Minute)
	e := echo.New()
	h.RegisterRoutes(e)

	var limited bool
	for i := 0; i < limiterCapacity+2; i++ {
		resp := doRequest(e, "/api/forecast?persona=contractor&horizons=14d")
		var env xhttp.APIResponse
		_ = json.Unmarshal(resp.Body.Bytes(), &env)
		if env.Status == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatal("expected a rate limited response past capacity")
	}
}
