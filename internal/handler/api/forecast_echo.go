package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
	"BizPulse/internal/service/ratelimit"
	"BizPulse/internal/usecase"
	"BizPulse/pkg/cache"
	xhttp "BizPulse/pkg/http"
	xlogger "BizPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	forecastLockTTL  = 30 * time.Second
	lockRetryDelay   = 150 * time.Millisecond
	lockRetryBudget  = 20
	limiterCapacity  = 10
	limiterRefillSec = 2
)

// ForecastEchoHandler serves the forecast and alert endpoints. Responses are
// cached per (persona, horizons); a cache-side lock keeps concurrent requests
// for the same key down to one pipeline run.
type ForecastEchoHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.ForecastPipeline
	alerts   *usecase.AlertChecker
	sink     repository.AlertSink
	cache    cache.Service
	limiter  *ratelimit.Limiter
	ttl      time.Duration
}

func NewForecastEchoHandler(
	logger *xlogger.Logger,
	pipeline *usecase.ForecastPipeline,
	alerts *usecase.AlertChecker,
	sink repository.AlertSink,
	cacheSvc cache.Service,
	limiter *ratelimit.Limiter,
	ttl time.Duration,
) *ForecastEchoHandler {
	return &ForecastEchoHandler{
		logger:   logger,
		pipeline: pipeline,
		alerts:   alerts,
		sink:     sink,
		cache:    cacheSvc,
		limiter:  limiter,
		ttl:      ttl,
	}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/alerts/check", h.CheckAlerts)
}

func (h *ForecastEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.limiter.Allow(c.RealIP(), limiterCapacity, limiterRefillSec) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	horizons := splitHorizons(req.Horizons)
	out, err := h.forecastCached(c.Request().Context(), req.Persona, horizons)
	if err != nil {
		if usecase.IsInputError(err) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("forecast pipeline error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, out)
}

func (h *ForecastEchoHandler) CheckAlerts(c echo.Context) error {
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.limiter.Allow(c.RealIP(), limiterCapacity, limiterRefillSec) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
	}

	out, err := h.forecastCached(c.Request().Context(), req.Persona, splitHorizons(req.Horizons))
	if err != nil {
		if usecase.IsInputError(err) {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		h.logger.Error("alerts pipeline error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	eval := h.alerts.CheckAlerts(out)
	if h.sink != nil {
		if err := h.sink.PublishAlerts(c.Request().Context(), req.Persona, eval); err != nil {
			h.logger.Warn("alert publish failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, eval)
}

// forecastCached serves from cache when possible, otherwise computes under a
// per-key lock. Lock losers poll the cache instead of recomputing.
func (h *ForecastEchoHandler) forecastCached(ctx context.Context, persona string, horizons []string) (*models.ForecastOutput, error) {
	key := forecastKey(persona, horizons)

	var cached models.ForecastOutput
	if err := h.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	for attempt := 0; attempt < lockRetryBudget; attempt++ {
		ok, err := h.cache.TryLock(ctx, key+":lock", forecastLockTTL)
		if err != nil {
			h.logger.Warn("forecast lock unavailable, computing anyway", xlogger.Error(err))
			return h.pipeline.GenerateForecast(ctx, persona, horizons)
		}
		if ok {
			defer func() { _ = h.cache.Unlock(context.WithoutCancel(ctx), key+":lock") }()
			out, err := h.pipeline.GenerateForecast(ctx, persona, horizons)
			if err != nil {
				return nil, err
			}
			if err := h.cache.Set(ctx, key, out, h.ttl); err != nil {
				h.logger.Warn("forecast cache set failed", xlogger.Error(err))
			}
			return out, nil
		}

		// Someone else is computing; wait for their result to land.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
		if err := h.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}
	// Lock holder is taking too long; compute rather than fail the request.
	return h.pipeline.GenerateForecast(ctx, persona, horizons)
}

func forecastKey(persona string, horizons []string) string {
	return fmt.Sprintf("forecast:%s:%s", persona, strings.Join(horizons, ","))
}

func splitHorizons(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
