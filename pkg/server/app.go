package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "BizPulse/internal/domain/repository"
	"BizPulse/internal/handler/api"
	"BizPulse/internal/service/ratelimit"
	"BizPulse/internal/usecase"
	"BizPulse/pkg/cache"
	pkgch "BizPulse/pkg/clickhouse"
	"BizPulse/pkg/config"
	xhttp "BizPulse/pkg/http"
	applogger "BizPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const limiterPruneInterval = 10 * time.Minute

// App encapsulates the application lifecycle: HTTP surface up front, the
// forecast pipeline behind it, infrastructure clients underneath.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	chClient  *pkgch.Client
	cacheSvc  cache.Service
	alertSink domrepo.AlertSink
	pipeline  *usecase.ForecastPipeline
	alerts    *usecase.AlertChecker
	limiter   *ratelimit.Limiter

	httpServer *xhttp.Server
}

// New creates the App with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	chClient *pkgch.Client,
	cacheSvc cache.Service,
	alertSink domrepo.AlertSink,
	pipeline *usecase.ForecastPipeline,
	alerts *usecase.AlertChecker,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		chClient:  chClient,
		cacheSvc:  cacheSvc,
		alertSink: alertSink,
		pipeline:  pipeline,
		alerts:    alerts,
		limiter:   ratelimit.New(),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	forecastHandler := api.NewForecastEchoHandler(
		a.log, a.pipeline, a.alerts, a.alertSink, a.cacheSvc, a.limiter, a.cfg.Cache.ForecastTTL)
	streamHandler := api.NewForecastStreamHandler(a.log, a.pipeline, a.cfg.Stream.RefreshInterval)

	handler := xhttp.Handlers{forecastHandler, streamHandler, a.healthHandler()}

	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
		xhttp.WithLogger(a.log),
	)

	go a.pruneLimiter(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("personas", a.cfg.Personas))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) pruneLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.limiter.Prune(limiterPruneInterval)
		}
	}
}

func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.alertSink != nil {
		if err := a.alertSink.Close(); err != nil {
			a.log.Warn("alert sink close error", applogger.Error(err))
		}
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

type healthHandler struct {
	ch *pkgch.Client
}

func (a *App) healthHandler() xhttp.Handler {
	return &healthHandler{ch: a.chClient}
}

func (h *healthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		if h.ch != nil {
			if err := h.ch.Health(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
