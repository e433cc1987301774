package api

import (
	"net/http"
	"time"

	"BizPulse/internal/usecase"
	xhttp "BizPulse/pkg/http"
	xlogger "BizPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ForecastStreamHandler pushes fresh forecasts over a WebSocket on a fixed
// refresh cadence. One goroutine per connection; the connection closes when
// the client goes away or a pipeline run fails hard.
type ForecastStreamHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.ForecastPipeline
	refresh  time.Duration
}

func NewForecastStreamHandler(logger *xlogger.Logger, pipeline *usecase.ForecastPipeline, refresh time.Duration) *ForecastStreamHandler {
	return &ForecastStreamHandler{logger: logger, pipeline: pipeline, refresh: refresh}
}

func (h *ForecastStreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/forecast/stream", h.Stream)
}

func (h *ForecastStreamHandler) Stream(c echo.Context) error {
	req := &struct {
		Persona  string `query:"persona" validate:"required,min=2,max=64"`
		Horizons string `query:"horizons" default:"14d"`
	}{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	horizons := splitHorizons(req.Horizons)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	// Drain client frames so close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() error {
		out, err := h.pipeline.GenerateForecast(ctx, req.Persona, horizons)
		if err != nil {
			h.logger.Error("stream forecast failed",
				xlogger.String("persona", req.Persona),
				xlogger.Error(err))
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			_ = conn.WriteJSON(map[string]string{"error": err.Error()})
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		return conn.WriteJSON(out)
	}

	if err := push(); err != nil {
		return nil
	}

	refresh := time.NewTicker(h.refresh)
	defer refresh.Stop()
	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-refresh.C:
			if err := push(); err != nil {
				return nil
			}
		}
	}
}
