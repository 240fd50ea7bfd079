package trigger

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HeaderInvocationID carries the per-request invocation ID.
const HeaderInvocationID = "X-Invocation-ID"

// NewServer returns an echo instance serving the trigger routes.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("invocation_id", c.Response().Header().Get(HeaderInvocationID)),
			}
			if v.Error != nil {
				h.logger.Error("request failed", append(attrs, slog.String("error", v.Error.Error()))...)
				return nil
			}
			h.logger.Debug("request", attrs...)
			return nil
		},
	}))

	SetupRoutes(e, h)
	return e
}

// SetupRoutes registers the trigger routes on e.
func SetupRoutes(e *echo.Echo, h *Handler) {
	e.GET("/healthz", h.HealthCheck)
	e.POST("/events", h.HandleEvent)
}

// HealthCheck reports that the trigger is up.
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// HandleEvent decodes an upload notification from the JSON request body and
// processes it. The content type is not checked.
func (h *Handler) HandleEvent(c echo.Context) error {
	invocationID := uuid.NewString()
	c.Response().Header().Set(HeaderInvocationID, invocationID)
	logger := h.logger.With(slog.String("invocation_id", invocationID))

	var event Event
	if err := json.NewDecoder(c.Request().Body).Decode(&event); err != nil {
		logger.Warn("invalid event payload", slog.String("error", err.Error()))
		return c.String(http.StatusBadRequest, "Invalid event payload")
	}

	resp := h.handle(c.Request().Context(), logger, &event)
	return c.String(resp.StatusCode, resp.Body)
}
