package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/hms-backend/internal/middleware"
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	statusHealthy       = "healthy"
	statusUnhealthy     = "unhealthy"
	statusNotConfigured = "not_configured"
)

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// HealthHandler checks the configured dependencies for uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(s)}
}

// CheckHealth answers 200 when every enabled check passes and 503 otherwise.
// Checks are limited by observability.health_checks.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	obs := h.server.Config.Observability

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	res := HealthResponse{
		Status:      statusHealthy,
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult),
	}

	if obs.HasCheck("database") {
		res.Checks["database"] = h.check(c.Request().Context(), &logger, "database", h.pingDatabase)
	}

	if obs.HasCheck("redis") {
		if h.server.Redis == nil {
			res.Checks["redis"] = CheckResult{Status: statusNotConfigured}
		} else {
			res.Checks["redis"] = h.check(c.Request().Context(), &logger, "redis", func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			})
		}
	}

	for _, check := range res.Checks {
		if check.Status == statusUnhealthy {
			res.Status = statusUnhealthy
		}
	}

	if res.Status == statusUnhealthy {
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, res)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")

	if err := c.JSON(http.StatusOK, res); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.server.DB == nil {
		return fmt.Errorf("database not connected")
	}
	return h.server.DB.Ping(ctx)
}

func (h *HealthHandler) check(parent context.Context, logger *zerolog.Logger, name string, ping func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(parent, h.server.Config.Observability.HealthChecks.Timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err == nil {
		return CheckResult{Status: statusHealthy, ResponseTime: elapsed.String()}
	}

	logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("dependency health check failed")

	if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
		h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
			"check_type":       name,
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
	}

	return CheckResult{Status: statusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
}
