package router

import (
	"github.com/deppfellow/hms-backend/internal/handler"
	"github.com/deppfellow/hms-backend/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the liveness checks, metrics and docs routes.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.System.Root)
	r.GET("/test", h.System.TestConnection)
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", h.Metrics)

	r.StaticFS("/static", static.Files)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
