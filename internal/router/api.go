package router

import (
	"github.com/deppfellow/hms-backend/internal/handler"
	"github.com/deppfellow/hms-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerAPIRoutes registers the landing page API under /api. Only the
// form submissions are rate limited.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	api := r.Group("/api")

	api.GET("/services", h.Reference.ListServices)
	api.GET("/departments", h.Reference.ListDepartments)
	api.GET("/doctors", h.Reference.ListDoctors)

	limit := mw.RateLimit.Limit()
	api.POST("/appointment", h.Submission.CreateAppointment(), limit)
	api.POST("/contact", h.Submission.CreateContactMessage(), limit)
}
