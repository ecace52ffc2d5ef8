package handler

import (
	"net/http"

	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/deppfellow/hms-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	System     *SystemHandler
	Reference  *ReferenceHandler
	Submission *SubmissionHandler
	Health     *HealthHandler
	OpenAPI    *OpenAPIHandler
	Metrics    echo.HandlerFunc
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	var metrics http.Handler = http.NotFoundHandler()
	if s.Metrics != nil {
		metrics = s.Metrics.Handler()
	}

	return &Handlers{
		System:     NewSystemHandler(s, services.Submission),
		Reference:  NewReferenceHandler(s, services.Reference),
		Submission: NewSubmissionHandler(s, services.Submission),
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Metrics:    echo.WrapHandler(metrics),
	}
}
