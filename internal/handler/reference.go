package handler

import (
	"net/http"

	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/deppfellow/hms-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ReferenceHandler serves the read-only lists shown on the landing page.
//
// These endpoints take no input. They are plain echo handlers rather than
// typed Handle endpoints, so a request body or query string never reaches a
// binder and the lists cannot fail.
type ReferenceHandler struct {
	Handler
	reference *service.ReferenceService
}

func NewReferenceHandler(s *server.Server, reference *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{Handler: NewHandler(s), reference: reference}
}

func (h *ReferenceHandler) ListServices(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reference.Services())
}

func (h *ReferenceHandler) ListDepartments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reference.Departments())
}

func (h *ReferenceHandler) ListDoctors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reference.Doctors())
}
