package handler

import (
	"net/http"

	"github.com/deppfellow/hms-backend/internal/model"
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/deppfellow/hms-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// SubmissionHandler accepts the appointment and contact forms.
type SubmissionHandler struct {
	Handler
	submissions *service.SubmissionService
}

func NewSubmissionHandler(s *server.Server, submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{Handler: NewHandler(s), submissions: submissions}
}

func (h *SubmissionHandler) CreateAppointment() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *model.Appointment) (*model.SubmissionResponse, error) {
		return h.submissions.CreateAppointment(c.Request().Context(), req)
	}, http.StatusOK, func() *model.Appointment { return &model.Appointment{} })
}

func (h *SubmissionHandler) CreateContactMessage() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *model.ContactMessage) (*model.SubmissionResponse, error) {
		return h.submissions.CreateContactMessage(c.Request().Context(), req)
	}, http.StatusOK, func() *model.ContactMessage { return &model.ContactMessage{} })
}
