package handler

import (
	"net/http"

	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/deppfellow/hms-backend/internal/service"
	"github.com/labstack/echo/v4"
)

const (
	backendRunning       = "✅ Running"
	databaseConnected    = "✅ Connected"
	databaseNotConnected = "❌ Not Connected"
)

type RootResponse struct {
	Message string `json:"message"`
}

// ConnectionResponse reports the backend and store connection state.
// DatabaseName is null when no store is connected.
type ConnectionResponse struct {
	Backend      string  `json:"backend"`
	Database     string  `json:"database"`
	DatabaseName *string `json:"database_name"`
}

// SystemHandler serves the liveness and connection checks used by the
// landing page.
type SystemHandler struct {
	Handler
	submissions *service.SubmissionService
}

func NewSystemHandler(s *server.Server, submissions *service.SubmissionService) *SystemHandler {
	return &SystemHandler{Handler: NewHandler(s), submissions: submissions}
}

func (h *SystemHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{Message: "HMS Backend running"})
}

// TestConnection reports whether a store connection handle exists. It
// does not contact the store.
func (h *SystemHandler) TestConnection(c echo.Context) error {
	status := h.submissions.Status()

	res := ConnectionResponse{
		Backend:  backendRunning,
		Database: databaseNotConnected,
	}
	if status.Connected {
		name := status.Name
		res.Database = databaseConnected
		res.DatabaseName = &name
	}

	return c.JSON(http.StatusOK, res)
}
