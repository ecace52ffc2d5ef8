package handler

import (
	"time"

	"github.com/deppfellow/hms-backend/internal/middleware"
	"github.com/deppfellow/hms-backend/internal/model"
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/deppfellow/hms-backend/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the shared dependencies embedded by every concrete handler.
//
// Concrete handlers (ReferenceHandler, SubmissionHandler, HealthHandler)
// reach the logger, config, metrics and store through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler. It is returned by value; copies
// share the same *server.Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint. It receives a payload that has already
// been bound and validated, and returns the response body or an error.
//
// Req is a pointer type such as *model.Appointment, since echo binds into a
// pointer.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler decides how a successful result is written and which
// New Relic attributes describe it.
type ResponseHandler interface {
	// Handle writes the HTTP response for result.
	Handle(c echo.Context, result interface{}) error

	// GetOperation names the response kind in structured logs.
	GetOperation() string

	// AddAttributes tags the transaction from the result. It is only
	// called when a transaction exists.
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes the result as JSON with a fixed status.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// AddAttributes records the stored document id for submissions.
// http.status_code is already set by EnhanceTracing.
func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if res, ok := result.(*model.SubmissionResponse); ok && res != nil {
		txn.AddAttribute("submission.id", res.ID)
	}
}

// handleRequest is the shared pipeline behind every typed endpoint.
//
// It runs in two phases:
//
//  1. bind and validate the payload; a failure is logged at warn and
//     returned as a 422, and submissions also count it in metrics
//  2. run the handler; a failure is logged at error and noticed on the
//     transaction before the global error handler answers it
//
// Both phases are timed. Durations go to the request-scoped logger and,
// when New Relic is enabled, to the transaction as attributes.
func handleRequest[Req validation.Validatable](
	h Handler,
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	// Set by nrecho. nil when New Relic is disabled.
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	// Request-scoped logger from ContextEnhancer, carrying the request id.
	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		// A rejected payload is the client's fault, not ours.
		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if doc, ok := any(req).(model.Document); ok && h.server.Metrics != nil {
			h.server.Metrics.ValidationFailure(doc.Collection())
		}

		if txn != nil {
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle adapts a typed endpoint to an echo.HandlerFunc that answers with
// status on success.
//
// newReq is called once per request so concurrent requests never share a
// payload.
//
//	e.POST("/api/contact", handler.Handle(h, fn, http.StatusOK, func() *model.ContactMessage { return &model.ContactMessage{} }))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(h, c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}
