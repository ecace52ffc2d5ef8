package middleware

import (
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// TracingMiddleware owns the New Relic middleware for the echo instance.
//
// It holds:
//   - server: read for the environment name attached to every transaction
//   - nrApp: the New Relic application, nil when no license key is configured
//
// Two layers are installed in order:
//  1. NewRelicMiddleware() starts the transaction
//  2. EnhanceTracing() decorates it and reports returned errors
//
// With a nil nrApp both layers pass requests through untouched.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{server: s, nrApp: nrApp}
}

// NewRelicMiddleware returns the nrecho middleware, or a no-op when New
// Relic is disabled.
//
// nrecho starts one transaction per request, names it after the echo route
// and stores it in the request context. newrelic.FromContext relies on this
// in EnhanceTracing and in the typed handler pipeline.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		// No-op: the chain is returned unwrapped.
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing adds request attributes to the transaction and notices
// returned errors. It must run after NewRelicMiddleware.
//
// Attributes added:
//   - client IP and user agent
//   - deployment environment
//   - request id, when RequestID has set one
//   - response status, after the handler ran
//
// Errors are wrapped with nrpkgerrors so New Relic keeps their stack trace.
// The error is still returned for the global error handler to answer.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// nil when New Relic is disabled or the middleware order is wrong.
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())
			txn.AddAttribute("service.environment", tm.server.Config.Primary.Env)

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			err := next(c)
			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			// Status is only known once the handler has written the response.
			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}
