package middleware

import (
	"net/http"

	"github.com/deppfellow/hms-backend/internal/dberr"
	"github.com/deppfellow/hms-backend/internal/errs"
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{server: s}
}

// CORS allows the configured origins (every origin by default), every
// method and every requested header. Credentials are allowed, so a wildcard
// origin is answered with the caller's own Origin instead of "*".
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,

		// With "*" and credentials the request origin is echoed back.
		UnsafeWildcardOriginWithAllowCredentials: true,
	})
}

// statusOf returns the status the error handler will send for err.
// Echo has not written the response yet when a handler returns an error.
// See https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
func statusOf(err error, written int) int {
	if err == nil {
		return written
	}

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	default:
		return http.StatusInternalServerError
	}
}

// levelFor picks the log event for a status: error for 5xx, warn for 4xx.
func levelFor(logger *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.Error()
	case status >= http.StatusBadRequest:
		return logger.Warn()
	default:
		return logger.Info()
	}
}

// RequestLogger writes one "API" line per request.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := statusOf(v.Error, v.Status)

			e := levelFor(GetLogger(c), status)
			if v.Error != nil {
				e = e.Err(v.Error)
			}

			e.Dur("latency", v.Latency).
				Int("status", status).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler turns every error returned by a handler or middleware
// into the JSON error body.
//
//   - *errs.HTTPError is sent as is
//   - echo 404 becomes "Route not found"
//   - other echo errors keep their status
//   - anything else goes through dberr.HandleError
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError

	if !errors.As(err, &httpErr) {
		if errors.As(err, &echoErr) {
			if echoErr.Code == http.StatusNotFound {
				err = errs.NewNotFoundError("Route not found", false, nil)
			}
		} else {
			err = dberr.HandleError(err)
		}
	}

	body := errs.HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
	}

	switch {
	case errors.As(err, &httpErr):
		body = *httpErr
	case errors.As(err, &echoErr):
		body.Status = echoErr.Code
		body.Code = errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code))
		body.Message = http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			body.Message = msg
		}
	}

	e := levelFor(GetLogger(c), body.Status)
	if body.Status >= http.StatusInternalServerError {
		e = e.Stack()
	}
	e.Err(originalErr).
		Int("status", body.Status).
		Str("error_code", body.Code).
		Msg(body.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(body.Status)
		return
	}

	_ = c.JSON(body.Status, body)
}
