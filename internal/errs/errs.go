// Package errs defines the error types returned to API clients.
//
// Every error leaving the HTTP layer is rendered as an HTTPError so the
// landing page always receives the same JSON shape, including field-level
// detail for rejected form submissions.
package errs
