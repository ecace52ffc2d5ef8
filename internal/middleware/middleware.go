// Package middleware holds the global and route-specific middleware:
// request ids, request scoped logging, CORS, New Relic tracing, submission
// rate limiting, panic recovery and the global error handler.
package middleware
