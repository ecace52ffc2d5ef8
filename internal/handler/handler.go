// Package handler is the HTTP layer. It binds and validates requests
// through the typed Handle pipeline, calls the service layer and writes
// the JSON responses.
package handler
