// Package static embeds the API reference page and the OpenAPI document
// served under /docs and /static.
package static

import "embed"

//go:embed openapi.html openapi.json
var Files embed.FS
