package types

import "errors"

// Error kinds surfaced by the knowledge store. Handlers map these onto
// HTTP status codes; the MCP tools map them onto tool error results.
var (
	// ErrNotFound means an id did not resolve to an entry.
	ErrNotFound = errors.New("entry not found")
	// ErrValidation means required input was missing or empty.
	ErrValidation = errors.New("validation error")
)
