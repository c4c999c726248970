// Package errorspkg provides errors shared across all layers of the app.
// Handlers map these to HTTP status codes; domain packages keep their own
// sentinel errors next to their entities.
package errorspkg

import "errors"

// ErrInternal indicates an unexpected failure the caller cannot act on.
// Layers return it instead of leaking driver or infrastructure errors.
var ErrInternal = errors.New("internal")
