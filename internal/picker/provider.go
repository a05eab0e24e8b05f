package picker

import (
	"context"

	"github.com/runger/symnav/internal/outline"
)

// Provider is the interface for data sources that supply the symbol
// listing to the picker. Implementations might parse an LSP response,
// run ctags, or serve from the session cache.
type Provider interface {
	Fetch(ctx context.Context, req Request) (Response, error)
}

// Request describes the listing the picker wants from a Provider.
type Request struct {
	RequestID uint64 // Monotonically increasing, for stale response detection
	Buffer    string // Buffer/file the listing is for
	Revision  string // Opaque revision token for cache lookups
}

// Response carries the built listing back from a Provider.
type Response struct {
	RequestID uint64 // Must match Request.RequestID to be accepted
	Items     []*outline.Item
	Buffer    string // Resolved buffer path, when the payload names one
}
