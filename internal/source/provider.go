// Package source turns already-fetched symbol payloads into outline
// symbols. Providers are pure decoders: the editor (or a ctags run, see
// RunTags) obtains the raw bytes, and a Provider parses them. No LSP
// client transport lives here.
package source

import (
	"bytes"
	"fmt"

	"github.com/runger/symnav/internal/outline"
)

// Listing is a decoded symbol payload.
type Listing struct {
	// Buffer is the file the symbols belong to, when the payload names one.
	Buffer string

	Symbols []outline.Symbol
}

// Provider decodes one payload format into a Listing.
type Provider interface {
	// Name identifies the format for logs and errors.
	Name() string

	Decode(data []byte) (Listing, error)
}

// Detect sniffs a payload and returns the matching provider. buffer is
// used as the fallback path for formats that do not carry one per symbol.
func Detect(data []byte, buffer string) (Provider, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	switch {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("detect format: empty payload")
	case trimmed[0] == '[':
		return LSP{Buffer: buffer}, nil
	case trimmed[0] == '{' && bytes.Contains(firstLine(trimmed), []byte(`"_type"`)):
		return Tags{}, nil
	case trimmed[0] == '{' && bytes.Contains(trimmed, []byte(`"item"`)):
		return Calls{}, nil
	case trimmed[0] == '{' && bytes.Contains(trimmed, []byte(`"diagnostics"`)):
		return Diagnostics{Buffer: buffer}, nil
	default:
		return nil, fmt.Errorf("detect format: unrecognized payload")
	}
}

func firstLine(data []byte) []byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i]
	}
	return data
}
