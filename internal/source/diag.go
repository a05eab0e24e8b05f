package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/runger/symnav/internal/outline"
)

// Diagnostics decodes a textDocument/publishDiagnostics payload into a
// flat listing, one item per diagnostic. Diagnostics have no hierarchy.
type Diagnostics struct {
	Buffer string
}

func (Diagnostics) Name() string { return "diagnostics" }

type diagnosticsPayload struct {
	URI         string                `json:"uri"`
	Diagnostics []protocol.Diagnostic `json:"diagnostics"`
}

func (p Diagnostics) Decode(data []byte) (Listing, error) {
	payload := diagnosticsPayload{URI: p.Buffer}

	// Accept both the full params object and a bare diagnostic array.
	if err := json.Unmarshal(data, &payload); err != nil {
		if err2 := json.Unmarshal(data, &payload.Diagnostics); err2 != nil {
			return Listing{}, fmt.Errorf("decode diagnostics: %w", err)
		}
	}

	buffer := payload.URI
	if strings.HasPrefix(buffer, "file://") {
		buffer = strings.TrimPrefix(buffer, "file://")
	}

	listing := Listing{Buffer: buffer}
	for i := range payload.Diagnostics {
		d := &payload.Diagnostics[i]
		listing.Symbols = append(listing.Symbols, outline.Symbol{
			Name:   firstLineOf(d.Message),
			Detail: diagnosticDetail(d),
			Kind:   outline.KindDiagnostic,
			Path:   buffer,
			Line:   int(d.Range.Start.Line) + 1,
			Col:    int(d.Range.Start.Character) + 1,
		})
	}
	return listing, nil
}

func firstLineOf(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func diagnosticDetail(d *protocol.Diagnostic) string {
	parts := make([]string, 0, 2)
	if d.Severity != 0 {
		parts = append(parts, severityLabel(d.Severity))
	}
	if d.Source != "" {
		parts = append(parts, d.Source)
	}
	return strings.Join(parts, " ")
}

func severityLabel(s protocol.DiagnosticSeverity) string {
	switch s {
	case protocol.DiagnosticSeverityError:
		return "error"
	case protocol.DiagnosticSeverityWarning:
		return "warning"
	case protocol.DiagnosticSeverityInformation:
		return "info"
	case protocol.DiagnosticSeverityHint:
		return "hint"
	default:
		return ""
	}
}
