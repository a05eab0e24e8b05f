package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/runger/symnav/internal/outline"
)

// LSP decodes a textDocument/documentSymbol response: either a
// DocumentSymbol hierarchy or a flat SymbolInformation list. Servers are
// free to answer with either shape, so both are accepted.
type LSP struct {
	// Buffer is the document the response was requested for. DocumentSymbol
	// carries no URI, so positions are attributed to this path.
	Buffer string
}

func (LSP) Name() string { return "lsp" }

func (p LSP) Decode(data []byte) (Listing, error) {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return Listing{Buffer: p.Buffer}, nil
	}

	if isSymbolInformation(data) {
		return p.decodeFlat(data)
	}

	var docSymbols []protocol.DocumentSymbol
	if err := json.Unmarshal(data, &docSymbols); err != nil {
		return Listing{}, fmt.Errorf("decode document symbols: %w", err)
	}

	listing := Listing{Buffer: p.Buffer}
	for i := range docSymbols {
		listing.Symbols = append(listing.Symbols, p.fromDocumentSymbol(&docSymbols[i]))
	}
	return listing, nil
}

func (p LSP) fromDocumentSymbol(ds *protocol.DocumentSymbol) outline.Symbol {
	sym := outline.Symbol{
		Name:   ds.Name,
		Detail: ds.Detail,
		Kind:   kindFromLSP(ds.Kind),
		Path:   p.Buffer,
		Line:   int(ds.SelectionRange.Start.Line) + 1,
		Col:    int(ds.SelectionRange.Start.Character) + 1,
	}
	for i := range ds.Children {
		sym.Children = append(sym.Children, p.fromDocumentSymbol(&ds.Children[i]))
	}
	return sym
}

// decodeFlat handles the legacy SymbolInformation shape. Depth is derived
// from ContainerName: an entry nests one level under the most recently
// seen symbol of that name, which matches the file order servers emit.
func (p LSP) decodeFlat(data []byte) (Listing, error) {
	var infos []protocol.SymbolInformation
	if err := json.Unmarshal(data, &infos); err != nil {
		return Listing{}, fmt.Errorf("decode symbol information: %w", err)
	}

	listing := Listing{Buffer: p.Buffer}
	depths := make(map[string]int, len(infos))
	for i := range infos {
		si := &infos[i]
		depth := 0
		if si.ContainerName != "" {
			if d, ok := depths[si.ContainerName]; ok {
				depth = d + 1
			}
		}
		depths[si.Name] = depth

		path := p.Buffer
		if si.Location.URI != "" {
			path = pathFromURI(si.Location.URI)
		}
		listing.Symbols = append(listing.Symbols, outline.Symbol{
			Name:   si.Name,
			Detail: si.ContainerName,
			Kind:   kindFromLSP(si.Kind),
			Path:   path,
			Line:   int(si.Location.Range.Start.Line) + 1,
			Col:    int(si.Location.Range.Start.Character) + 1,
			Depth:  depth,
		})
	}
	return listing, nil
}

// isSymbolInformation reports whether the first array element carries a
// "location" field, which only SymbolInformation has.
func isSymbolInformation(data []byte) bool {
	var probe []struct {
		Location json.RawMessage `json:"location"`
	}
	if err := json.Unmarshal(data, &probe); err != nil || len(probe) == 0 {
		return false
	}
	return len(probe[0].Location) > 0
}

// pathFromURI extracts a filesystem path from a file URI, falling back to
// the raw string for other schemes.
func pathFromURI(u uri.URI) string {
	if strings.HasPrefix(string(u), "file://") {
		return u.Filename()
	}
	return string(u)
}

// kindFromLSP maps the numeric LSP symbol kind onto the filter vocabulary.
func kindFromLSP(k protocol.SymbolKind) outline.Kind {
	switch k {
	case protocol.SymbolKindFile:
		return outline.KindFile
	case protocol.SymbolKindModule:
		return outline.KindModule
	case protocol.SymbolKindNamespace:
		return outline.KindNamespace
	case protocol.SymbolKindPackage:
		return outline.KindPackage
	case protocol.SymbolKindClass:
		return outline.KindClass
	case protocol.SymbolKindMethod:
		return outline.KindMethod
	case protocol.SymbolKindProperty:
		return outline.KindProperty
	case protocol.SymbolKindField:
		return outline.KindField
	case protocol.SymbolKindConstructor:
		return outline.KindConstructor
	case protocol.SymbolKindEnum:
		return outline.KindEnum
	case protocol.SymbolKindInterface:
		return outline.KindInterface
	case protocol.SymbolKindFunction:
		return outline.KindFunction
	case protocol.SymbolKindVariable:
		return outline.KindVariable
	case protocol.SymbolKindConstant:
		return outline.KindConstant
	case protocol.SymbolKindString:
		return outline.KindString
	case protocol.SymbolKindNumber:
		return outline.KindNumber
	case protocol.SymbolKindBoolean:
		return outline.KindBoolean
	case protocol.SymbolKindArray:
		return outline.KindArray
	case protocol.SymbolKindObject:
		return outline.KindObject
	case protocol.SymbolKindKey:
		return outline.KindKey
	case protocol.SymbolKindNull:
		return outline.KindNull
	case protocol.SymbolKindEnumMember:
		return outline.KindEnumMember
	case protocol.SymbolKindStruct:
		return outline.KindStruct
	case protocol.SymbolKindEvent:
		return outline.KindEvent
	case protocol.SymbolKindOperator:
		return outline.KindOperator
	case protocol.SymbolKindTypeParameter:
		return outline.KindTypeParameter
	default:
		return outline.KindObject
	}
}
