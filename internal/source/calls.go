package source

import (
	"encoding/json"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/runger/symnav/internal/outline"
)

// Calls decodes a call-hierarchy payload assembled by the editor from
// callHierarchy/incomingCalls (or outgoingCalls) responses:
//
//	{"item": CallHierarchyItem, "incoming": [{"item": ..., "incoming": [...]}]}
//
// The entry item becomes the distinguished current node of the listing.
type Calls struct{}

func (Calls) Name() string { return "calls" }

// callNode is one level of the editor-assembled tree. Exactly one of
// Incoming or Outgoing is populated per payload.
type callNode struct {
	Item     protocol.CallHierarchyItem `json:"item"`
	Incoming []callNode                 `json:"incoming,omitempty"`
	Outgoing []callNode                 `json:"outgoing,omitempty"`
}

func (Calls) Decode(data []byte) (Listing, error) {
	var root callNode
	if err := json.Unmarshal(data, &root); err != nil {
		return Listing{}, fmt.Errorf("decode call hierarchy: %w", err)
	}
	if root.Item.Name == "" {
		return Listing{}, fmt.Errorf("decode call hierarchy: missing entry item")
	}

	entry := fromCallItem(&root.Item)
	entry.Current = true
	for i := range root.Incoming {
		entry.Children = append(entry.Children, fromCallNode(&root.Incoming[i]))
	}
	for i := range root.Outgoing {
		entry.Children = append(entry.Children, fromCallNode(&root.Outgoing[i]))
	}

	return Listing{
		Buffer:  pathFromURI(root.Item.URI),
		Symbols: []outline.Symbol{entry},
	}, nil
}

func fromCallNode(n *callNode) outline.Symbol {
	sym := fromCallItem(&n.Item)
	for i := range n.Incoming {
		sym.Children = append(sym.Children, fromCallNode(&n.Incoming[i]))
	}
	for i := range n.Outgoing {
		sym.Children = append(sym.Children, fromCallNode(&n.Outgoing[i]))
	}
	return sym
}

func fromCallItem(item *protocol.CallHierarchyItem) outline.Symbol {
	return outline.Symbol{
		Name:   item.Name,
		Detail: item.Detail,
		Kind:   kindFromLSP(item.Kind),
		Path:   pathFromURI(item.URI),
		Line:   int(item.SelectionRange.Start.Line) + 1,
		Col:    int(item.SelectionRange.Start.Character) + 1,
	}
}
