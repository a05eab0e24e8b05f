// Package outline models a flat, ordered list of code symbols carrying
// parent/child structure through string signatures, and implements the
// tree reconciliation pipeline behind the picker: signature assignment,
// tree-state computation, hierarchical filtering, and depth-based
// re-sorting.
//
// Hierarchy is deliberately kept as a flat slice plus a signature index
// rather than a linked node graph; that makes synthetic-root insertion
// and removal trivially reversible and keeps every pipeline stage a pure
// transformation over the same collection.
package outline

import (
	"fmt"

	"github.com/runger/symnav/internal/match"
)

// Item is one row of a listing session: a symbol, tag, diagnostic, or
// call-hierarchy node.
type Item struct {
	// Name is the symbol name and the text the matcher operates on.
	Name string

	// Detail is optional extra information shown after the name (type
	// signature, diagnostic message, tag scope).
	Detail string

	Kind Kind

	// Path is the buffer or file the symbol belongs to.
	Path string

	// Line and Col are the 1-based source position of the symbol.
	Line int
	Col  int

	// Depth is the nesting level, 0 for top-level symbols.
	Depth int

	// Signature uniquely identifies the item within one listing session.
	// ParentSig, when non-empty, names the signature of the parent item.
	Signature string
	ParentSig string

	// trueParent stashes the original ParentSig while an item is attached
	// to the synthetic root; it is restored before BuildTreeState returns.
	trueParent string

	// TreeState holds one boolean per ancestor level plus self: true when
	// the node at that level is the last among its siblings. It exists
	// only to render tree guides and is recomputed whenever order changes.
	TreeState []bool

	// IsCurrent marks the distinguished entry node of a call-hierarchy
	// listing. It is always retained by filters and sorted first.
	IsCurrent bool

	// IsDirectMatch distinguishes items that satisfied the active filter
	// from ancestors included only to keep them reachable.
	IsDirectMatch bool

	// Match carries the most recent query-match result for highlighting,
	// or nil when no query is active.
	Match *match.Result
}

// Symbol is the raw provider-facing record. Providers produce either a
// hierarchy (via Children) or a pre-flattened list with explicit depths.
type Symbol struct {
	Name     string
	Detail   string
	Kind     Kind
	Path     string
	Line     int
	Col      int
	Depth    int
	Current  bool
	Children []Symbol
}

// Signature derives the stable per-listing identity of a symbol. Depth is
// part of the key: the same source construct can appear at different
// depths in differently-scoped views and must not collide.
func Signature(name string, depth, line, col int) string {
	return fmt.Sprintf("%s|%d|%d:%d", name, depth, line, col)
}

// AssignSignatures walks items in their original top-down order and fills
// Signature and ParentSig. A per-depth stack records the most recent
// signature seen at each level, so an item at depth d parents to whatever
// was last seen at depth d-1; siblings automatically share a parent.
func AssignSignatures(items []*Item) {
	stack := make(map[int]string)
	for _, it := range items {
		sig := Signature(it.Name, it.Depth, it.Line, it.Col)
		it.Signature = sig
		it.ParentSig = ""
		if it.Depth > 0 {
			if p, ok := stack[it.Depth-1]; ok {
				it.ParentSig = p
			}
		}
		stack[it.Depth] = sig
		// Entries deeper than this item are stale once the walk ascends.
		for d := it.Depth + 1; ; d++ {
			if _, ok := stack[d]; !ok {
				break
			}
			delete(stack, d)
		}
	}
}

// bySignature builds the signature index used for parent lookups.
func bySignature(items []*Item) map[string]*Item {
	idx := make(map[string]*Item, len(items))
	for _, it := range items {
		if it.Signature != "" {
			idx[it.Signature] = it
		}
	}
	return idx
}
