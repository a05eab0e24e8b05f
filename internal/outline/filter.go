package outline

import "strings"

// FilterResult is the output of a hierarchical filter pass.
type FilterResult struct {
	// Items holds the direct matches plus every ancestor required to keep
	// them structurally reachable, in their original relative order.
	Items []*Item

	// DirectMatches counts items that satisfied the predicate themselves.
	DirectMatches int

	// Parents counts ancestors included only for structural context.
	Parents int
}

// Filter selects the items satisfying pred. With keepHierarchy set, every
// ancestor of a direct match is re-included (without duplicates) so the
// match stays reachable in the tree view; ancestors included this way have
// IsDirectMatch cleared. The current-position item, when present, is
// always retained even if the predicate rejects it.
//
// Zero direct matches is a normal outcome, not an error: the result is
// simply empty (apart from a pinned current item).
func Filter(items []*Item, pred func(*Item) bool, keepHierarchy bool) FilterResult {
	included := make(map[*Item]bool, len(items))
	direct := 0
	for _, it := range items {
		if pred(it) {
			it.IsDirectMatch = true
			included[it] = true
			direct++
		} else {
			it.IsDirectMatch = false
		}
	}

	parents := 0
	if keepHierarchy {
		idx := bySignature(items)
		for _, it := range items {
			if !it.IsDirectMatch {
				continue
			}
			// Walk up the parent chain until it dead-ends or reaches an
			// item that is already included; the latter also guards
			// against parent-link cycles.
			sig := it.ParentSig
			for sig != "" {
				parent, ok := idx[sig]
				if !ok || included[parent] {
					break
				}
				parent.IsDirectMatch = false
				included[parent] = true
				parents++
				sig = parent.ParentSig
			}
		}
	}

	// The current node is pinned into every view, but never counts as a
	// direct match unless the predicate accepted it.
	for _, it := range items {
		if it.IsCurrent && !included[it] {
			included[it] = true
		}
	}

	out := make([]*Item, 0, direct+parents)
	for _, it := range items {
		if included[it] {
			out = append(out, it)
		}
	}

	return FilterResult{Items: out, DirectMatches: direct, Parents: parents}
}

// Query is a parsed picker query: optional leading filter tokens followed
// by the fuzzy text.
type Query struct {
	// Kinds is the union of kind sets selected by kind-filter tokens,
	// empty when no kind filter is active.
	Kinds []Kind

	// Buffer is the buffer-name fragment from a "/b name" token.
	Buffer string

	// Text is the remaining fuzzy query.
	Text string
}

// HasFilter reports whether any filter token was present.
func (q Query) HasFilter() bool {
	return len(q.Kinds) > 0 || q.Buffer != ""
}

// KindSet returns the selected kinds as a set for predicate use.
func (q Query) KindSet() map[Kind]bool {
	if len(q.Kinds) == 0 {
		return nil
	}
	set := make(map[Kind]bool, len(q.Kinds))
	for _, k := range q.Kinds {
		set[k] = true
	}
	return set
}

// ParseQuery splits leading "/x" filter tokens off a raw query string.
// Kind codes come from the supplied table; "/b name" selects a buffer and
// consumes the following word. Tokens may be chained ("/f /b main state").
// An unrecognized code stops token parsing and the remainder, token
// included, is treated as literal fuzzy text.
func ParseQuery(raw string, codes map[string][]Kind) Query {
	q := Query{}
	rest := strings.TrimLeft(raw, " ")

	for strings.HasPrefix(rest, "/") {
		token, after, _ := strings.Cut(rest[1:], " ")
		if token == "b" {
			name, remainder, _ := strings.Cut(strings.TrimLeft(after, " "), " ")
			if name == "" {
				// "/b" without a name selects nothing yet; keep waiting
				// for the user to type it.
				rest = ""
				break
			}
			q.Buffer = name
			rest = strings.TrimLeft(remainder, " ")
			continue
		}
		kinds, ok := codes[token]
		if !ok {
			// Not a filter token after all; leave it as query text.
			break
		}
		q.Kinds = append(q.Kinds, kinds...)
		rest = strings.TrimLeft(after, " ")
	}

	q.Text = strings.TrimSpace(rest)
	return q
}
