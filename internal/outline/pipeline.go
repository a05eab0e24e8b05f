package outline

import (
	"path"
	"strings"

	"github.com/runger/symnav/internal/match"
)

// BuildOptions controls one-time item construction.
type BuildOptions struct {
	// Blocklist holds glob patterns (path.Match syntax); a symbol whose
	// name matches any pattern is dropped along with its subtree.
	Blocklist []string
}

// ViewOptions controls per-keystroke view recomputation.
type ViewOptions struct {
	// PreserveOrder keeps the structural order of surviving items and
	// reports the best match separately for cursor placement. When false
	// the survivors are ranked best-first and hierarchy is not re-expanded.
	PreserveOrder bool

	// KeepHierarchy re-includes the ancestors of matches so the tree view
	// stays structurally consistent. Ignored in ranked (flat) mode.
	KeepHierarchy bool

	// KindCodes maps query filter codes to kind sets; nil uses KindCodes().
	KindCodes map[string][]Kind
}

// View is the rendered state of a listing for one query.
type View struct {
	Items []*Item

	// BestIndex points at the best query match within Items, for cursor
	// pre-positioning. -1 when Items is empty; 0 when no query is active.
	BestIndex int

	DirectMatches int
	Parents       int
}

// BuildItems converts raw provider symbols into a signed, tree-annotated
// listing. It is invoked once per fetch; the result is then filtered in
// place on every keystroke.
func BuildItems(symbols []Symbol, opts BuildOptions) []*Item {
	items := make([]*Item, 0, len(symbols))
	for i := range symbols {
		items = flatten(&symbols[i], symbols[i].Depth, opts.Blocklist, items)
	}
	AssignSignatures(items)
	return BuildTreeState(items)
}

// flatten appends sym and its subtree depth-first, dropping blocklisted
// names together with their descendants.
func flatten(sym *Symbol, depth int, blocklist []string, items []*Item) []*Item {
	if blocked(sym.Name, blocklist) {
		return items
	}
	items = append(items, &Item{
		Name:      sym.Name,
		Detail:    sym.Detail,
		Kind:      sym.Kind,
		Path:      sym.Path,
		Line:      sym.Line,
		Col:       sym.Col,
		Depth:     depth,
		IsCurrent: sym.Current,
	})
	for i := range sym.Children {
		items = flatten(&sym.Children[i], depth+1, blocklist, items)
	}
	return items
}

func blocked(name string, blocklist []string) bool {
	for _, pattern := range blocklist {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// UpdateFilteredView recomputes the visible listing for a raw query. It is
// a pure function of (items, query, options): it re-derives every
// per-item flag it touches, so re-running it with identical input yields
// identical output.
func UpdateFilteredView(items []*Item, rawQuery string, opts ViewOptions) View {
	codes := opts.KindCodes
	if codes == nil {
		codes = KindCodes()
	}
	q := ParseQuery(rawQuery, codes)

	working := items
	directs, parents := 0, 0
	if q.HasFilter() {
		fr := ApplyKindFilter(items, q, opts.KeepHierarchy)
		working = fr.Items
		directs, parents = fr.DirectMatches, fr.Parents
	}

	for _, it := range working {
		it.Match = nil
	}

	if q.Text == "" {
		return View{
			Items:         working,
			BestIndex:     defaultBestIndex(working),
			DirectMatches: directs,
			Parents:       parents,
		}
	}

	texts := make([]string, len(working))
	for i, it := range working {
		texts[i] = it.Name
	}
	ranked, best := match.Rank(texts, q.Text, opts.PreserveOrder)
	if len(ranked) == 0 {
		// Pinned current node stays visible even on a whiffed query. The
		// counts are zeroed deliberately, kind-filter survivors included:
		// nothing on screen satisfied the full query, so the footer must
		// not report matches the user cannot see.
		fr := Filter(working, func(*Item) bool { return false }, false)
		return View{Items: fr.Items, BestIndex: defaultBestIndex(fr.Items)}
	}

	matched := make(map[*Item]bool, len(ranked))
	for i := range ranked {
		it := working[ranked[i].Index]
		res := ranked[i].Result
		it.Match = &res
		matched[it] = true
	}

	if !opts.PreserveOrder {
		out := make([]*Item, len(ranked))
		for i := range ranked {
			out[i] = working[ranked[i].Index]
			out[i].IsDirectMatch = true
		}
		// The current node is pinned into ranked views too: it rides at the
		// bottom when the query text rejected it, leaving the ranking and
		// the best index undisturbed.
		for _, it := range working {
			if it.IsCurrent && !matched[it] {
				it.IsDirectMatch = false
				out = append(out, it)
			}
		}
		return View{Items: out, BestIndex: 0, DirectMatches: len(ranked)}
	}

	bestItem := working[ranked[best].Index]
	fr := Filter(working, func(it *Item) bool { return matched[it] }, opts.KeepHierarchy)

	bestIndex := 0
	for i, it := range fr.Items {
		if it == bestItem {
			bestIndex = i
			break
		}
	}

	return View{
		Items:         fr.Items,
		BestIndex:     bestIndex,
		DirectMatches: fr.DirectMatches,
		Parents:       fr.Parents,
	}
}

// ApplyKindFilter filters a listing by the kind/buffer selections of a
// parsed query, preserving hierarchy when asked to.
func ApplyKindFilter(items []*Item, q Query, keepHierarchy bool) FilterResult {
	kinds := q.KindSet()
	buffer := strings.ToLower(q.Buffer)

	return Filter(items, func(it *Item) bool {
		if kinds != nil && !kinds[it.Kind] {
			return false
		}
		if buffer != "" && !strings.Contains(strings.ToLower(it.Path), buffer) {
			return false
		}
		return true
	}, keepHierarchy)
}

// Resort applies the depth-based sibling reorder; see ResortByDescendants.
func Resort(items []*Item) []*Item {
	return ResortByDescendants(items)
}

// defaultBestIndex places the cursor on the current item when one is
// visible, else on the first row.
func defaultBestIndex(items []*Item) int {
	if len(items) == 0 {
		return -1
	}
	for i, it := range items {
		if it.IsCurrent {
			return i
		}
	}
	return 0
}
