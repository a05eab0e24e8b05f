package outline

import "sort"

// ResortByDescendants reorders siblings so that simpler subtrees (fewer
// total descendants) come first, ties broken alphabetically by name. The
// tree shape is untouched: only sibling order changes. The rebuilt list is
// emitted depth-first from the current-position item, disconnected items
// are appended in their original order, and tree state is recomputed to
// reflect the new order.
//
// Without a current item the listing is returned unchanged; this is a
// no-op, not an error.
func ResortByDescendants(items []*Item) []*Item {
	var root *Item
	for _, it := range items {
		if it.IsCurrent {
			root = it
			break
		}
	}
	if root == nil {
		return items
	}

	children := make(map[string][]*Item)
	for _, it := range items {
		if it.ParentSig != "" {
			children[it.ParentSig] = append(children[it.ParentSig], it)
		}
	}

	counts := make(map[string]int, len(items))
	for _, it := range items {
		if it.Signature != "" {
			counts[it.Signature] = countDescendants(it, children, map[string]bool{})
		}
	}

	for sig, kids := range children {
		sorted := append([]*Item(nil), kids...)
		sort.SliceStable(sorted, func(i, j int) bool {
			ci, cj := counts[sorted[i].Signature], counts[sorted[j].Signature]
			if ci != cj {
				return ci < cj
			}
			return sorted[i].Name < sorted[j].Name
		})
		children[sig] = sorted
	}

	emitted := make(map[*Item]bool, len(items))
	out := make([]*Item, 0, len(items))
	out = emitSubtree(root, children, emitted, out)

	// Anything not reachable from the current root keeps its original
	// relative order at the tail.
	for _, it := range items {
		if !emitted[it] {
			out = append(out, it)
			emitted[it] = true
		}
	}

	return BuildTreeState(out)
}

// countDescendants totals the subtree below it. The visited set is local
// to each invocation: the same node may legitimately be counted from
// several independent ancestors, but within one count a revisit means a
// parent-link cycle and contributes nothing further.
func countDescendants(it *Item, children map[string][]*Item, visited map[string]bool) int {
	if it.Signature == "" || visited[it.Signature] {
		return 0
	}
	visited[it.Signature] = true

	total := 0
	for _, kid := range children[it.Signature] {
		total += 1 + countDescendants(kid, children, visited)
	}
	return total
}

// emitSubtree appends it and its subtree depth-first, skipping anything
// already emitted so a malformed parent link cannot loop.
func emitSubtree(it *Item, children map[string][]*Item, emitted map[*Item]bool, out []*Item) []*Item {
	if emitted[it] {
		return out
	}
	emitted[it] = true
	out = append(out, it)
	for _, kid := range children[it.Signature] {
		out = emitSubtree(kid, children, emitted, out)
	}
	return out
}
