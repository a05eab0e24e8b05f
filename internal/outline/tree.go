package outline

// syntheticRootSignature is the sentinel parent assigned to orphaned items
// while tree state is computed. It contains a NUL byte so no real symbol
// signature can collide with it, and it never survives BuildTreeState.
const syntheticRootSignature = "\x00synthetic-root\x00"

// BuildTreeState annotates every signed item with its TreeState: one
// boolean per ancestor level plus self, true when the node at that level
// is the last among its siblings. Items are mutated in place; the slice is
// returned for convenience.
//
// Listings with zero or several natural roots (call hierarchies whose
// parents live outside the listing, multi-buffer listings) are unified
// under a synthetic root for the duration of the computation: every item
// whose parent signature does not resolve is temporarily re-parented to
// the sentinel, and its original parent signature is restored before the
// function returns. The synthetic root itself is never part of the list.
func BuildTreeState(items []*Item) []*Item {
	if len(items) == 0 {
		return items
	}

	var eligible []*Item
	for _, it := range items {
		if it.Signature != "" {
			eligible = append(eligible, it)
		}
	}
	if len(eligible) == 0 {
		return items
	}

	idx := bySignature(eligible)

	naturalRoots := 0
	anyParented := false
	for _, it := range eligible {
		if it.ParentSig == "" {
			naturalRoots++
		} else {
			anyParented = true
		}
	}

	synthetic := false
	if (naturalRoots == 0 || naturalRoots > 1) && anyParented {
		synthetic = true
		for _, it := range eligible {
			if it.ParentSig == "" {
				continue
			}
			if _, ok := idx[it.ParentSig]; !ok {
				it.trueParent = it.ParentSig
				it.ParentSig = syntheticRootSignature
			}
		}
	}

	children := make(map[string][]*Item)
	var roots []*Item
	for _, it := range eligible {
		if it.ParentSig == "" {
			roots = append(roots, it)
		} else {
			children[it.ParentSig] = append(children[it.ParentSig], it)
		}
	}

	for i, root := range roots {
		root.TreeState = []bool{i == len(roots)-1}
		descendTreeState(root, children)
	}

	if synthetic {
		orphans := children[syntheticRootSignature]
		for i, it := range orphans {
			// Children of the synthetic root start from an empty state,
			// exactly like natural roots.
			it.TreeState = []bool{i == len(orphans)-1}
			descendTreeState(it, children)
		}
		for _, it := range eligible {
			if it.trueParent != "" {
				it.ParentSig = it.trueParent
				it.trueParent = ""
			}
		}
	}

	return items
}

// descendTreeState extends the parent's tree state onto each child in list
// order. Signatures are unique and every item has exactly one parent, so
// the recursion cannot revisit a node.
func descendTreeState(parent *Item, children map[string][]*Item) {
	kids := children[parent.Signature]
	for i, kid := range kids {
		kid.TreeState = append(append([]bool(nil), parent.TreeState...), i == len(kids)-1)
		descendTreeState(kid, children)
	}
}
