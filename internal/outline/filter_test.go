package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classTree builds a class with two methods and a nested helper struct:
//
//	Widget (Class)
//	  Render (Method)
//	  cache (Field)
//	  options (Struct)
//	    retries (Field)
func classTree() []*Item {
	items := []*Item{
		{Name: "Widget", Kind: KindClass, Depth: 0},
		{Name: "Render", Kind: KindMethod, Depth: 1},
		{Name: "cache", Kind: KindField, Depth: 1},
		{Name: "options", Kind: KindStruct, Depth: 1},
		{Name: "retries", Kind: KindField, Depth: 2},
	}
	return newListing(items...)
}

func TestFilterSupersetProperty(t *testing.T) {
	items := classTree()
	BuildTreeState(items)

	fr := Filter(items, func(it *Item) bool { return it.Kind == KindField }, true)

	// Direct matches: cache, retries. Required ancestors: Widget, options.
	assert.Equal(t, 2, fr.DirectMatches)
	assert.Equal(t, 2, fr.Parents)
	require.Len(t, fr.Items, 4)

	names := itemNames(fr.Items)
	assert.Equal(t, []string{"Widget", "cache", "options", "retries"}, names,
		"original relative order is preserved")

	// Every context-only item must have a direct match among its
	// descendants within the result set.
	idx := bySignature(fr.Items)
	for _, it := range fr.Items {
		if it.IsDirectMatch {
			continue
		}
		found := false
		for _, m := range fr.Items {
			if !m.IsDirectMatch {
				continue
			}
			for sig := m.ParentSig; sig != ""; {
				if sig == it.Signature {
					found = true
					break
				}
				p, ok := idx[sig]
				if !ok {
					break
				}
				sig = p.ParentSig
			}
		}
		assert.True(t, found, "%s was included without a matching descendant", it.Name)
	}
}

func TestFilterDoesNotDuplicateSharedAncestors(t *testing.T) {
	items := classTree()

	fr := Filter(items, func(it *Item) bool { return it.Kind == KindMethod || it.Kind == KindField }, true)

	seen := make(map[*Item]int)
	for _, it := range fr.Items {
		seen[it]++
	}
	for it, n := range seen {
		assert.Equal(t, 1, n, "%s appears %d times", it.Name, n)
	}
}

func TestFilterNonHierarchicalMode(t *testing.T) {
	items := classTree()

	fr := Filter(items, func(it *Item) bool { return it.Kind == KindField }, false)

	assert.Equal(t, 2, fr.DirectMatches)
	assert.Zero(t, fr.Parents)
	assert.Equal(t, []string{"cache", "retries"}, itemNames(fr.Items))
}

func TestFilterNoMatchesIsEmptyNotError(t *testing.T) {
	items := classTree()

	fr := Filter(items, func(*Item) bool { return false }, true)

	assert.Empty(t, fr.Items)
	assert.Zero(t, fr.DirectMatches)
}

func TestFilterPinsCurrentItem(t *testing.T) {
	items := classTree()
	items[0].IsCurrent = true

	fr := Filter(items, func(it *Item) bool { return it.Kind == KindMethod }, false)

	names := itemNames(fr.Items)
	assert.Contains(t, names, "Widget", "current item survives a rejecting predicate")
	assert.Equal(t, 1, fr.DirectMatches, "pinned current item is not a direct match")

	for _, it := range fr.Items {
		if it.Name == "Widget" {
			assert.False(t, it.IsDirectMatch)
		}
	}
}

func TestParseQuery(t *testing.T) {
	codes := KindCodes()

	tests := []struct {
		name   string
		raw    string
		kinds  int
		buffer string
		text   string
	}{
		{"plain text", "render", 0, "", "render"},
		{"kind token", "/f render", 3, "", "render"},
		{"kind token only", "/f", 3, "", ""},
		{"buffer token", "/b main.go render", 0, "main.go", "render"},
		{"chained", "/f /b main.go render", 3, "main.go", "render"},
		{"unknown code stays literal", "/z render", 0, "", "/z render"},
		{"slash alone", "/", 0, "", "/"},
		{"buffer token without name", "/b", 0, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.raw, codes)
			assert.Len(t, q.Kinds, tt.kinds)
			assert.Equal(t, tt.buffer, q.Buffer)
			assert.Equal(t, tt.text, q.Text)
		})
	}
}

func itemNames(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
