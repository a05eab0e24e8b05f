package outline

import "strings"

// Guide glyphs. A node's own level renders a branch glyph; ancestor levels
// render a continuation bar unless that ancestor was the last sibling.
const (
	guideBar    = "│ "
	guideBlank  = "  "
	guideBranch = "├╴"
	guideLast   = "╰╴"
)

// Guides renders an item's TreeState into the guide prefix drawn before
// its name. It is a pure function of the tree state; callers must ensure
// BuildTreeState ran after the last ordering change.
func Guides(treeState []bool) string {
	if len(treeState) == 0 {
		return ""
	}
	var b strings.Builder
	for _, last := range treeState[:len(treeState)-1] {
		if last {
			b.WriteString(guideBlank)
		} else {
			b.WriteString(guideBar)
		}
	}
	if treeState[len(treeState)-1] {
		b.WriteString(guideLast)
	} else {
		b.WriteString(guideBranch)
	}
	return b.String()
}
