package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runger/symnav/internal/match"
	"github.com/runger/symnav/internal/outline"
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	contextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	matchStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	guideStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	kindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("37"))
	currentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.query.View())
	b.WriteRune('\n')

	b.WriteString(m.viewContent())
	b.WriteRune('\n')

	if m.opts.PreviewEnabled && m.previewText != "" {
		b.WriteString(dimStyle.Render(strings.Repeat("─", m.paneWidth())))
		b.WriteRune('\n')
		b.WriteString(m.preview.View())
		b.WriteRune('\n')
	}

	b.WriteString(m.viewStatus())

	return b.String()
}

// viewContent renders the item list or a status message.
func (m Model) viewContent() string {
	switch m.state {
	case stateIdle, stateLoading:
		return dimStyle.Render("Loading...")

	case stateEmpty:
		return dimStyle.Render("No symbols")

	case stateError:
		msg := "Error"
		if m.err != nil {
			msg = fmt.Sprintf("Error: %s", m.err)
		}
		return errorStyle.Render(msg)

	case stateCancelled:
		return dimStyle.Render("Cancelled")

	case stateLoaded:
		if len(m.view.Items) == 0 {
			return dimStyle.Render("No matches")
		}
		return m.viewList()

	default:
		return ""
	}
}

// viewList renders the visible window of the listing with tree guides,
// selection marker, and match highlighting.
func (m Model) viewList() string {
	var b strings.Builder
	rows := m.listHeight()
	end := m.scroll + rows
	if end > len(m.view.Items) {
		end = len(m.view.Items)
	}

	for i := m.scroll; i < end; i++ {
		b.WriteString(m.renderRow(m.view.Items[i], i == m.selection))
		if i < end-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// renderRow renders one item row. Context-only ancestors are dimmed so
// direct matches stand out; the current node keeps its accent regardless.
func (m Model) renderRow(it *outline.Item, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	guides := outline.Guides(it.TreeState)
	kind := ""
	if it.Kind != "" {
		kind = " [" + string(it.Kind) + "]"
	}
	detail := ""
	if it.Detail != "" {
		detail = "  " + it.Detail
	}

	// Budget the row before styling; styled strings cannot be truncated
	// without corrupting escape sequences.
	width := m.paneWidth() - len(marker)
	plain := guides + it.Name + kind + detail
	if MiddleTruncate(StripANSI(plain), width) != plain {
		style := m.rowStyle(it, selected)
		return marker + style.Render(MiddleTruncate(StripANSI(plain), width))
	}

	name := m.renderName(it, selected)
	return marker +
		guideStyle.Render(guides) +
		name +
		kindStyle.Render(kind) +
		dimStyle.Render(detail)
}

func (m Model) rowStyle(it *outline.Item, selected bool) lipgloss.Style {
	switch {
	case selected:
		return selectedStyle
	case it.IsCurrent:
		return currentStyle
	case !it.IsDirectMatch && m.query.Value() != "":
		return contextStyle
	default:
		return normalStyle
	}
}

// renderName renders the item name with its matched ranges highlighted.
func (m Model) renderName(it *outline.Item, selected bool) string {
	base := m.rowStyle(it, selected)
	return highlightRanges(it.Name, it.Match, base)
}

// highlightRanges splits name on the 1-based inclusive rune ranges of the
// match result and restyles the matched spans.
func highlightRanges(name string, res *match.Result, base lipgloss.Style) string {
	if res == nil || len(res.Ranges) == 0 {
		return base.Render(name)
	}

	runes := []rune(name)
	var b strings.Builder
	prev := 0
	for _, r := range res.Ranges {
		start, end := r[0]-1, r[1] // to 0-based half-open
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start >= len(runes) || end <= start {
			continue
		}
		if start > prev {
			b.WriteString(base.Render(string(runes[prev:start])))
		}
		b.WriteString(matchStyle.Render(string(runes[start:end])))
		prev = end
	}
	if prev < len(runes) {
		b.WriteString(base.Render(string(runes[prev:])))
	}
	return b.String()
}

// viewStatus renders the match-count footer.
func (m Model) viewStatus() string {
	if m.state != stateLoaded {
		return dimStyle.Render(m.buffer)
	}

	status := fmt.Sprintf("%d/%d", len(m.view.Items), len(m.items))
	if m.view.Parents > 0 {
		status += fmt.Sprintf(" (%d context)", m.view.Parents)
	}
	if m.buffer != "" {
		status += "  " + m.buffer
	}
	return dimStyle.Render(status)
}

// paneWidth is the usable width; before the first WindowSizeMsg a sane
// default keeps headless tests rendering.
func (m Model) paneWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}
