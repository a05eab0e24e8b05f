// Package picker implements the interactive symbol picker TUI: a query
// line over a tree-structured symbol listing, with an optional source
// preview for the selected symbol.
package picker

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/runger/symnav/internal/outline"
)

// pickerState represents the current state of the picker's state machine.
type pickerState int

const (
	stateIdle      pickerState = iota // Initial state before first fetch
	stateLoading                      // Fetch in progress
	stateLoaded                       // Items loaded successfully (len > 0)
	stateEmpty                        // Fetch succeeded but returned 0 items
	stateError                        // Fetch failed
	stateCancelled                    // User cancelled (Esc / Ctrl+C)
)

// fetchDoneMsg is sent when the async Provider.Fetch completes.
type fetchDoneMsg struct {
	requestID uint64
	items     []*outline.Item
	buffer    string
	err       error
}

// previewTickMsg fires after the preview debounce timer expires.
type previewTickMsg struct {
	id uint64 // Must match current previewID to be accepted
}

// previewDoneMsg carries the loaded preview text back into Update.
type previewDoneMsg struct {
	token   string // Must match the current preview token to be accepted
	content string
	err     error
}

// initMsg is sent by Init() to trigger the first fetch via Update(),
// ensuring state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// Options configures picker behavior from user configuration.
type Options struct {
	// Revision is the opaque buffer revision token forwarded to the
	// provider for cache lookups.
	Revision string

	PreserveOrder  bool
	KeepHierarchy  bool
	PreviewEnabled bool
	PreviewContext int // Lines of context around the symbol position
	MaxVisibleRows int
	Debounce       time.Duration
	KindCodes      map[string][]outline.Kind
}

// Model is the Bubble Tea model for the symbol picker TUI.
// It must be exported so that cmd/symnav-picker can use it.
type Model struct {
	state pickerState
	opts  Options

	buffer    string          // Buffer the listing was fetched for
	items     []*outline.Item // Full listing; the view is derived from it
	view      outline.View    // Current filtered view
	selection int             // Index into view.Items; -1 when empty
	scroll    int             // First visible list row
	err       error

	query   textinput.Model
	preview viewport.Model

	requestID uint64 // Monotonic counter for stale fetch detection
	provider  Provider

	width  int // Terminal width
	height int // Terminal height

	// result holds the selected item after the user presses Enter.
	result *outline.Item

	// cancelFetch cancels the in-flight Provider.Fetch context.
	cancelFetch context.CancelFunc

	// sessionID namespaces preview tokens so reads started by an earlier
	// picker session can never be accepted by a later one.
	sessionID string

	// previewID tracks the latest preview debounce timer; only a matching
	// previewTickMsg triggers a file read.
	previewID    uint64
	previewToken string // Token of the preview read whose result is current
	previewText  string
}

// NewModel creates a new picker Model for the given buffer.
func NewModel(buffer string, provider Provider, opts Options) Model {
	if opts.MaxVisibleRows <= 0 {
		opts.MaxVisibleRows = 20
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 40 * time.Millisecond
	}

	query := textinput.New()
	query.Prompt = "> "
	query.Placeholder = "filter symbols (/f /c /v /m /d /t, /b buffer)"
	query.Focus()

	return Model{
		state:     stateIdle,
		opts:      opts,
		buffer:    buffer,
		selection: -1,
		query:     query,
		preview:   viewport.New(0, opts.PreviewContext*2+1),
		provider:  provider,
		sessionID: uuid.NewString(),
	}
}

// Result returns the selected item, or nil when cancelled.
func (m Model) Result() *outline.Item {
	return m.result
}

// IsCancelled reports whether the user dismissed the picker without
// selecting anything.
func (m Model) IsCancelled() bool {
	return m.state == stateCancelled
}

// WithQuery seeds the query line before the program starts. The filtered
// view is derived once the listing arrives, so setting the text is enough.
func (m Model) WithQuery(q string) Model {
	m.query.SetValue(q)
	m.query.CursorEnd()
	return m
}

// Init implements tea.Model. It sends an initMsg so that the first fetch
// is triggered through Update, where state mutations are properly captured.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = msg.Width
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case previewTickMsg:
		return m.handlePreviewTick(msg)

	case previewDoneMsg:
		return m.handlePreviewDone(msg)

	case initMsg:
		return m, m.startFetch()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.state = stateCancelled
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyEnter:
		if m.selection >= 0 && m.selection < len(m.view.Items) {
			m.result = m.view.Items[m.selection]
		}
		m.cancelInflight()
		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP:
		if m.selection > 0 {
			m.selection--
			m.clampScroll()
			return m, m.schedulePreview()
		}
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.selection < len(m.view.Items)-1 {
			m.selection++
			m.clampScroll()
			return m, m.schedulePreview()
		}
		return m, nil

	case tea.KeyCtrlR:
		// Reorder siblings by subtree size; only meaningful for listings
		// with a current node, a no-op otherwise.
		m.items = outline.Resort(m.items)
		m.refreshView()
		return m, m.schedulePreview()
	}

	var cmd tea.Cmd
	before := m.query.Value()
	m.query, cmd = m.query.Update(msg)
	if m.query.Value() != before {
		m.refreshView()
		return m, tea.Batch(cmd, m.schedulePreview())
	}
	return m, cmd
}

// handleFetchDone processes the result of the async fetch.
func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	// Discard stale responses.
	if msg.requestID != m.requestID {
		return m, nil
	}

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.items = nil
		m.view = outline.View{BestIndex: -1}
		m.selection = -1
		return m, nil
	}

	m.items = msg.items
	if msg.buffer != "" {
		m.buffer = msg.buffer
	}
	m.refreshView()

	if len(m.items) == 0 {
		m.state = stateEmpty
		return m, nil
	}
	m.state = stateLoaded
	return m, m.schedulePreview()
}

// handlePreviewTick fires the preview read if the timer is still current.
func (m Model) handlePreviewTick(msg previewTickMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.previewID {
		return m, nil // Stale debounce timer; ignore.
	}
	if !m.opts.PreviewEnabled {
		return m, nil
	}
	item := m.selectedItem()
	if item == nil {
		m.previewText = ""
		return m, nil
	}

	token := m.previewTokenFor(msg.id)
	m.previewToken = token
	contextLines := m.opts.PreviewContext
	return m, func() tea.Msg {
		content, err := loadPreview(item.Path, item.Line, contextLines)
		return previewDoneMsg{token: token, content: content, err: err}
	}
}

// handlePreviewDone accepts a finished preview read unless the selection
// moved on since it started.
func (m Model) handlePreviewDone(msg previewDoneMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.previewToken {
		return m, nil
	}
	if msg.err != nil {
		// Preview is best-effort; a failed read blanks the pane.
		m.previewText = ""
		return m, nil
	}
	m.previewText = ValidateUTF8(StripANSI(msg.content))
	m.preview.SetContent(m.previewText)
	return m, nil
}

// refreshView recomputes the filtered view for the current query and
// re-derives the selection and scroll window. This is synchronous: the
// listing is in memory and matching is pure CPU work.
func (m *Model) refreshView() {
	m.view = outline.UpdateFilteredView(m.items, m.query.Value(), outline.ViewOptions{
		PreserveOrder: m.opts.PreserveOrder,
		KeepHierarchy: m.opts.KeepHierarchy,
		KindCodes:     m.opts.KindCodes,
	})
	m.selection = m.view.BestIndex
	m.scroll = 0
	m.clampScroll()
}

// schedulePreview restarts the preview debounce timer.
func (m *Model) schedulePreview() tea.Cmd {
	if !m.opts.PreviewEnabled {
		return nil
	}
	m.previewID++
	id := m.previewID
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return previewTickMsg{id: id}
	})
}

func (m Model) previewTokenFor(id uint64) string {
	return m.sessionID + "/" + strconv.FormatUint(id, 10)
}

// startFetch cancels any in-flight fetch, increments requestID, and
// returns a tea.Cmd that calls the provider.
func (m *Model) startFetch() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	req := Request{
		RequestID: reqID,
		Buffer:    m.buffer,
		Revision:  m.opts.Revision,
	}

	p := m.provider
	return func() tea.Msg {
		resp, err := p.Fetch(ctx, req)
		if err != nil {
			return fetchDoneMsg{requestID: reqID, err: err}
		}
		return fetchDoneMsg{
			requestID: reqID,
			items:     resp.Items,
			buffer:    resp.Buffer,
		}
	}
}

// cancelInflight cancels any in-progress fetch context.
func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// clampScroll keeps the selection within bounds and inside the visible
// window.
func (m *Model) clampScroll() {
	if len(m.view.Items) == 0 {
		m.selection = -1
		m.scroll = 0
		return
	}
	if m.selection < 0 {
		m.selection = 0
	}
	if m.selection >= len(m.view.Items) {
		m.selection = len(m.view.Items) - 1
	}

	rows := m.listHeight()
	if m.selection < m.scroll {
		m.scroll = m.selection
	}
	if m.selection >= m.scroll+rows {
		m.scroll = m.selection - rows + 1
	}
	if max := len(m.view.Items) - rows; m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m Model) selectedItem() *outline.Item {
	if m.selection < 0 || m.selection >= len(m.view.Items) {
		return nil
	}
	return m.view.Items[m.selection]
}

// listHeight returns the number of visible list rows: the configured cap,
// shrunk to what the terminal and the preview pane leave available.
func (m Model) listHeight() int {
	// 1 row for the query line, 1 row for the status line.
	chrome := 2
	if m.opts.PreviewEnabled {
		chrome += m.preview.Height + 1 // preview pane plus separator
	}
	h := m.height - chrome
	if m.height == 0 || h > m.opts.MaxVisibleRows {
		h = m.opts.MaxVisibleRows
	}
	if h < 1 {
		h = 1
	}
	return h
}
