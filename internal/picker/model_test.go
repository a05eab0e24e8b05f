package picker

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/symnav/internal/outline"
)

// --- Mock provider ---

type mockProvider struct {
	items  []*outline.Item
	buffer string
	err    error
	delay  time.Duration // Optional delay to simulate slow fetch
}

func (p *mockProvider) Fetch(ctx context.Context, req Request) (Response, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
	}
	if p.err != nil {
		return Response{}, p.err
	}
	return Response{
		RequestID: req.RequestID,
		Items:     p.items,
		Buffer:    p.buffer,
	}, nil
}

func serverListing() []*outline.Item {
	return outline.BuildItems([]outline.Symbol{
		{
			Name: "Server", Kind: outline.KindClass, Path: "server.go", Line: 10, Col: 1,
			Children: []outline.Symbol{
				{Name: "initialize", Kind: outline.KindMethod, Path: "server.go", Line: 12, Col: 2},
				{Name: "Shutdown", Kind: outline.KindMethod, Path: "server.go", Line: 30, Col: 2},
				{Name: "timeout", Kind: outline.KindField, Path: "server.go", Line: 11, Col: 2},
			},
		},
		{Name: "NewServer", Kind: outline.KindFunction, Path: "server.go", Line: 40, Col: 1},
	}, outline.BuildOptions{})
}

func testOptions() Options {
	return Options{
		PreserveOrder:  true,
		KeepHierarchy:  true,
		PreviewEnabled: false, // Tests that need the preview enable it explicitly
		PreviewContext: 3,
		MaxVisibleRows: 10,
		Debounce:       time.Millisecond,
	}
}

func newTestModel(p Provider) Model {
	m := NewModel("server.go", p, testOptions())
	m.width = 80
	m.height = 24
	return m
}

// runCmd executes a tea.Cmd synchronously and returns the resulting message.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// loadedModel drives a model through init and fetch completion.
func loadedModel(t *testing.T, p Provider) Model {
	t.Helper()
	m := newTestModel(p)

	model, cmd := m.Update(initMsg{})
	m = model.(Model)
	require.Equal(t, stateLoading, m.state)

	msg := runCmd(cmd)
	require.IsType(t, fetchDoneMsg{}, msg)
	model, _ = m.Update(msg)
	return model.(Model)
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = model.(Model)
	}
	return m
}

// --- State machine ---

func TestInitialState(t *testing.T) {
	m := newTestModel(&mockProvider{})
	assert.Equal(t, stateIdle, m.state)
	assert.Equal(t, -1, m.selection)
	assert.Nil(t, m.Result())
}

func TestInit_TransitionsToLoading(t *testing.T) {
	m := newTestModel(&mockProvider{items: serverListing()})

	msg := runCmd(m.Init())
	require.IsType(t, initMsg{}, msg)

	model, cmd := m.Update(msg)
	m = model.(Model)
	assert.Equal(t, stateLoading, m.state)
	assert.NotNil(t, cmd)
}

func TestFetch_ToLoaded(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	assert.Equal(t, stateLoaded, m.state)
	assert.Len(t, m.view.Items, 5)
	assert.Equal(t, 0, m.selection)
}

func TestFetch_ToEmpty(t *testing.T) {
	m := loadedModel(t, &mockProvider{})

	assert.Equal(t, stateEmpty, m.state)
	assert.Equal(t, -1, m.selection)
}

func TestFetch_ToError(t *testing.T) {
	m := loadedModel(t, &mockProvider{err: errors.New("ctags exploded")})

	assert.Equal(t, stateError, m.state)
	assert.Error(t, m.err)
	assert.Equal(t, -1, m.selection)
}

func TestFetch_ResolvesBuffer(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing(), buffer: "/abs/server.go"})
	assert.Equal(t, "/abs/server.go", m.buffer)
}

func TestStaleResponse_Discarded(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	stale := fetchDoneMsg{requestID: m.requestID - 1, err: errors.New("old")}
	model, _ := m.Update(stale)
	m = model.(Model)

	assert.Equal(t, stateLoaded, m.state, "a stale response must not change state")
	assert.NoError(t, m.err)
}

func TestEsc_Cancels(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	model, cmd := m.Update(key(tea.KeyEsc))
	m = model.(Model)

	assert.Equal(t, stateCancelled, m.state)
	assert.Nil(t, m.Result())
	assert.NotNil(t, cmd) // tea.Quit
}

func TestEnter_SelectsItem(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	model, _ := m.Update(key(tea.KeyDown))
	m = model.(Model)
	model, _ = m.Update(key(tea.KeyEnter))
	m = model.(Model)

	require.NotNil(t, m.Result())
	assert.Equal(t, "initialize", m.Result().Name)
}

func TestEnter_EmptyList_NoResult(t *testing.T) {
	m := loadedModel(t, &mockProvider{})

	model, _ := m.Update(key(tea.KeyEnter))
	m = model.(Model)

	assert.Nil(t, m.Result())
}

// --- Navigation ---

func TestUpDown_Navigation(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	model, _ := m.Update(key(tea.KeyDown))
	m = model.(Model)
	assert.Equal(t, 1, m.selection)

	model, _ = m.Update(key(tea.KeyUp))
	m = model.(Model)
	assert.Equal(t, 0, m.selection)

	// Up at the top is a no-op.
	model, _ = m.Update(key(tea.KeyUp))
	m = model.(Model)
	assert.Equal(t, 0, m.selection)
}

func TestDown_StopsAtLastItem(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	for i := 0; i < 20; i++ {
		model, _ := m.Update(key(tea.KeyDown))
		m = model.(Model)
	}
	assert.Equal(t, len(m.view.Items)-1, m.selection)
}

func TestScroll_FollowsSelection(t *testing.T) {
	opts := testOptions()
	opts.MaxVisibleRows = 2
	m := NewModel("server.go", &mockProvider{items: serverListing()}, opts)
	m.width, m.height = 80, 24

	model, cmd := m.Update(initMsg{})
	m = model.(Model)
	model, _ = m.Update(runCmd(cmd))
	m = model.(Model)

	for i := 0; i < 3; i++ {
		model, _ = m.Update(key(tea.KeyDown))
		m = model.(Model)
	}
	assert.Equal(t, 3, m.selection)
	assert.Equal(t, 2, m.scroll, "selection stays inside the visible window")
}

// --- Querying ---

func TestTyping_FiltersSynchronously(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	m = typeRunes(m, "init")

	assert.Equal(t, "init", m.query.Value())
	// initialize survives with Server as context.
	require.Len(t, m.view.Items, 2)
	assert.Equal(t, "initialize", m.view.Items[m.selection].Name,
		"cursor lands on the best match")
}

func TestTyping_KindToken(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})

	m = typeRunes(m, "/v")

	names := make([]string, len(m.view.Items))
	for i, it := range m.view.Items {
		names[i] = it.Name
	}
	assert.Equal(t, []string{"Server", "timeout"}, names)
}

func TestBackspace_RestoresView(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})
	m = typeRunes(m, "zzz")
	assert.Empty(t, m.view.Items)

	for i := 0; i < 3; i++ {
		model, _ := m.Update(key(tea.KeyBackspace))
		m = model.(Model)
	}

	assert.Len(t, m.view.Items, 5, "clearing the query restores the full listing")
}

func TestResort_ReordersCallHierarchy(t *testing.T) {
	items := outline.BuildItems([]outline.Symbol{
		{
			Name: "dispatch", Kind: outline.KindFunction, Line: 1, Current: true,
			Children: []outline.Symbol{
				{Name: "handleHTTP", Kind: outline.KindFunction, Line: 2,
					Children: []outline.Symbol{{Name: "main", Kind: outline.KindFunction, Line: 3}}},
				{Name: "cronTick", Kind: outline.KindFunction, Line: 4},
			},
		},
	}, outline.BuildOptions{})
	m := loadedModel(t, &mockProvider{items: items})

	model, _ := m.Update(key(tea.KeyCtrlR))
	m = model.(Model)

	names := make([]string, len(m.view.Items))
	for i, it := range m.view.Items {
		names[i] = it.Name
	}
	assert.Equal(t, []string{"dispatch", "cronTick", "handleHTTP", "main"}, names)
}

// --- Preview ---

func TestPreviewTick_StaleTimerIgnored(t *testing.T) {
	opts := testOptions()
	opts.PreviewEnabled = true
	m := NewModel("server.go", &mockProvider{items: serverListing()}, opts)
	m.previewID = 5

	model, cmd := m.Update(previewTickMsg{id: 3})
	m = model.(Model)

	assert.Nil(t, cmd, "a superseded debounce timer must not trigger a read")
}

func TestPreviewDone_StaleTokenIgnored(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})
	m.previewToken = "current"

	model, _ := m.Update(previewDoneMsg{token: "older", content: "stale text"})
	m = model.(Model)

	assert.Empty(t, m.previewText)
}

func TestPreviewDone_AcceptsCurrentToken(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})
	m.previewToken = "current"

	model, _ := m.Update(previewDoneMsg{token: "current", content: "func main() {"})
	m = model.(Model)

	assert.Equal(t, "func main() {", m.previewText)
}

func TestPreviewDone_ErrorBlanksPane(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})
	m.previewToken = "current"
	m.previewText = "old"

	model, _ := m.Update(previewDoneMsg{token: "current", err: errors.New("gone")})
	m = model.(Model)

	assert.Empty(t, m.previewText)
}

// --- View ---

func TestView_ShowsLoadingState(t *testing.T) {
	m := newTestModel(&mockProvider{})
	model, _ := m.Update(initMsg{})
	m = model.(Model)

	assert.Contains(t, m.View(), "Loading")
}

func TestView_ShowsErrorState(t *testing.T) {
	m := loadedModel(t, &mockProvider{err: errors.New("boom")})
	assert.Contains(t, m.View(), "boom")
}

func TestView_ShowsGuidesAndKinds(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})
	out := m.View()

	assert.Contains(t, out, "Server")
	assert.Contains(t, out, "╰╴")
	assert.Contains(t, out, "[Method]")
}

func TestView_ShowsMatchCounts(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})
	m = typeRunes(m, "init")

	out := m.View()
	assert.Contains(t, out, "2/5")
	assert.Contains(t, out, "(1 context)")
}

func TestView_NoMatches(t *testing.T) {
	m := loadedModel(t, &mockProvider{items: serverListing()})
	m = typeRunes(m, "qqqq")

	assert.Contains(t, m.View(), "No matches")
}

func TestHighlightRanges_Spans(t *testing.T) {
	items := serverListing()
	m := loadedModel(t, &mockProvider{items: items})
	m = typeRunes(m, "shut")

	var matched *outline.Item
	for _, it := range m.view.Items {
		if it.Name == "Shutdown" {
			matched = it
		}
	}
	require.NotNil(t, matched)
	require.NotNil(t, matched.Match)

	// The raw name must survive styling and splitting.
	row := m.renderRow(matched, false)
	assert.Contains(t, StripANSI(row), "Shutdown")
}
