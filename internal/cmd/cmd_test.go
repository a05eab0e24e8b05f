package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/runger/symnav/internal/outline"
)

func testItems() []*outline.Item {
	symbols := []outline.Symbol{
		{
			Name: "Server", Kind: outline.KindStruct, Line: 5, Col: 6,
			Children: []outline.Symbol{
				{Name: "initialize", Kind: outline.KindMethod, Line: 12, Col: 18},
				{Name: "Shutdown", Kind: outline.KindMethod, Line: 30, Col: 18},
			},
		},
		{Name: "NewServer", Kind: outline.KindFunction, Line: 40, Col: 6, Detail: "func() *Server"},
	}
	return outline.BuildItems(symbols, outline.BuildOptions{})
}

func TestPrintView_FullListing(t *testing.T) {
	items := testItems()
	view := outline.UpdateFilteredView(items, "", outline.ViewOptions{
		PreserveOrder: true,
		KeepHierarchy: true,
	})

	var buf bytes.Buffer
	printView(&buf, view, len(items), false)
	out := buf.String()

	for _, want := range []string{"Server", "initialize", "Shutdown", "NewServer"} {
		if !strings.Contains(out, want) {
			t.Errorf("printView output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "4/4 symbols") {
		t.Errorf("printView footer missing count:\n%s", out)
	}
	// Nested methods carry tree guides.
	if !strings.Contains(out, "\u251c\u2574") || !strings.Contains(out, "\u2570\u2574") {
		t.Errorf("printView output missing tree guides:\n%s", out)
	}
}

func TestPrintView_FilteredFooter(t *testing.T) {
	items := testItems()
	view := outline.UpdateFilteredView(items, "shut", outline.ViewOptions{
		PreserveOrder: true,
		KeepHierarchy: true,
	})

	var buf bytes.Buffer
	printView(&buf, view, len(items), true)
	out := buf.String()

	if !strings.Contains(out, "2/4 symbols") {
		t.Errorf("expected 2/4 footer (match plus ancestor), got:\n%s", out)
	}
	if !strings.Contains(out, "(1 context)") {
		t.Errorf("expected context count in footer, got:\n%s", out)
	}
	if strings.Contains(out, "initialize") {
		t.Errorf("filtered-out sibling should not be printed:\n%s", out)
	}
}

func TestReadPayload_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	data, file, err := readPayload([]string{path})
	if err != nil {
		t.Fatalf("readPayload failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("unexpected payload: %q", data)
	}
	if file != path {
		t.Errorf("expected file %q, got %q", path, file)
	}
}

func TestReadPayload_MissingFile(t *testing.T) {
	_, _, err := readPayload([]string{"/nonexistent/dump.json"})
	if err == nil {
		t.Fatal("expected error for missing payload file")
	}
}

const cmdDocumentSymbolJSON = `[
  {
    "name": "Handler",
    "kind": 23,
    "range": {"start": {"line": 4, "character": 0}, "end": {"line": 20, "character": 1}},
    "selectionRange": {"start": {"line": 4, "character": 5}, "end": {"line": 4, "character": 12}},
    "children": [
      {
        "name": "ServeHTTP",
        "kind": 6,
        "range": {"start": {"line": 8, "character": 0}, "end": {"line": 15, "character": 1}},
        "selectionRange": {"start": {"line": 8, "character": 17}, "end": {"line": 8, "character": 26}}
      }
    ]
  }
]`

func TestSymbolsCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	payload := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(payload, []byte(cmdDocumentSymbolJSON), 0644); err != nil {
		t.Fatal(err)
	}

	symbolsQuery, symbolsBuffer, symbolsRanked, symbolsResort = "", "", false, false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"symbols", payload})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("symbols command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Handler") || !strings.Contains(out, "ServeHTTP") {
		t.Errorf("symbols output missing symbol names:\n%s", out)
	}
	if !strings.Contains(out, "2/2 symbols") {
		t.Errorf("symbols output missing footer:\n%s", out)
	}
}

func TestSymbolsCommand_Query(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	payload := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(payload, []byte(cmdDocumentSymbolJSON), 0644); err != nil {
		t.Fatal(err)
	}

	symbolsQuery, symbolsBuffer, symbolsRanked, symbolsResort = "", "", false, false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"symbols", payload, "-q", "serve"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("symbols command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ServeHTTP") {
		t.Errorf("expected match in output:\n%s", out)
	}
	if !strings.Contains(out, "2/2 symbols (1 context)") {
		t.Errorf("expected ancestor re-inclusion in footer:\n%s", out)
	}
}

func TestSymbolsCommand_BadPayload(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dir := t.TempDir()
	payload := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(payload, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	symbolsQuery, symbolsBuffer, symbolsRanked, symbolsResort = "", "", false, false

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"symbols", payload})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unrecognized payload")
	}
}

func TestKindsCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"kinds"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("kinds command failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "/f") || !strings.Contains(out, "Function") {
		t.Errorf("kinds output missing /f mapping:\n%s", out)
	}
	if !strings.Contains(out, "/d") || !strings.Contains(out, "Diagnostic") {
		t.Errorf("kinds output missing /d mapping:\n%s", out)
	}
}
