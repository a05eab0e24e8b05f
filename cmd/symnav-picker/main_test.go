package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty", "", "", false},
		{"plain", "handler /f", "handler /f", false},
		{"tab preserved", "a\tb", "a\tb", false},
		{"control chars stripped", "a\x01\x02b", "ab", false},
		{"newline rejected", "a\nb", "", true},
		{"carriage return rejected", "a\rb", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeQuery(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeQuery_Truncation(t *testing.T) {
	long := strings.Repeat("x", maxQueryLen+100)
	got, err := sanitizeQuery(long)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != maxQueryLen {
		t.Errorf("expected %d bytes, got %d", maxQueryLen, len(got))
	}
}

func TestParseFlags_Symbols(t *testing.T) {
	opts, err := parseFlags("symbols", []string{
		"--file", "dump.json",
		"--buffer", "main.go",
		"--revision", "v3",
		"--query", "init",
	})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.file != "dump.json" || opts.buffer != "main.go" || opts.revision != "v3" || opts.query != "init" {
		t.Errorf("unexpected opts: %+v", opts)
	}
}

func TestParseFlags_SymbolsRejectsPositional(t *testing.T) {
	if _, err := parseFlags("symbols", []string{"stray"}); err == nil {
		t.Fatal("expected error for unexpected positional argument")
	}
}

func TestParseFlags_Tags(t *testing.T) {
	opts, err := parseFlags("tags", []string{"--query", "parse", "lib/parser.rb"})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if opts.target != "lib/parser.rb" || opts.query != "parse" {
		t.Errorf("unexpected opts: %+v", opts)
	}
}

func TestParseFlags_TagsRequiresTarget(t *testing.T) {
	if _, err := parseFlags("tags", nil); err == nil {
		t.Fatal("expected error when target file is missing")
	}
	if _, err := parseFlags("tags", []string{"a.go", "b.go"}); err == nil {
		t.Fatal("expected error for extra target files")
	}
}

func TestReadPayload_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := readPayload(path)
	if err != nil {
		t.Fatalf("readPayload failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("unexpected payload: %q", data)
	}
}

func TestReadPayload_Missing(t *testing.T) {
	if _, err := readPayload("/nonexistent/dump.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
