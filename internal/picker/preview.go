package picker

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// maxPreviewBytes bounds how much of a source file the preview reads.
// Files larger than this are previewed from their head only.
const maxPreviewBytes = 1 << 20

// loadPreview reads contextLines of source around the 1-based line in
// path and renders it with line numbers, marking the symbol's line.
func loadPreview(path string, line, contextLines int) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no file for preview")
	}
	data, err := readHead(path, maxPreviewBytes)
	if err != nil {
		return "", err
	}

	lines := strings.Split(string(data), "\n")
	if line < 1 {
		line = 1
	}
	start := line - 1 - contextLines
	if start < 0 {
		start = 0
	}
	end := line + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	if start >= len(lines) {
		return "", fmt.Errorf("line %d beyond end of %s", line, path)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		marker := "  "
		if i == line-1 {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%4d  %s", marker, i+1, strings.TrimRight(lines[i], "\r"))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func readHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}
