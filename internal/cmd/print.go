package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/runger/symnav/internal/outline"
	"github.com/runger/symnav/internal/picker"
)

// termWidth returns the terminal width, preferring the ioctl and falling
// back to $COLUMNS. Returns 0 when unknown; callers skip truncation then.
func termWidth() int {
	if w := getTermWidthIoctl(); w > 0 {
		return w
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if w, err := strconv.Atoi(cols); err == nil && w > 0 {
			return w
		}
	}
	return 0
}

// printView writes the filtered listing as a guide-decorated tree, one row
// per item, followed by a match-count footer.
func printView(w io.Writer, view outline.View, total int, hasQuery bool) {
	width := termWidth()

	for _, it := range view.Items {
		guides := outline.Guides(it.TreeState)
		kind := ""
		if it.Kind != "" {
			kind = " [" + string(it.Kind) + "]"
		}
		detail := ""
		if it.Detail != "" {
			detail = "  " + it.Detail
		}

		plain := guides + it.Name + kind + detail
		if width > 0 && picker.MiddleTruncate(plain, width) != plain {
			// Colored rows cannot be truncated safely; print plain.
			fmt.Fprintln(w, picker.MiddleTruncate(plain, width))
			continue
		}

		name := it.Name
		switch {
		case it.IsCurrent:
			name = colorBold + name + colorReset
		case hasQuery && !it.IsDirectMatch:
			name = colorDim + name + colorReset
		}
		fmt.Fprintf(w, "%s%s%s%s%s%s%s%s%s\n",
			colorDim, guides, colorReset,
			name,
			colorCyan, kind, colorReset,
			colorDim+detail, colorReset)
	}

	footer := fmt.Sprintf("%d/%d symbols", len(view.Items), total)
	if view.Parents > 0 {
		footer += fmt.Sprintf(" (%d context)", view.Parents)
	}
	fmt.Fprintf(w, "%s%s%s\n", colorDim, footer, colorReset)
}

// readPayload reads the symbol payload from the named file, or from stdin
// when the argument is absent or "-".
func readPayload(args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, "", nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to read payload: %w", err)
	}
	return data, args[0], nil
}
