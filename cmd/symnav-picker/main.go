package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/runger/symnav/internal/config"
	"github.com/runger/symnav/internal/picker"
	"github.com/runger/symnav/internal/source"
)

// Version information (set via ldflags during build).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Exit codes.
// These match the expectations of editor integrations:
//
//	0 = selection made (jump to the result)
//	1 = cancelled by user (stay put)
//	2 = fallback (no TTY, error, etc.)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// maxQueryLen is the maximum length of a query string in bytes.
const maxQueryLen = 4096

// pickerOpts holds the parsed command-line options shared by the
// subcommands.
type pickerOpts struct {
	file     string // payload file for "symbols"; "" or "-" reads stdin
	target   string // source file for "tags"
	buffer   string
	revision string
	query    string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the main entry point, returning an exit code.
// It is separated from main() to enable testing.
func run(args []string) int {
	// Step 1: Check /dev/tty is openable.
	if err := checkTTY(); err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: %v\n", err)
		return exitFallback
	}

	// Step 2: Check TERM != "dumb".
	if err := checkTERM(); err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: %v\n", err)
		return exitFallback
	}

	// Step 3: Check terminal width >= 20 columns.
	if err := checkTermWidth(); err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: %v\n", err)
		return exitFallback
	}

	// Step 4: Ensure cache directory exists.
	paths := config.DefaultPaths()
	cacheDir := paths.CacheDir
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: failed to create cache directory: %v\n", err)
		return exitFallback
	}

	// Step 5: Acquire advisory file lock.
	lockPath := cacheDir + "/picker.lock"
	lockFd, err := acquireLock(lockPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: %v\n", err)
		return exitFallback
	}
	defer releaseLock(lockFd)

	// Step 6: Parse subcommand and flags.
	if len(args) == 0 {
		printUsage()
		return exitFallback
	}

	var sub string
	switch args[0] {
	case "symbols", "tags":
		sub = args[0]
	case "--help", "-h":
		printUsage()
		return exitSuccess
	case "--version", "-v":
		printVersion()
		return exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "symnav-picker: unknown command %q\n", args[0])
		printUsage()
		return exitFallback
	}

	opts, err := parseFlags(sub, args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: %v\n", err)
		return exitFallback
	}

	debugLog("%s buffer=%q revision=%q query=%q", sub, opts.buffer, opts.revision, opts.query)

	// Step 7: Load config.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: failed to load config: %v\n", err)
		return exitFallback
	}

	// Step 8: Build the provider and run the TUI.
	sessions := source.NewSessions(cfg.Sources.CacheBuffers)

	var provider picker.Provider
	buffer := opts.buffer
	switch sub {
	case "symbols":
		payload, err := readPayload(opts.file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "symnav-picker: %v\n", err)
			return exitFallback
		}
		if buffer == "" && opts.file != "" && opts.file != "-" {
			buffer = opts.file
		}
		provider = picker.NewPayloadProvider(payload, cfg.Filter.Blocklist, sessions)
	case "tags":
		provider = picker.NewTagsProvider(cfg.Sources.TagsCommand, opts.target, cfg.Filter.Blocklist, sessions)
		if buffer == "" {
			buffer = opts.target
		}
	}

	return dispatchBuiltin(cfg, provider, buffer, opts)
}

// parseFlags parses flags for the symbols and tags subcommands.
func parseFlags(sub string, args []string) (*pickerOpts, error) {
	fs := flag.NewFlagSet(sub, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := &pickerOpts{}
	if sub == "symbols" {
		fs.StringVar(&opts.file, "file", "", "payload file (default: stdin)")
	}
	fs.StringVar(&opts.buffer, "buffer", "", "buffer name the listing belongs to")
	fs.StringVar(&opts.revision, "revision", "", "buffer revision token for listing reuse")
	fs.StringVar(&opts.query, "query", "", "initial filter query (max 4096 bytes)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: symnav-picker %s [flags]\n\nFlags:\n", sub)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if sub == "tags" {
		if fs.NArg() != 1 {
			return nil, fmt.Errorf("tags requires exactly one target file")
		}
		opts.target = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	sanitized, err := sanitizeQuery(opts.query)
	if err != nil {
		return nil, fmt.Errorf("--query: %w", err)
	}
	opts.query = sanitized

	return opts, nil
}

// sanitizeQuery strips control characters and validates the query string.
func sanitizeQuery(q string) (string, error) {
	if q == "" {
		return "", nil
	}

	// Reject newlines before stripping.
	if strings.ContainsAny(q, "\n\r") {
		return "", fmt.Errorf("query must not contain newlines")
	}

	// Strip control characters (0x00-0x1F) except tab (0x09).
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if r >= 0x00 && r <= 0x1F && r != 0x09 {
			continue // strip control char
		}
		b.WriteRune(r)
	}
	result := b.String()

	// Truncate to maxQueryLen bytes.
	if len(result) > maxQueryLen {
		result = result[:maxQueryLen]
	}

	return result, nil
}

// readPayload reads the symbol payload from file, or stdin when file is
// empty or "-". Stdin is free for data: the TUI talks to /dev/tty.
func readPayload(file string) ([]byte, error) {
	if file == "" || file == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return data, nil
}

// dispatchBuiltin runs the Bubble Tea TUI and prints the selection.
func dispatchBuiltin(cfg *config.Config, provider picker.Provider, buffer string, opts *pickerOpts) int {
	model := picker.NewModel(buffer, provider, picker.Options{
		Revision:       opts.revision,
		PreserveOrder:  cfg.Picker.PreserveOrder,
		KeepHierarchy:  cfg.Picker.KeepHierarchy,
		PreviewEnabled: cfg.Picker.PreviewEnabled,
		PreviewContext: cfg.Picker.PreviewContextLines,
		MaxVisibleRows: cfg.Picker.MaxVisibleRows,
		Debounce:       time.Duration(cfg.Picker.DebounceMs) * time.Millisecond,
		KindCodes:      cfg.KindCodeTable(),
	})
	if opts.query != "" {
		model = model.WithQuery(opts.query)
	}

	// Open /dev/tty for TUI input/output since stdin/stdout are used for data.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: cannot open /dev/tty: %v\n", err)
		return exitFallback
	}
	defer tty.Close()

	// Detect color profile from the tty and apply it to the default renderer.
	// When invoked via $(symnav-picker ...), stdout is a pipe so lipgloss
	// defaults to Ascii (no color). We detect from the real tty instead.
	// SetColorProfile modifies the existing default renderer in-place so
	// package-level styles already created in picker/view.go pick it up.
	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "symnav-picker: TUI error: %v\n", err)
		return exitFallback
	}

	m, ok := finalModel.(picker.Model)
	if !ok {
		fmt.Fprintln(os.Stderr, "symnav-picker: unexpected model type")
		return exitFallback
	}

	if m.IsCancelled() {
		return exitCancelled
	}

	if result := m.Result(); result != nil {
		path := result.Path
		if path == "" {
			path = buffer
		}
		fmt.Fprintf(os.Stdout, "%s:%d:%d\n", path, result.Line, result.Col)
	}

	return exitSuccess
}

// debugLog logs a message to stderr when SYMNAV_DEBUG=1.
func debugLog(format string, args ...any) {
	if os.Getenv("SYMNAV_DEBUG") == "1" {
		fmt.Fprintf(os.Stderr, "symnav-picker: debug: "+format+"\n", args...)
	}
}

// printUsage prints the top-level usage message.
func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: symnav-picker <command> [flags]

Commands:
  symbols    Pick from a captured symbol listing (LSP, ctags, call hierarchy)
  tags       Run ctags on a file and pick from the result

Flags:
  --help     Show this help message
  --version  Print version information`)
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("symnav-picker %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
}
