package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/symnav/internal/config"
	"github.com/runger/symnav/internal/outline"
	"github.com/runger/symnav/internal/source"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "Print a filtered symbol tree from a captured listing",
	Long: `Print a filtered symbol tree from a captured listing.

The payload format is auto-detected: an LSP textDocument/documentSymbol
response (hierarchical or flat), a ctags JSON-lines dump, a call-hierarchy
capture, or published diagnostics. With no file argument (or "-") the
payload is read from stdin.

Queries use the picker syntax: free text fuzzy-matches symbol names, and
tokens such as /f or /c restrict by kind (see "symnav kinds").

Examples:
  symnav symbols dump.json
  symnav symbols dump.json -q 'handler /f'
  lsp-capture | symnav symbols -q /d`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSymbols,
}

var (
	symbolsQuery  string
	symbolsBuffer string
	symbolsRanked bool
	symbolsResort bool
)

func init() {
	symbolsCmd.Flags().StringVarP(&symbolsQuery, "query", "q", "", "filter query (picker syntax)")
	symbolsCmd.Flags().StringVar(&symbolsBuffer, "buffer", "", "buffer name the listing belongs to")
	symbolsCmd.Flags().BoolVar(&symbolsRanked, "ranked", false, "rank matches best-first instead of keeping tree order")
	symbolsCmd.Flags().BoolVar(&symbolsResort, "resort", false, "reorder siblings by subtree size")
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, file, err := readPayload(args)
	if err != nil {
		return err
	}
	buffer := symbolsBuffer
	if buffer == "" {
		buffer = file
	}

	prov, err := source.Detect(data, buffer)
	if err != nil {
		return err
	}
	listing, err := prov.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", prov.Name(), err)
	}

	items := outline.BuildItems(listing.Symbols, outline.BuildOptions{
		Blocklist: cfg.Filter.Blocklist,
	})
	if symbolsResort {
		items = outline.Resort(items)
	}

	view := outline.UpdateFilteredView(items, symbolsQuery, outline.ViewOptions{
		PreserveOrder: !symbolsRanked && cfg.Picker.PreserveOrder,
		KeepHierarchy: cfg.Picker.KeepHierarchy,
		KindCodes:     cfg.KindCodeTable(),
	})

	printView(cmd.OutOrStdout(), view, len(items), symbolsQuery != "")
	return nil
}
