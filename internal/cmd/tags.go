package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/symnav/internal/config"
	"github.com/runger/symnav/internal/outline"
	"github.com/runger/symnav/internal/source"
)

const tagsTimeout = 10 * time.Second

var tagsCmd = &cobra.Command{
	Use:   "tags <file>",
	Short: "Run ctags on a file and print its symbol tree",
	Long: `Run ctags on a file and print its symbol tree.

The ctags invocation is taken from sources.tags_command (it must emit
JSON lines on stdout); the target file is appended as the last argument.

Examples:
  symnav tags main.go
  symnav tags lib/parser.rb -q 'init /m'`,
	Args: cobra.ExactArgs(1),
	RunE: runTags,
}

var tagsQuery string

func init() {
	tagsCmd.Flags().StringVarP(&tagsQuery, "query", "q", "", "filter query (picker syntax)")
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), tagsTimeout)
	defer cancel()

	data, err := source.RunTags(ctx, cfg.Sources.TagsCommand, args[0])
	if err != nil {
		return err
	}

	listing, err := source.Tags{}.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode ctags output: %w", err)
	}

	items := outline.BuildItems(listing.Symbols, outline.BuildOptions{
		Blocklist: cfg.Filter.Blocklist,
	})

	view := outline.UpdateFilteredView(items, tagsQuery, outline.ViewOptions{
		PreserveOrder: cfg.Picker.PreserveOrder,
		KeepHierarchy: cfg.Picker.KeepHierarchy,
		KindCodes:     cfg.KindCodeTable(),
	})

	printView(cmd.OutOrStdout(), view, len(items), tagsQuery != "")
	return nil
}
