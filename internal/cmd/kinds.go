package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/symnav/internal/config"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "Show query filter tokens and the kinds they select",
	Long: `Show query filter tokens and the kinds they select.

A token such as /f anywhere in a picker query restricts the listing to
the kinds it maps to. The table below reflects filter.kind_codes
overrides from the config file.`,
	Args: cobra.NoArgs,
	RunE: runKinds,
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}

func runKinds(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	table := cfg.KindCodeTable()
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%sFilter Tokens%s\n", colorBold, colorReset)
	fmt.Fprintln(out, strings.Repeat("-", 40))
	for _, code := range codes {
		names := make([]string, 0, len(table[code]))
		for _, k := range table[code] {
			names = append(names, string(k))
		}
		fmt.Fprintf(out, "  %s/%s%s  %s\n", colorCyan, code, colorReset, strings.Join(names, ", "))
	}
	return nil
}
