package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "symnav",
	Short: "fuzzy symbol navigation for code outlines",
	Long: `symnav - fuzzy symbol navigation for code outlines
  - symbols: filter an LSP / ctags / call-hierarchy listing as a tree
  - tags:    run ctags on a file and browse the result
  - kinds:   show query filter tokens and the kinds they select`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
