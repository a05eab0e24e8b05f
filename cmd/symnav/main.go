// Package main is the entry point for the symnav CLI.
package main

import (
	"os"

	"github.com/runger/symnav/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
