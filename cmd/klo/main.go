// Package main provides the CLI entry point for klo.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Glitchy-Tozier/klo/cmd/klo/commands"
)

var (
	version = "0.2.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "klo",
	Short: "klo - keyboard layout optimizer",
	Long: `klo evolves keyboard layouts against an ngram frequency corpus.

It combines a weighted corpus model, a fixed ergonomic cost model and a
staged stochastic search (randomization, simulated annealing, controlled
descent) to find low-effort layouts for a given body of text.`,
	Version: version,
}

func init() {
	rootCmd.AddCommand(commands.OptimizeCmd)
	rootCmd.AddCommand(commands.HistoryCmd)
}
