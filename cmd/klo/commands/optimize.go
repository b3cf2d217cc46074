// Package commands provides CLI command implementations.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Glitchy-Tozier/klo/internal/application/optimizer"
	"github.com/Glitchy-Tozier/klo/internal/infrastructure/store"
	"github.com/Glitchy-Tozier/klo/internal/shared"
)

// Flag variables for the optimize command
var optimizeOpts = shared.DefaultOptimizeOptions()

// OptimizeCmd evolves layouts and writes the best one found.
var OptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Evolve a keyboard layout against an ngram corpus",
	Long: `Evolve keyboard layouts by staged stochastic search.

Each evolution prerandomizes the starting layout, anneals through decreasing
mutation levels, refines with strictly-improving swaps and, unless disabled,
finalizes until no single key swap can improve the result. The best layout
across all evolutions is written as nested-array JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := shared.NewLogger(os.Stderr, optimizeOpts.Quiet, optimizeOpts.Verbose)
		if optimizeOpts.Verbose {
			logger.Debug("verbose mode is on - going to talk to you a lot")
		}

		runs, err := openRunStore(cmd, optimizeOpts)
		if err != nil {
			return err
		}
		if runs != nil {
			defer runs.Close()
		}

		service := optimizer.New(optimizeOpts, os.ReadFile, logger, runs)
		result, err := service.Run(cmd.Context())
		if err != nil {
			return err
		}
		if result.Best == nil {
			return fmt.Errorf("no layout produced")
		}

		encoded, err := result.Best.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode layout: %w", err)
		}
		if err := os.WriteFile(optimizeOpts.Output, encoded, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", optimizeOpts.Output, err)
		}

		logger.Info("optimization complete",
			"run", result.RunID, "evolutions", result.Runs,
			"cost", result.Cost, "output", optimizeOpts.Output)
		return nil
	},
}

// openRunStore builds the optional history backend.
func openRunStore(cmd *cobra.Command, opts shared.OptimizeOptions) (store.RunStore, error) {
	if opts.HistoryDB == "" {
		return nil, nil
	}
	switch opts.HistoryBackend {
	case "", "sqlite":
		return store.NewSQLiteRunStore(opts.HistoryDB)
	case "postgres":
		return store.NewPostgresRunStore(cmd.Context(), store.PostgresConfig{Database: opts.HistoryDB})
	default:
		return nil, fmt.Errorf("unknown history backend %q", opts.HistoryBackend)
	}
}

func init() {
	flags := OptimizeCmd.Flags()
	flags.IntVarP(&optimizeOpts.NumLayouts, "num-layouts", "n", optimizeOpts.NumLayouts,
		"number of independent evolutions to run")
	flags.StringVarP(&optimizeOpts.Output, "output", "o", optimizeOpts.Output,
		"output filename for the best blueprint JSON")
	flags.IntVar(&optimizeOpts.Steps, "steps", optimizeOpts.Steps,
		"search step budget per evolution")
	flags.IntVar(&optimizeOpts.Prerandomize, "prerandomize", optimizeOpts.Prerandomize,
		"random swaps applied before each evolution")
	flags.BoolVar(&optimizeOpts.Controlled, "controlled", optimizeOpts.Controlled,
		"always take the locally best swap (very slow and still not optimal)")
	flags.BoolVar(&optimizeOpts.ControlledTail, "controlled-tail", optimizeOpts.ControlledTail,
		"finalize until no single key swap improves the layout")
	flags.IntVar(&optimizeOpts.Anneal, "anneal", optimizeOpts.Anneal,
		"highest anneal level; level L applies L+1 simultaneous swaps")
	flags.IntVar(&optimizeOpts.AnnealStep, "anneal-step", optimizeOpts.AnnealStep,
		"iterations per anneal level")
	flags.IntVar(&optimizeOpts.LimitNgrams, "limit-ngrams", optimizeOpts.LimitNgrams,
		"keep only the top-N ngrams per category, 0 for no limit")
	flags.StringVar(&optimizeOpts.StartingLayout, "starting-layout", optimizeOpts.StartingLayout,
		"starting layout rows; set prerandomize=0 to keep it exactly")
	flags.StringVar(&optimizeOpts.NgramsConfig, "ngrams-config", optimizeOpts.NgramsConfig,
		"path to the ngrams source config")
	flags.StringVar(&optimizeOpts.Alphabet, "alphabet", optimizeOpts.Alphabet,
		"characters mutations may touch")
	flags.StringVar(&optimizeOpts.BaseLayout, "base-layout", optimizeOpts.BaseLayout,
		"path to a base blueprint JSON overriding the built-in board")
	flags.StringVar(&optimizeOpts.CostConfig, "cost-config", optimizeOpts.CostConfig,
		"path to a TOML file tuning the penalty weights")
	flags.Int64Var(&optimizeOpts.Seed, "seed", optimizeOpts.Seed,
		"RNG seed for reproducible runs, 0 seeds from the clock")
	flags.StringVar(&optimizeOpts.HistoryDB, "history-db", optimizeOpts.HistoryDB,
		"persist runs: SQLite path, or database name with --history-backend postgres")
	flags.StringVar(&optimizeOpts.HistoryBackend, "history-backend", optimizeOpts.HistoryBackend,
		"history store backend: sqlite or postgres")
	flags.BoolVar(&optimizeOpts.Quiet, "quiet", optimizeOpts.Quiet,
		"only log warnings")
	flags.BoolVar(&optimizeOpts.Verbose, "verbose", optimizeOpts.Verbose,
		"log additional statistics and progress")
}
