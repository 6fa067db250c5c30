// ndg is the NeverDieGuy engine CLI: deterministic run threads,
// Monte Carlo balance simulation and an interactive dev overlay.
//
// Usage:
//
//	ndg play                 - Drive a run by hand in the terminal
//	ndg sim                  - Run a Monte Carlo batch with a virtual player
//	ndg tune                 - Search for a better balance config
//	ndg catalog              - List the content catalog
//	ndg runs                 - Show stored runs
//	ndg serve                - Start SSH server for remote play
//
// Global flags:
//
//	--db <path>       - Runs database path (default: ~/.neverdieguy/runs.db)
//	--config <path>   - Custom balance config YAML
//	--catalog <path>  - Custom content catalog YAML
//	--preset <name>   - Balance preset: default, gentle, brutal
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/storage"
)

var (
	// Global flags
	flagDBPath      string
	flagConfigPath  string
	flagCatalogPath string
	flagPreset      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ndg",
	Short: "NeverDieGuy - deterministic roguelike economy engine",
	Long: `NeverDieGuy is a deterministic run engine: every run is a seed plus
an event ledger, and everything downstream of the seed replays exactly.

Available commands:
  play     - Drive a run by hand in the terminal
  sim      - Run a Monte Carlo batch with a virtual player
  tune     - Search for a better-balanced config
  catalog  - List items and wanderers
  runs     - Show stored runs
  serve    - Start SSH server for remote play

Examples:
  ndg play --daily
  ndg sim --runs 1000 --policy aggressive
  ndg tune --generations 20 --preset brutal
  ndg runs --verify`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.neverdieguy/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to custom balance config YAML")
	rootCmd.PersistentFlags().StringVar(&flagCatalogPath, "catalog", "", "Path to custom content catalog YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Balance preset: default, gentle, brutal")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(tuneCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadWorld builds the balance config and generator from the global
// flags. Every subcommand that touches game semantics goes through it
// so flags mean the same thing everywhere.
func loadWorld() (*balance.Config, *catalog.Table, *pool.Generator, error) {
	cfg, err := balance.Load(flagConfigPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading balance config: %w", err)
	}
	if err := balance.ApplyPreset(&cfg, balance.Preset(flagPreset)); err != nil {
		return nil, nil, nil, err
	}
	cat, err := catalog.Load(flagCatalogPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading catalog: %w", err)
	}
	return &cfg, cat, pool.New(cat, &cfg), nil
}

// openStore opens the runs database, or returns nil when it cannot be
// opened so callers can continue without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return nil
	}
	return store
}
