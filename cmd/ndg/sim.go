package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/frogmud/neverdieguy-core/internal/registry"
	"github.com/frogmud/neverdieguy-core/internal/rng"
	"github.com/frogmud/neverdieguy-core/internal/run"
	"github.com/frogmud/neverdieguy-core/internal/sim"
)

var (
	flagSimRuns     int
	flagSimSeed     string
	flagSimPolicy   string
	flagSimWorkers  int
	flagSimTraveler string
	flagSimOut      string
	flagSimSave     bool
	flagSimQuiet    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a Monte Carlo batch with a virtual player",
	Long: `Simulate many runs under a scripted policy and report aggregate
balance metrics. The batch is fully deterministic: the same seed,
policy and config always produce the same report.

A batch with any errored runs (panics, jammed state machines, ledger
fold mismatches) exits non-zero so CI catches regressions.

Examples:
  ndg sim --runs 1000
  ndg sim --runs 500 --policy aggressive --seed batch-7
  ndg sim --runs 2000 --preset brutal --out report.json
  ndg sim --runs 200 --save`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 500, "Number of runs to simulate")
	simCmd.Flags().StringVar(&flagSimSeed, "seed", "", "Batch seed (empty = random)")
	simCmd.Flags().StringVar(&flagSimPolicy, "policy", "balanced", "Virtual player policy: "+strings.Join(registry.List(), ", "))
	simCmd.Flags().IntVar(&flagSimWorkers, "workers", 0, "Worker goroutines (0 = CPU count)")
	simCmd.Flags().StringVar(&flagSimTraveler, "traveler", "", "Traveler name (default Drifter)")
	simCmd.Flags().StringVar(&flagSimOut, "out", "", "Write JSON report to this path")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Save the report to the runs database")
	simCmd.Flags().BoolVar(&flagSimQuiet, "quiet", false, "Suppress progress logging")
}

// pickTraveler resolves a traveler flag to a stock identity.
func pickTraveler(name string) (run.Traveler, error) {
	if name == "" {
		return run.Travelers[0], nil
	}
	for _, tr := range run.Travelers {
		if strings.EqualFold(tr.Name, name) {
			return tr, nil
		}
	}
	return run.Traveler{}, fmt.Errorf("unknown traveler %q", name)
}

func runSim(cmd *cobra.Command, args []string) {
	cfg, cat, _, err := loadWorld()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagSimSeed
	if seed == "" {
		seed = rng.NewSeed()
	}
	traveler, err := pickTraveler(flagSimTraveler)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var logger *log.Logger
	if !flagSimQuiet {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "ndg-sim",
		})
	}

	metrics, _, err := sim.RunBatch(cfg, cat, sim.BatchOptions{
		Runs:     flagSimRuns,
		Seed:     seed,
		Policy:   flagSimPolicy,
		Workers:  flagSimWorkers,
		Traveler: traveler,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fitness := sim.Fitness(metrics, cfg.Targets)
	printMetrics(seed, metrics, fitness)

	report := &sim.Report{
		GeneratedAt: time.Now().UTC(),
		Seed:        seed,
		Policy:      flagSimPolicy,
		Preset:      flagPreset,
		Runs:        flagSimRuns,
		Metrics:     metrics,
		Fitness:     fitness,
	}
	if flagSimOut != "" {
		if err := report.WriteFile(flagSimOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", flagSimOut)
	}
	if flagSimSave {
		store := openStore()
		if store != nil {
			defer store.Close()
			id, saveErr := store.SaveReport(report)
			if saveErr != nil {
				fmt.Fprintf(os.Stderr, "Error saving report: %v\n", saveErr)
				os.Exit(1)
			}
			fmt.Printf("Report saved as #%d\n", id)
		}
	}

	if metrics.Errors > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d runs errored\n", metrics.Errors, metrics.Runs)
		os.Exit(1)
	}
}

func printMetrics(seed string, m sim.Metrics, fitness float64) {
	fmt.Printf("Batch %s: %d runs, policy results\n\n", seed, m.Runs)
	fmt.Printf("  %-22s %.3f\n", "win rate", m.WinRate)
	fmt.Printf("  %-22s %.2f\n", "avg domains cleared", m.AvgDomainsCleared)
	fmt.Printf("  %-22s %.2f\n", "avg rooms cleared", m.AvgRoomsCleared)
	fmt.Printf("  %-22s %.2f\n", "avg items bought", m.AvgItems)
	fmt.Printf("  %-22s %.1f\n", "avg final gold", m.AvgGold)
	fmt.Printf("  %-22s %.2f\n", "avg final heat", m.AvgHeat)
	fmt.Printf("  %-22s %.4f\n", "fitness vs targets", fitness)

	fmt.Printf("\n  domain survival:")
	for i, frac := range m.DomainSurvival {
		fmt.Printf("  d%d %.2f", i+1, frac)
	}
	fmt.Println()

	if m.Errors > 0 {
		fmt.Printf("\n  %d errored runs, first samples:\n", m.Errors)
		for _, s := range m.ErrorSamples {
			fmt.Printf("    run %d (seed %s): %s\n", s.Index, s.Seed, s.Message)
		}
	}
}
