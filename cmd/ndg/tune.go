package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frogmud/neverdieguy-core/internal/rng"
	"github.com/frogmud/neverdieguy-core/internal/sim"
)

var (
	flagTuneGenerations int
	flagTunePopulation  int
	flagTuneRuns        int
	flagTuneStagnation  int
	flagTuneSeed        string
	flagTunePolicy      string
	flagTuneWorkers     int
	flagTuneOut         string
	flagTuneReport      string
	flagTuneQuiet       bool
)

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Search for a better-balanced config",
	Long: `Run a genetic search over balance knobs. Each generation simulates
every candidate config against the same batch seed and keeps the
closest to the configured targets; the starting config always seeds
the first population, so the result is never worse than the input.

Examples:
  ndg tune
  ndg tune --generations 20 --population 12 --runs 500
  ndg tune --preset brutal --out tuned.yaml
  ndg tune --seed batch-7 --report tuning.json`,
	Run: runTune,
}

func init() {
	tuneCmd.Flags().IntVar(&flagTuneGenerations, "generations", 10, "Number of generations")
	tuneCmd.Flags().IntVar(&flagTunePopulation, "population", 8, "Candidates per generation")
	tuneCmd.Flags().IntVar(&flagTuneRuns, "runs", 200, "Simulated runs per candidate")
	tuneCmd.Flags().IntVar(&flagTuneStagnation, "stagnation", 0, "Stop after this many generations without improvement (0 = never)")
	tuneCmd.Flags().StringVar(&flagTuneSeed, "seed", "", "Batch seed (empty = random)")
	tuneCmd.Flags().StringVar(&flagTunePolicy, "policy", "balanced", "Virtual player policy")
	tuneCmd.Flags().IntVar(&flagTuneWorkers, "workers", 0, "Worker goroutines (0 = CPU count)")
	tuneCmd.Flags().StringVar(&flagTuneOut, "out", "", "Write the best config as YAML to this path")
	tuneCmd.Flags().StringVar(&flagTuneReport, "report", "", "Write a JSON tuning report to this path")
	tuneCmd.Flags().BoolVar(&flagTuneQuiet, "quiet", false, "Suppress progress logging")
}

func runTune(cmd *cobra.Command, args []string) {
	cfg, cat, _, err := loadWorld()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagTuneSeed
	if seed == "" {
		seed = rng.NewSeed()
	}

	var logger *log.Logger
	if !flagTuneQuiet {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "ndg-tune",
		})
	}

	result, err := sim.Tune(cat, *cfg, sim.TuneOptions{
		Generations:      flagTuneGenerations,
		Population:       flagTunePopulation,
		RunsPerCandidate: flagTuneRuns,
		Stagnation:       flagTuneStagnation,
		Seed:             seed,
		Policy:           flagTunePolicy,
		Workers:          flagTuneWorkers,
		Logger:           logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tuning finished after %d generations (batch seed %s)\n\n", result.Generations, seed)
	fmt.Printf("  %-22s %.4f\n", "best fitness", result.BestFitness)
	fmt.Printf("  %-22s %.3f\n", "best win rate", result.BestMetrics.WinRate)
	fmt.Printf("  %-22s %.2f\n", "best avg domains", result.BestMetrics.AvgDomainsCleared)
	fmt.Printf("  %-22s %.2f\n", "best avg items", result.BestMetrics.AvgItems)

	fmt.Printf("\n  fitness by generation:")
	for i, f := range result.History {
		fmt.Printf("  g%d %.4f", i+1, f)
	}
	fmt.Println()

	if flagTuneOut != "" {
		data, marshalErr := yaml.Marshal(result.Best)
		if marshalErr != nil {
			fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", marshalErr)
			os.Exit(1)
		}
		if writeErr := os.WriteFile(flagTuneOut, data, 0o644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", writeErr)
			os.Exit(1)
		}
		fmt.Printf("\nBest config written to %s\n", flagTuneOut)
	}

	if flagTuneReport != "" {
		report := &sim.Report{
			GeneratedAt: time.Now().UTC(),
			Seed:        seed,
			Policy:      flagTunePolicy,
			Preset:      flagPreset,
			Runs:        flagTuneRuns,
			Metrics:     result.BestMetrics,
			Fitness:     result.BestFitness,
			Tuning:      &result,
		}
		if err := report.WriteFile(flagTuneReport); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Tuning report written to %s\n", flagTuneReport)
	}
}
