package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frogmud/neverdieguy-core/internal/platform/tui"
	"github.com/frogmud/neverdieguy-core/internal/storage"
)

var (
	flagRunsLimit  int
	flagRunsVerify bool
	flagRunsBrowse bool
	flagRunsClear  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show stored runs",
	Long: `Display stored run ledgers. --verify replays every ledger and checks
that the fold, the live replay and the cached summary columns agree;
any disagreement exits non-zero.

Examples:
  ndg runs
  ndg runs --limit 50
  ndg runs --verify
  ndg runs --browse`,
	Run: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagRunsVerify, "verify", false, "Replay every ledger and check it against the cached summary")
	runsCmd.Flags().BoolVar(&flagRunsBrowse, "browse", false, "Open the interactive runs browser")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete all stored runs")
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All runs deleted.")
		return
	}

	if flagRunsBrowse {
		if err := tui.RunRunsBrowser(store); err != nil {
			fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	records, err := store.RecentRuns(flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ndg play' and save at the end to record the first one.")
		return
	}

	if flagRunsVerify {
		verifyRuns(records)
		return
	}

	fmt.Printf("  %-5s  %-10s  %-10s  %-7s  %-8s  %-7s  %-7s  %s\n",
		"ID", "Seed", "Traveler", "Result", "Domains", "Gold", "Events", "Date")
	fmt.Printf("  %-5s  %-10s  %-10s  %-7s  %-8s  %-7s  %-7s  %s\n",
		"--", "----", "--------", "------", "-------", "----", "------", "----")
	for _, r := range records {
		result := "lost"
		if r.Won {
			result = "won"
		}
		fmt.Printf("  %-5d  %-10s  %-10s  %-7s  %-8d  %-7d  %-7d  %s\n",
			r.ID, r.Seed, r.Traveler, result,
			r.DomainsCleared, r.Gold, r.Events,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, statsErr := store.Stats(); statsErr == nil && stats.Runs > 0 {
		fmt.Printf("\n%d runs total, %d won, avg %.1f domains, best purse %d gold\n",
			stats.Runs, stats.Wins, stats.AvgDomains, stats.BestGold)
	}
}

// verifyRuns replays every record and reports the disagreements.
func verifyRuns(records []storage.RunRecord) {
	cfg, _, gen, err := loadWorld()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bad := 0
	for _, rec := range records {
		if verifyErr := storage.VerifyRun(rec, cfg, gen); verifyErr != nil {
			bad++
			fmt.Printf("  run #%d (seed %s): FAIL: %v\n", rec.ID, rec.Seed, verifyErr)
		} else {
			fmt.Printf("  run #%d (seed %s): ok\n", rec.ID, rec.Seed)
		}
	}

	fmt.Printf("\n%d of %d ledgers verified clean\n", len(records)-bad, len(records))
	if bad > 0 {
		os.Exit(1)
	}
}
