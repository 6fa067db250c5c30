package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/platform/tui"
	"github.com/frogmud/neverdieguy-core/internal/rng"
)

var (
	flagPlaySeed string
	flagDaily    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Drive a run by hand",
	Long: `Start an interactive run in the terminal. This is a dev overlay:
you pick the room score directly instead of playing a minigame, and
every shop, door and wanderer decision is yours.

Controls:
  Up/Down    - Move cursor
  Enter      - Select / clear room
  +/-        - Adjust the next room score
  L          - Lose the room
  E          - Seek a wanderer
  R          - Reroll the shop
  Tab/C      - Leave the shop
  Q/Ctrl+C   - Quit

Examples:
  ndg play
  ndg play --seed ABC123
  ndg play --daily
  ndg play --preset brutal --config ./my-balance.yaml`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlaySeed, "seed", "", "Run seed (empty = random)")
	playCmd.Flags().BoolVar(&flagDaily, "daily", false, "Play today's shared daily seed")
}

func runPlay(cmd *cobra.Command, args []string) {
	seed := flagPlaySeed
	switch {
	case flagDaily && seed != "":
		fmt.Fprintln(os.Stderr, "Error: --daily and --seed are mutually exclusive")
		os.Exit(1)
	case flagDaily:
		seed = rng.DailySeed(time.Now())
	case seed == "":
		seed = rng.NewSeed()
	}
	if err := rng.ValidateSeed(seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The overlay needs a minimum of space for the counters line.
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		if w < 60 || h < 16 {
			fmt.Fprintf(os.Stderr, "Error: terminal too small (%dx%d, need at least 60x16)\n", w, h)
			os.Exit(1)
		}
	}

	cfg, _, gen, err := loadWorld()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	thread, runErr := tui.RunPlay(cfg, gen, store, seed)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running overlay: %v\n", runErr)
		os.Exit(1)
	}

	// Print a replayable summary on the way out.
	if thread != nil && thread.Ended() {
		snap := thread.Snapshot()
		result := "severed"
		if snap.Won {
			result = "complete"
		}
		fmt.Printf("Thread %s: seed %s, %d/%d domains, %d gold, %d events\n",
			result, seed, snap.DomainsCleared, balance.DomainCount, snap.Gold, snap.LedgerLen)
	}
}
