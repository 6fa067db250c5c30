package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List items and wanderers",
	Long: `Shows every item and wanderer in the content catalog, with the
rarity, category and base price the generator draws from.

Examples:
  ndg catalog
  ndg catalog --catalog ./my-catalog.yaml`,
	Run: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) {
	_, cat, _, err := loadWorld()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Items (%d):\n\n", len(cat.Entries))

	// Calculate column widths
	maxSlugLen := 4 // "Slug" header
	for _, e := range cat.Entries {
		if len(e.Slug) > maxSlugLen {
			maxSlugLen = len(e.Slug)
		}
	}

	fmt.Printf("  %-*s  %-10s  %-12s  %-8s  %s\n", maxSlugLen, "Slug", "Rarity", "Category", "Price", "Affinity")
	fmt.Printf("  %-*s  %-10s  %-12s  %-8s  %s\n", maxSlugLen, "----", "------", "--------", "-----", "--------")
	for _, e := range cat.Entries {
		affinity := e.Affinity
		if affinity == "" {
			affinity = "-"
		}
		fmt.Printf("  %-*s  %-10s  %-12s  %-8d  %s\n",
			maxSlugLen, e.Slug, e.Rarity.String(), string(e.Category), e.BasePrice, affinity)
	}

	fmt.Printf("\nWanderers (%d):\n\n", len(cat.Wanderers))
	for _, w := range cat.Wanderers {
		duel := ""
		if w.DuelDie > 0 {
			duel = fmt.Sprintf("  (duel d%d)", w.DuelDie)
		}
		affinity := w.Affinity
		if affinity == "" {
			affinity = "anywhere"
		}
		fmt.Printf("  %-20s  %s%s\n", w.Slug, affinity, duel)
	}
}
