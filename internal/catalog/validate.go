package catalog

import "fmt"

// validate checks structural invariants of a freshly parsed table.
// Every broken record is an error; there is no partial-load mode.
func (t *Table) validate() error {
	if len(t.Entries) == 0 {
		return fmt.Errorf("catalog: no items defined")
	}

	validCategory := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		validCategory[c] = true
	}

	seen := make(map[string]bool, len(t.Entries)+len(t.Wanderers))
	for i := range t.Entries {
		e := &t.Entries[i]
		if e.Slug == "" {
			return fmt.Errorf("catalog: item %d has empty slug", i)
		}
		if seen[e.Slug] {
			return fmt.Errorf("catalog: duplicate slug %q", e.Slug)
		}
		seen[e.Slug] = true

		if !validCategory[e.Category] {
			return fmt.Errorf("catalog: item %q: unknown category %q", e.Slug, e.Category)
		}
		if e.Affinity != "" && DomainIndex(e.Affinity) == 0 {
			return fmt.Errorf("catalog: item %q: unknown domain affinity %q", e.Slug, e.Affinity)
		}
		if e.BasePrice <= 0 {
			return fmt.Errorf("catalog: item %q: base price must be positive, got %d", e.Slug, e.BasePrice)
		}
		if !effectKinds[e.Effect.Kind] {
			return fmt.Errorf("catalog: item %q: unknown effect kind %q", e.Slug, e.Effect.Kind)
		}
	}

	for i := range t.Wanderers {
		w := &t.Wanderers[i]
		if w.Slug == "" {
			return fmt.Errorf("catalog: wanderer %d has empty slug", i)
		}
		if seen[w.Slug] {
			return fmt.Errorf("catalog: duplicate slug %q", w.Slug)
		}
		seen[w.Slug] = true

		if w.Affinity != "" && DomainIndex(w.Affinity) == 0 {
			return fmt.Errorf("catalog: wanderer %q: unknown domain affinity %q", w.Slug, w.Affinity)
		}
		if w.DuelDie < 0 {
			return fmt.Errorf("catalog: wanderer %q: negative duel die", w.Slug)
		}
	}

	return nil
}
