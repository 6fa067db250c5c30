// Package pool deterministically selects bounded sets of catalog
// entries for one decision point: shop requisitions, door offers and
// previews, and wanderer encounters. All randomness flows through
// namespaced rng streams, so a pool is always reproducible from
// (seed, namespace, request) and is never persisted.
package pool

import (
	"fmt"
	"sort"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/rng"
)

// Generator samples pools from a catalog under a balance config.
// Stateless with respect to any run: the rng pool is passed per call.
type Generator struct {
	cat *catalog.Table
	cfg *balance.Config
}

// New creates a pool generator.
func New(cat *catalog.Table, cfg *balance.Config) *Generator {
	return &Generator{cat: cat, cfg: cfg}
}

// Request describes one requisition pool.
type Request struct {
	Tier               int
	Domain             string
	Count              int
	ExcludedCategories []catalog.Category
	SynergyBump        int  // tier steps from lucky synergy, 0-2
	Reroll             int  // reroll index; 0 is the initial offer
	GuaranteeHigh      bool // force-include one top-band entry (pre-audit preparation)
}

// Offer is one entry in a requisition pool with its computed price.
type Offer struct {
	Entry catalog.Entry
	Price int
}

// Requisition is the result of a pool request.
type Requisition struct {
	Offers      []Offer
	Tier        int  // effective tier after synergy bump
	Underfilled bool // fewer eligible entries than requested, even after widening
}

// Empty reports whether the pool has nothing to offer. The caller is
// expected to render a defined "nothing available" state, never to
// treat this as an error.
func (r Requisition) Empty() bool { return len(r.Offers) == 0 }

// rarityBand maps a tier to its allowed rarity set.
func rarityBand(tier int) map[catalog.Rarity]bool {
	switch tier {
	case 1:
		return map[catalog.Rarity]bool{catalog.Common: true, catalog.Uncommon: true}
	case 2:
		return map[catalog.Rarity]bool{catalog.Common: true, catalog.Uncommon: true, catalog.Rare: true}
	case 3:
		return map[catalog.Rarity]bool{catalog.Uncommon: true, catalog.Rare: true, catalog.Epic: true}
	case 4:
		return map[catalog.Rarity]bool{catalog.Rare: true, catalog.Epic: true, catalog.Legendary: true}
	default:
		return map[catalog.Rarity]bool{catalog.Epic: true, catalog.Legendary: true, catalog.Unique: true}
	}
}

// Requisition builds a deterministic pool for the request. A reroll is
// a new namespace suffix, not a fresh seed, so reroll N+1 draws from an
// independently derived stream and the base offer stays replayable.
func (g *Generator) Requisition(rp *rng.Pool, req Request) Requisition {
	tier := req.Tier + req.SynergyBump
	if tier < 1 {
		tier = 1
	}
	if tier > balance.MaxTier {
		tier = balance.MaxTier
	}
	count := req.Count
	if count <= 0 {
		count = 3
	}

	excluded := make(map[catalog.Category]bool, len(req.ExcludedCategories))
	for _, c := range req.ExcludedCategories {
		excluded[c] = true
	}

	eligible := g.filter(rarityBand(tier), excluded, req.Domain)

	// Widen one tier down when the band cannot fill the request.
	if len(eligible) < count && tier > 1 {
		seen := make(map[string]bool, len(eligible))
		for _, e := range eligible {
			seen[e.Slug] = true
		}
		for _, e := range g.filter(rarityBand(tier-1), excluded, req.Domain) {
			if !seen[e.Slug] {
				eligible = append(eligible, e)
				seen[e.Slug] = true
			}
		}
	}

	ns := fmt.Sprintf("requisition:tier:%d:domain:%s:reroll:%d", tier, req.Domain, req.Reroll)
	picked := rng.PickN(rp.Stream(ns), eligible, count)

	// Affinity-matching entries lead the display order; the sample
	// itself is unaffected.
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Affinity == req.Domain && picked[j].Affinity != req.Domain
	})

	if req.GuaranteeHigh {
		picked = g.forceHighRarity(rp, picked, tier, excluded, ns)
	}

	offers := make([]Offer, len(picked))
	for i, e := range picked {
		offers[i] = Offer{Entry: e, Price: g.cfg.ItemPrice(e.BasePrice, tier)}
	}

	return Requisition{
		Offers:      offers,
		Tier:        tier,
		Underfilled: len(offers) < count,
	}
}

// filter returns catalog entries in the allowed rarity band, outside
// the excluded categories, affinity-matching entries first (stable
// sort, catalog order is preserved within each group).
func (g *Generator) filter(allowed map[catalog.Rarity]bool, excluded map[catalog.Category]bool, domain string) []catalog.Entry {
	var out []catalog.Entry
	for _, e := range g.cat.Entries {
		if !allowed[e.Rarity] || excluded[e.Category] {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Affinity == domain && out[j].Affinity != domain
	})
	return out
}

// forceHighRarity guarantees one entry of the band's top present
// rarity, displacing the last already-selected entry when the pool is
// full.
func (g *Generator) forceHighRarity(rp *rng.Pool, picked []catalog.Entry, tier int, excluded map[catalog.Category]bool, ns string) []catalog.Entry {
	band := rarityBand(tier)

	var top []catalog.Entry
	var topRarity catalog.Rarity
	for _, e := range g.cat.Entries {
		if !band[e.Rarity] || excluded[e.Category] {
			continue
		}
		if len(top) == 0 || e.Rarity > topRarity {
			top = top[:0]
			topRarity = e.Rarity
		}
		if e.Rarity == topRarity {
			top = append(top, e)
		}
	}
	if len(top) == 0 {
		return picked
	}

	for _, e := range picked {
		if e.Rarity == topRarity {
			return picked // already guaranteed
		}
	}

	chosen, ok := rng.Pick(rp.Stream(ns+":guarantee"), top)
	if !ok {
		return picked
	}
	for _, e := range picked {
		if e.Slug == chosen.Slug {
			return picked
		}
	}
	if len(picked) == 0 {
		return []catalog.Entry{chosen}
	}
	picked[len(picked)-1] = chosen
	return picked
}

// StarterKit is the tier-1 loadout offered at thread start.
func (g *Generator) StarterKit(rp *rng.Pool, domain string) Requisition {
	return g.Requisition(rp, Request{
		Tier:               1,
		Domain:             domain,
		Count:              2,
		ExcludedCategories: []catalog.Category{catalog.CategoryRelic},
	})
}

// EncounterNPC deterministically picks the wanderer met in a domain
// room. Wanderers with matching affinity are preferred; neutral ones
// fill in when the domain has no dedicated wanderers.
func (g *Generator) EncounterNPC(rp *rng.Pool, domain string, roomIndex int) (catalog.Wanderer, bool) {
	var local, neutral []catalog.Wanderer
	for _, w := range g.cat.Wanderers {
		switch w.Affinity {
		case domain:
			local = append(local, w)
		case "":
			neutral = append(neutral, w)
		}
	}
	pickFrom := local
	if len(pickFrom) == 0 {
		pickFrom = neutral
	}
	if len(pickFrom) == 0 {
		pickFrom = g.cat.Wanderers
	}

	ns := fmt.Sprintf("wanderer:domain:%s:room:%d", domain, roomIndex)
	return rng.Pick(rp.Stream(ns), pickFrom)
}
