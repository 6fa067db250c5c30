// Package catalog holds the static content tables the engine samples
// from: lootable items and wandering NPCs. Tables are loaded once at
// process start and never mutated afterwards.
package catalog

import "fmt"

// Rarity is the ordinal rarity band of a catalog entry.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
	Unique
)

var rarityNames = map[Rarity]string{
	Common:    "common",
	Uncommon:  "uncommon",
	Rare:      "rare",
	Epic:      "epic",
	Legendary: "legendary",
	Unique:    "unique",
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rarity(%d)", int(r))
}

// ParseRarity converts a YAML rarity string to its ordinal value.
func ParseRarity(s string) (Rarity, error) {
	for r, name := range rarityNames {
		if name == s {
			return r, nil
		}
	}
	return Common, fmt.Errorf("catalog: unknown rarity %q", s)
}

// Category classifies an item entry.
type Category string

const (
	CategoryWeapon     Category = "weapon"
	CategoryArmor      Category = "armor"
	CategoryConsumable Category = "consumable"
	CategoryTrinket    Category = "trinket"
	CategoryRelic      Category = "relic"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryWeapon,
	CategoryArmor,
	CategoryConsumable,
	CategoryTrinket,
	CategoryRelic,
}

// EffectKind is the closed set of item effect payloads.
type EffectKind string

const (
	EffectPower    EffectKind = "power"     // flat score bonus per room
	EffectGuard    EffectKind = "guard"     // reduces room score goal
	EffectGoldRate EffectKind = "gold_rate" // percent bonus to gold rewards
	EffectHeatVent EffectKind = "heat_vent" // sheds accumulated heat
	EffectFavor    EffectKind = "favor"     // grants favor tokens
	EffectCalm     EffectKind = "calm"      // grants calm bonus
	EffectLucky    EffectKind = "lucky"     // shifts the traveler's lucky number
)

var effectKinds = map[EffectKind]bool{
	EffectPower:    true,
	EffectGuard:    true,
	EffectGoldRate: true,
	EffectHeatVent: true,
	EffectFavor:    true,
	EffectCalm:     true,
	EffectLucky:    true,
}

// Effect is an item's typed effect payload. Amount is the magnitude for
// flat effects; Percent is used by gold_rate only.
type Effect struct {
	Kind    EffectKind `yaml:"kind"`
	Amount  int        `yaml:"amount,omitempty"`
	Percent float64    `yaml:"percent,omitempty"`
}

// Entry is one lootable item. Read-only after load.
type Entry struct {
	Slug      string   `yaml:"slug"`
	Name      string   `yaml:"name"`
	Rarity    Rarity   `yaml:"-"`
	RarityTag string   `yaml:"rarity"`
	Category  Category `yaml:"category"`
	Affinity  string   `yaml:"affinity,omitempty"` // domain slug, empty = neutral
	BasePrice int      `yaml:"base_price"`
	Effect    Effect   `yaml:"effect"`
}

// ChoiceEffect is the counter delta applied by one wanderer choice.
type ChoiceEffect struct {
	Favor int `yaml:"favor,omitempty"`
	Calm  int `yaml:"calm,omitempty"`
	Heat  int `yaml:"heat,omitempty"`
	Gold  int `yaml:"gold,omitempty"`
}

// Wanderer is an NPC the traveler can meet between rooms. Each of the
// three choice branches carries its own counter deltas; Provoke may
// additionally route through a duel before resolving.
type Wanderer struct {
	Slug     string       `yaml:"slug"`
	Name     string       `yaml:"name"`
	Affinity string       `yaml:"affinity,omitempty"`
	Accept   ChoiceEffect `yaml:"accept"`
	Decline  ChoiceEffect `yaml:"decline"`
	Provoke  ChoiceEffect `yaml:"provoke"`
	DuelDie  int          `yaml:"duel_die,omitempty"` // sides of the provoke duel die, 0 = no duel
}

// Domains lists the six run domains in traversal order.
var Domains = []string{"meadow", "forest", "marsh", "foundry", "crypt", "spire"}

// DomainIndex returns the 1-based position of a domain slug, or 0 if
// the slug is unknown.
func DomainIndex(slug string) int {
	for i, d := range Domains {
		if d == slug {
			return i + 1
		}
	}
	return 0
}

// Table is the loaded content catalog. Entries and Wanderers preserve
// file order; bySlug rejects duplicate slugs at load time.
type Table struct {
	Entries   []Entry
	Wanderers []Wanderer

	bySlug    map[string]*Entry
	npcBySlug map[string]*Wanderer
}

// Item looks up an item by slug.
func (t *Table) Item(slug string) (*Entry, bool) {
	e, ok := t.bySlug[slug]
	return e, ok
}

// NPC looks up a wanderer by slug.
func (t *Table) NPC(slug string) (*Wanderer, bool) {
	w, ok := t.npcBySlug[slug]
	return w, ok
}

// ItemsByRarity returns all entries whose rarity is in the given set,
// preserving catalog order.
func (t *Table) ItemsByRarity(allowed map[Rarity]bool) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if allowed[e.Rarity] {
			out = append(out, e)
		}
	}
	return out
}
