// Package balance provides the economy configuration and the pure
// numeric mappings built on it: gold rewards, price curves, heat
// difficulty and lucky-number synergy. Nothing in this package rolls
// dice or touches I/O; given the same Config and inputs, every function
// returns the same value.
package balance

// Config is the full set of balance knobs. A Config is immutable once
// handed to a run or a simulation candidate; the tuner produces new
// values by copying and perturbing, never in place.
type Config struct {
	Rewards    RewardConfig     `yaml:"rewards"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Doors      DoorConfig       `yaml:"doors"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Synergy    SynergyConfig    `yaml:"synergy"`
	Targets    TargetConfig     `yaml:"targets"`
}

// RewardConfig shapes gold payouts per cleared room.
type RewardConfig struct {
	StartingGold    int     `yaml:"starting_gold"`     // thread starting purse
	BaseByTier      []int   `yaml:"base_by_tier"`      // indexed by reward tier 1..5
	DomainBonusRate float64 `yaml:"domain_bonus_rate"` // extra multiplier per domain past the first
	HeatBonusRate   float64 `yaml:"heat_bonus_rate"`   // extra multiplier per accumulated heat point
}

// PricingConfig shapes shop prices, discounts and reroll costs.
type PricingConfig struct {
	TierMultipliers       []float64 `yaml:"tier_multipliers"` // indexed by tier 1..5, non-decreasing
	FavorDiscountPerToken float64   `yaml:"favor_discount_per_token"`
	MaxFavorDiscount      float64   `yaml:"max_favor_discount"`
	MinPrice              int       `yaml:"min_price"`
	RerollBaseCost        int       `yaml:"reroll_base_cost"`
	RerollCalmReduction   int       `yaml:"reroll_calm_reduction"` // cost knocked off per calm point
}

// DoorConfig shapes how often risky doors appear. Chances are percents.
type DoorConfig struct {
	EliteMinRoom        int     `yaml:"elite_min_room"`
	EliteChanceBase     float64 `yaml:"elite_chance_base"`
	EliteChancePerTier  float64 `yaml:"elite_chance_per_tier"`
	AnomalyChanceBase   float64 `yaml:"anomaly_chance_base"`
	AnomalyChancePerTier float64 `yaml:"anomaly_chance_per_tier"`
	AnomalySkipBonus    float64 `yaml:"anomaly_skip_bonus"`
	EliteHeatGain       int     `yaml:"elite_heat_gain"` // heat added when an elite door is picked
}

// DifficultyConfig shapes room score goals.
type DifficultyConfig struct {
	BaseScoreGoal    int     `yaml:"base_score_goal"`
	GoalPerDomain    int     `yaml:"goal_per_domain"`    // flat goal increase per domain past the first
	BossGoalMultiplier float64 `yaml:"boss_goal_multiplier"` // applied to room 3 of each domain
	ScalePerHeat     float64 `yaml:"scale_per_heat"`
}

// SynergyConfig shapes lucky-number matching thresholds and payouts.
type SynergyConfig struct {
	WeakMatches  int     `yaml:"weak_matches"`
	StrongMatches int    `yaml:"strong_matches"`
	WeakMult     float64 `yaml:"weak_mult"`
	StrongMult   float64 `yaml:"strong_mult"`
}

// TargetConfig holds the metrics the tuner optimizes toward.
type TargetConfig struct {
	WinRate           float64 `yaml:"win_rate"`
	AvgDomainsCleared float64 `yaml:"avg_domains_cleared"`
	AvgItemsPerRun    float64 `yaml:"avg_items_per_run"`
}

// SynergyLevel is the outcome of a lucky-number comparison.
type SynergyLevel int

const (
	SynergyNone SynergyLevel = iota
	SynergyWeak
	SynergyStrong
)

func (s SynergyLevel) String() string {
	switch s {
	case SynergyWeak:
		return "weak"
	case SynergyStrong:
		return "strong"
	default:
		return "none"
	}
}

// TierBump returns how many tier steps this synergy level grants a
// requisition pool.
func (s SynergyLevel) TierBump() int {
	switch s {
	case SynergyWeak:
		return 1
	case SynergyStrong:
		return 2
	default:
		return 0
	}
}

// MaxTier is the top requisition tier.
const MaxTier = 5

// DomainCount is the number of domains in a full run.
const DomainCount = 6

// RoomsPerDomain is the number of rooms per domain; room 3 is the
// domain's audit (boss) room.
const RoomsPerDomain = 3
