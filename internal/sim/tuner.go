package sim

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/rng"
)

// eliteCount survivors carried unchanged into the next generation.
const eliteCount = 2

// TuneOptions configures a genetic search over balance-config space.
type TuneOptions struct {
	Generations      int
	Population       int
	RunsPerCandidate int
	Stagnation       int // stop after this many generations without improvement, 0 = run the full budget

	Seed    string // master seed for mutations and every evaluation batch
	Policy  string
	Workers int
	Logger  *log.Logger
}

func (o *TuneOptions) setDefaults() {
	if o.Generations <= 0 {
		o.Generations = 10
	}
	if o.Population < eliteCount+1 {
		o.Population = 8
	}
	if o.RunsPerCandidate <= 0 {
		o.RunsPerCandidate = 200
	}
	if o.Policy == "" {
		o.Policy = "balanced"
	}
}

// TuneResult is the outcome of a tuning session.
type TuneResult struct {
	Best        balance.Config `json:"best"`
	BestFitness float64        `json:"best_fitness"`
	BestMetrics Metrics        `json:"best_metrics"`
	Generations int            `json:"generations"`
	History     []float64      `json:"history"` // best-so-far fitness per generation
}

type candidate struct {
	cfg     balance.Config
	fitness float64
	metrics Metrics
}

// Tune searches for a config whose simulated metrics best match the
// base config's targets. Every candidate in a generation is evaluated
// against the same batch seed, so candidates compete on identical
// player streams and the whole session replays from one seed.
func Tune(cat *catalog.Table, base balance.Config, opts TuneOptions) (TuneResult, error) {
	opts.setDefaults()
	if err := rng.ValidateSeed(opts.Seed); err != nil {
		return TuneResult{}, err
	}
	if err := base.Validate(); err != nil {
		return TuneResult{}, fmt.Errorf("sim: base config: %w", err)
	}
	targets := base.Targets

	population := make([]candidate, opts.Population)
	population[0] = candidate{cfg: cloneConfig(base)}
	for i := 1; i < opts.Population; i++ {
		st := rng.NewStream(opts.Seed, fmt.Sprintf("tune:init:%d", i))
		population[i] = candidate{cfg: mutateConfig(base, st)}
	}

	result := TuneResult{BestFitness: -1}
	sinceImproved := 0

	for gen := 0; gen < opts.Generations; gen++ {
		for i := range population {
			m, _, err := RunBatch(&population[i].cfg, cat, BatchOptions{
				Runs:    opts.RunsPerCandidate,
				Seed:    opts.Seed,
				Policy:  opts.Policy,
				Workers: opts.Workers,
			})
			if err != nil {
				return TuneResult{}, fmt.Errorf("sim: generation %d candidate %d: %w", gen, i, err)
			}
			population[i].fitness = Fitness(m, targets)
			population[i].metrics = m
		}
		sort.SliceStable(population, func(a, b int) bool {
			return population[a].fitness < population[b].fitness
		})

		best := population[0]
		improved := result.BestFitness < 0 || best.fitness < result.BestFitness
		if improved {
			result.Best = cloneConfig(best.cfg)
			result.BestFitness = best.fitness
			result.BestMetrics = best.metrics
			sinceImproved = 0
		} else {
			sinceImproved++
		}
		result.Generations = gen + 1
		result.History = append(result.History, result.BestFitness)

		if opts.Logger != nil {
			opts.Logger.Info("generation evaluated",
				"gen", gen,
				"best_fitness", fmt.Sprintf("%.5f", result.BestFitness),
				"win_rate", fmt.Sprintf("%.3f", best.metrics.WinRate),
				"improved", improved,
			)
		}
		if opts.Stagnation > 0 && sinceImproved >= opts.Stagnation {
			break
		}
		if gen == opts.Generations-1 {
			break
		}

		// elites survive unchanged; the rest are perturbed copies
		next := make([]candidate, opts.Population)
		for i := 0; i < eliteCount; i++ {
			next[i] = candidate{cfg: cloneConfig(population[i].cfg)}
		}
		for i := eliteCount; i < opts.Population; i++ {
			parent := population[i%eliteCount].cfg
			st := rng.NewStream(opts.Seed, fmt.Sprintf("tune:gen:%d:child:%d", gen, i))
			next[i] = candidate{cfg: mutateConfig(parent, st)}
		}
		population = next
	}

	return result, nil
}

// cloneConfig deep-copies a config so mutation never aliases a slice
// with its parent.
func cloneConfig(c balance.Config) balance.Config {
	out := c
	out.Rewards.BaseByTier = append([]int(nil), c.Rewards.BaseByTier...)
	out.Pricing.TierMultipliers = append([]float64(nil), c.Pricing.TierMultipliers...)
	return out
}

// mutateConfig perturbs the numeric knobs of a config with bounded
// random deltas and repairs any ordering constraint it disturbed. The
// result always passes Validate; targets are never mutated.
func mutateConfig(parent balance.Config, st *rng.Stream) balance.Config {
	c := cloneConfig(parent)

	scale := func(v float64, pct float64) float64 {
		return v * (1 + (st.NextFloat()*2-1)*pct)
	}
	scaleInt := func(v int, pct float64, min int) int {
		out := int(scale(float64(v), pct))
		if out < min {
			out = min
		}
		return out
	}
	clamp := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}

	for i := range c.Rewards.BaseByTier {
		c.Rewards.BaseByTier[i] = scaleInt(c.Rewards.BaseByTier[i], 0.20, 1)
	}
	c.Rewards.StartingGold = scaleInt(c.Rewards.StartingGold, 0.20, 0)
	c.Rewards.DomainBonusRate = clamp(scale(c.Rewards.DomainBonusRate, 0.25), 0, 1)
	c.Rewards.HeatBonusRate = clamp(scale(c.Rewards.HeatBonusRate, 0.25), 0, 1)

	for i := range c.Pricing.TierMultipliers {
		c.Pricing.TierMultipliers[i] = clamp(scale(c.Pricing.TierMultipliers[i], 0.15), 0.1, 10)
		if i > 0 && c.Pricing.TierMultipliers[i] < c.Pricing.TierMultipliers[i-1] {
			c.Pricing.TierMultipliers[i] = c.Pricing.TierMultipliers[i-1]
		}
	}
	c.Pricing.RerollBaseCost = scaleInt(c.Pricing.RerollBaseCost, 0.25, 1)
	c.Pricing.FavorDiscountPerToken = clamp(scale(c.Pricing.FavorDiscountPerToken, 0.25), 0, 0.2)
	c.Pricing.MaxFavorDiscount = clamp(scale(c.Pricing.MaxFavorDiscount, 0.20), 0, 0.9)

	c.Doors.EliteChanceBase = clamp(scale(c.Doors.EliteChanceBase, 0.25), 0, 100)
	c.Doors.AnomalyChanceBase = clamp(scale(c.Doors.AnomalyChanceBase, 0.25), 0, 100)

	c.Difficulty.BaseScoreGoal = scaleInt(c.Difficulty.BaseScoreGoal, 0.20, 10)
	c.Difficulty.GoalPerDomain = scaleInt(c.Difficulty.GoalPerDomain, 0.25, 0)
	c.Difficulty.ScalePerHeat = clamp(scale(c.Difficulty.ScalePerHeat, 0.30), 0, 2)
	c.Difficulty.BossGoalMultiplier = clamp(scale(c.Difficulty.BossGoalMultiplier, 0.15), 1, 5)

	if err := c.Validate(); err != nil {
		// the repairs above should make this unreachable; fall back
		// to the parent rather than poison the population
		return cloneConfig(parent)
	}
	return c
}
