package sim

import (
	"github.com/frogmud/neverdieguy-core/internal/balance"
)

// maxErrorSamples caps how many failing runs a Metrics carries for
// reproduction; the full error count is always exact.
const maxErrorSamples = 10

// ErrorSample identifies one failed run with enough context to replay
// it: the per-run seed plus the failure message.
type ErrorSample struct {
	Index   int    `json:"index"`
	Seed    string `json:"seed"`
	Message string `json:"message"`
}

// Metrics aggregates a batch. Averages cover valid (non-error) runs
// only. DomainSurvival[d-1] is the fraction of valid runs that cleared
// at least d domains.
type Metrics struct {
	Runs   int `json:"runs"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Errors int `json:"errors"`

	WinRate           float64 `json:"win_rate"`
	AvgDomainsCleared float64 `json:"avg_domains_cleared"`
	AvgRoomsCleared   float64 `json:"avg_rooms_cleared"`
	AvgItems          float64 `json:"avg_items"`
	AvgGold           float64 `json:"avg_gold"`
	AvgHeat           float64 `json:"avg_heat"`

	DomainSurvival []float64 `json:"domain_survival"`

	ErrorSamples []ErrorSample `json:"error_samples,omitempty"`
}

// Reduce folds outcomes into batch metrics. The reduction is a plain
// sum over the index-ordered slice, so worker scheduling cannot change
// the result.
func Reduce(outcomes []Outcome) Metrics {
	m := Metrics{
		Runs:           len(outcomes),
		DomainSurvival: make([]float64, balance.DomainCount),
	}
	valid := 0
	var domains, rooms, items, gold, heat int
	survived := make([]int, balance.DomainCount)

	for _, out := range outcomes {
		if out.Err != "" {
			m.Errors++
			if len(m.ErrorSamples) < maxErrorSamples {
				m.ErrorSamples = append(m.ErrorSamples, ErrorSample{
					Index:   out.Index,
					Seed:    out.Seed,
					Message: out.Err,
				})
			}
			continue
		}
		valid++
		if out.Won {
			m.Wins++
		} else {
			m.Losses++
		}
		domains += out.DomainsCleared
		rooms += out.RoomsCleared
		items += out.Items
		gold += out.Gold
		heat += out.Heat
		for d := 1; d <= balance.DomainCount && d <= out.DomainsCleared; d++ {
			survived[d-1]++
		}
	}

	if valid > 0 {
		n := float64(valid)
		m.WinRate = float64(m.Wins) / n
		m.AvgDomainsCleared = float64(domains) / n
		m.AvgRoomsCleared = float64(rooms) / n
		m.AvgItems = float64(items) / n
		m.AvgGold = float64(gold) / n
		m.AvgHeat = float64(heat) / n
		for d := range survived {
			m.DomainSurvival[d] = float64(survived[d]) / n
		}
	}
	return m
}

// Fitness scores batch metrics against the config's targets as a
// squared-error sum. Zero is a perfect match; lower is better. The
// domain term is normalized by the domain count and the item term by a
// nominal ten-item run so no single target dominates.
// AvgDomainsCleared equals the sum of the per-domain survival curve,
// so the domain term scores that curve in aggregate; the targets carry
// no per-domain values to score its shape against.
func Fitness(m Metrics, targets balance.TargetConfig) float64 {
	dw := m.WinRate - targets.WinRate
	dd := (m.AvgDomainsCleared - targets.AvgDomainsCleared) / float64(balance.DomainCount)
	di := (m.AvgItems - targets.AvgItemsPerRun) / 10
	return dw*dw + dd*dd + di*di
}
