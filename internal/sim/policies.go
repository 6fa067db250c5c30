package sim

import (
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/registry"
	"github.com/frogmud/neverdieguy-core/internal/rng"
	"github.com/frogmud/neverdieguy-core/internal/run"
)

func init() {
	registry.Register("cautious", func() registry.Policy {
		return &scripted{profile: profile{
			name:        "cautious",
			competence:  1.15,
			spread:      12,
			buysPerShop: 1,
			spendPct:    40,
			wantEffects: map[catalog.EffectKind]int{
				catalog.EffectGuard:    3,
				catalog.EffectHeatVent: 3,
				catalog.EffectCalm:     2,
				catalog.EffectPower:    1,
			},
			doorTaste: doorCautious,
			wanderer:  run.ChoiceDecline,
		}}
	})
	registry.Register("balanced", func() registry.Policy {
		return &scripted{profile: profile{
			name:        "balanced",
			competence:  1.08,
			spread:      15,
			buysPerShop: 1,
			spendPct:    60,
			wantEffects: map[catalog.EffectKind]int{
				catalog.EffectPower:    3,
				catalog.EffectGuard:    2,
				catalog.EffectGoldRate: 2,
				catalog.EffectFavor:    1,
			},
			doorTaste: doorBalanced,
			wanderer:  run.ChoiceAccept,
		}}
	})
	registry.Register("aggressive", func() registry.Policy {
		return &scripted{profile: profile{
			name:        "aggressive",
			competence:  1.02,
			spread:      20,
			buysPerShop: 2,
			spendPct:    85,
			wantEffects: map[catalog.EffectKind]int{
				catalog.EffectPower:    3,
				catalog.EffectGoldRate: 3,
				catalog.EffectLucky:    2,
			},
			doorTaste: doorAggressive,
			wanderer:  run.ChoiceProvoke,
		}}
	})
}

type doorTaste int

const (
	doorCautious doorTaste = iota
	doorBalanced
	doorAggressive
)

// profile parameterizes one scripted player archetype.
type profile struct {
	name        string
	competence  float64 // skill relative to the room goal
	spread      int     // score jitter, +/-
	buysPerShop int
	spendPct    int // share of the purse a single purchase may take
	wantEffects map[catalog.EffectKind]int
	doorTaste   doorTaste
	wanderer    run.WandererChoice
}

// scripted is a Policy driven entirely by its profile and the run's
// policy stream. It keeps one piece of state: purchases made in the
// current shop visit, keyed by ledger position so revisits reset.
type scripted struct {
	profile

	visitKey     int
	visitedBuys  int
	visitRerolls int
}

func (p *scripted) Name() string { return p.name }

// PlayRoom models skill as a competence multiple of the goal plus
// power items plus jitter. Heat is already priced into the goal.
func (p *scripted) PlayRoom(st *rng.Stream, snap run.Snapshot) int {
	base := int(float64(snap.ScoreGoal) * p.competence)
	jitter := st.NextRange(-p.spread, p.spread)
	score := base + snap.Power + jitter
	if score < 0 {
		score = 0
	}
	return score
}

func (p *scripted) ShopAction(st *rng.Stream, snap run.Snapshot, offers pool.Requisition) registry.ShopAction {
	if snap.RoomsCleared != p.visitKey {
		p.visitKey = snap.RoomsCleared
		p.visitedBuys = 0
		p.visitRerolls = 0
	}
	if p.visitedBuys >= p.buysPerShop || offers.Empty() {
		return registry.ShopAction{Kind: registry.ShopContinue}
	}

	budget := snap.Gold * p.spendPct / 100
	best := -1
	bestScore := 0
	for i, offer := range offers.Offers {
		if offer.Price > budget {
			continue
		}
		score := p.wantEffects[offer.Entry.Effect.Kind]
		if score == 0 {
			continue
		}
		if best < 0 || score > bestScore || (score == bestScore && offer.Price < offers.Offers[best].Price) {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		// a rich aggressive player pays for a fresh pool once
		if p.doorTaste == doorAggressive && p.visitRerolls == 0 && snap.Gold >= 120 {
			p.visitRerolls++
			return registry.ShopAction{Kind: registry.ShopReroll}
		}
		return registry.ShopAction{Kind: registry.ShopContinue}
	}
	p.visitedBuys++
	return registry.ShopAction{Kind: registry.ShopBuy, Slug: offers.Offers[best].Entry.Slug}
}

func (p *scripted) ChooseDoor(st *rng.Stream, snap run.Snapshot, doors []pool.Door) pool.DoorType {
	has := func(dt pool.DoorType) bool {
		for _, d := range doors {
			if d.Type == dt {
				return true
			}
		}
		return false
	}
	if has(pool.DoorAudit) {
		return pool.DoorAudit
	}
	switch p.doorTaste {
	case doorAggressive:
		if has(pool.DoorElite) {
			return pool.DoorElite
		}
		if has(pool.DoorAnomaly) {
			return pool.DoorAnomaly
		}
	case doorBalanced:
		if has(pool.DoorElite) && st.Chance(50) {
			return pool.DoorElite
		}
		if has(pool.DoorAnomaly) && st.Chance(30) {
			return pool.DoorAnomaly
		}
	}
	return pool.DoorStable
}

func (p *scripted) ChooseWanderer(st *rng.Stream, snap run.Snapshot, w catalog.Wanderer) run.WandererChoice {
	if p.wanderer == run.ChoiceAccept && snap.Gold+w.Accept.Gold < 0 {
		return run.ChoiceDecline // cannot afford the ask
	}
	return p.wanderer
}
