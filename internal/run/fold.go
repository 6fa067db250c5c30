package run

import (
	"fmt"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
)

// tallies are the accumulated counters of a run. Thread embeds them
// for live play; Fold rebuilds an identical set from the ledger alone,
// which is what makes counter drift detectable.
type tallies struct {
	Gold int
	Heat int

	Favor int // wanderer favor tokens, discount shop prices
	Calm  int // calm bonus, reduces reroll cost

	Power      int     // flat score bonus from items
	Guard      int     // score-goal reduction from items
	LuckyShift int     // lucky-number shift from items
	GoldRate   float64 // percent bonus on room payouts

	Items          int
	RoomsCleared   int
	DomainsCleared int
	SkipPressure   int
}

// applyItem folds one purchased item effect into the counters.
func (c *tallies) applyItem(e catalog.Effect) {
	switch e.Kind {
	case catalog.EffectPower:
		c.Power += e.Amount
	case catalog.EffectGuard:
		c.Guard += e.Amount
	case catalog.EffectGoldRate:
		c.GoldRate += e.Percent
	case catalog.EffectHeatVent:
		c.Heat -= e.Amount
		if c.Heat < 0 {
			c.Heat = 0
		}
	case catalog.EffectFavor:
		c.Favor += e.Amount
	case catalog.EffectCalm:
		c.Calm += e.Amount
	case catalog.EffectLucky:
		c.LuckyShift += e.Amount
	}
}

// applyWanderer folds the recorded deltas of an encounter resolution.
// Counters floor at zero; a wanderer can drain a purse, not indebt it.
func (c *tallies) applyWanderer(p *WandererChoicePayload) {
	c.Favor = floorZero(c.Favor + p.Favor)
	c.Calm = floorZero(c.Calm + p.Calm)
	c.Heat = floorZero(c.Heat + p.Heat)
	c.Gold = floorZero(c.Gold + p.Gold)
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Derived is the read model recomputed from a ledger with no access to
// config, catalog or RNG state.
type Derived struct {
	tallies

	Tier        int
	DomainIndex int
	RoomIndex   int

	EventCounts map[EventKind]int

	// OpenShop reports that the ledger ends inside a shop visit; the
	// continue that closes it appends nothing, so a live thread may be
	// one settle ahead of the fold.
	OpenShop       bool
	OpenShopBought bool

	Ended bool
	Won   bool
}

// Fold replays a ledger into its derived counters. It is deliberately
// independent of the Thread transition code: the two are checked
// against each other in Verify, so a bug has to appear in both to go
// unnoticed. Shop visits leave no explicit close record; the fold
// infers them from the first milestone after a ROOM_CLEAR.
func Fold(events []Event) Derived {
	d := Derived{
		Tier:        1,
		EventCounts: make(map[EventKind]int),
	}
	inShop := false
	bought := false
	closeShop := func() {
		if !inShop {
			return
		}
		if bought {
			d.SkipPressure = 0
		} else {
			d.SkipPressure++
		}
		inShop = false
		bought = false
	}

	for _, ev := range events {
		d.EventCounts[ev.Kind]++
		switch ev.Kind {
		case EventThreadStart:
			d.Gold = ev.ThreadStart.StartingGold
			d.DomainIndex = 1
			d.RoomIndex = 1

		case EventRoomClear:
			p := ev.RoomClear
			if inShop { // shop continue into the next domain
				advance := p.DomainIndex != d.DomainIndex
				closeShop()
				if advance {
					d.DomainsCleared++
					d.Tier = balance.TierForDomain(d.DomainsCleared)
				}
			}
			d.DomainIndex = p.DomainIndex
			d.RoomIndex = p.RoomIndex
			d.Gold += p.GoldAwarded
			d.RoomsCleared++
			inShop = true
			bought = false

		case EventShopBuy:
			p := ev.ShopBuy
			d.Gold -= p.Cost
			d.Items++
			d.applyItem(p.Effect)
			bought = true

		case EventShopReroll:
			d.Gold -= ev.ShopReroll.Cost

		case EventDoorPick:
			p := ev.DoorPick
			closeShop()
			d.DomainIndex = p.DomainIndex
			d.RoomIndex = p.RoomIndex
			d.Heat += p.HeatGained

		case EventAuditClear:
			// informational; heat and goal are recorded, not applied

		case EventWandererChoice:
			d.applyWanderer(ev.WandererChoice)

		case EventThreadEnd:
			p := ev.ThreadEnd
			if inShop {
				advance := p.Won || p.DomainIndex != d.DomainIndex
				closeShop()
				if advance {
					d.DomainsCleared++
					d.Tier = balance.TierForDomain(d.DomainsCleared)
				}
			}
			d.DomainIndex = p.DomainIndex
			d.RoomIndex = p.RoomIndex
			d.Ended = true
			d.Won = p.Won
		}
	}
	d.OpenShop = inShop
	d.OpenShopBought = bought
	return d
}

// Verify folds the thread's own ledger and compares every derived
// counter against the live state. A mismatch means a transition
// mutated state it did not record, which voids the replay guarantee.
// A shop continue appends nothing, so when the live thread has already
// left a shop the fold still sees it open; Verify settles the fold the
// same way before comparing.
func (t *Thread) Verify() error {
	d := Fold(t.events)
	if d.OpenShop && t.phase != PhaseShop {
		if d.OpenShopBought {
			d.SkipPressure = 0
		} else {
			d.SkipPressure++
		}
		if t.domainIndex != d.DomainIndex {
			d.DomainsCleared++
			d.Tier = balance.TierForDomain(d.DomainsCleared)
			d.DomainIndex = t.domainIndex
			d.RoomIndex = t.roomIndex
		}
	}
	if d.tallies != t.tallies {
		return fmt.Errorf("run: ledger fold disagrees with live counters: fold %+v, live %+v", d.tallies, t.tallies)
	}
	if d.Tier != t.tier {
		return fmt.Errorf("run: ledger fold tier %d, live %d", d.Tier, t.tier)
	}
	if d.DomainIndex != t.domainIndex || d.RoomIndex != t.roomIndex {
		return fmt.Errorf("run: ledger fold position %d/%d, live %d/%d",
			d.DomainIndex, d.RoomIndex, t.domainIndex, t.roomIndex)
	}
	if d.Ended != t.ended || d.Won != t.won {
		return fmt.Errorf("run: ledger fold outcome ended=%v won=%v, live ended=%v won=%v",
			d.Ended, d.Won, t.ended, t.won)
	}
	return nil
}
