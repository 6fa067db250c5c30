package run

import (
	"errors"
	"fmt"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
	"github.com/frogmud/neverdieguy-core/internal/rng"
)

// Phase is the current state-machine position of a thread.
type Phase string

const (
	PhaseEventSelect  Phase = "event_select"  // traveler choice, before the first event
	PhasePlaying      Phase = "playing"       // inside a room
	PhaseShop         Phase = "shop"          // post-clear requisition shop
	PhaseDoorSelect   Phase = "door_select"   // choosing the next door
	PhaseEncounter    Phase = "encounter"     // facing a wanderer
	PhaseAuditWarning Phase = "audit_warning" // standing before the domain audit room
	PhaseGameOver     Phase = "game_over"
)

var (
	// ErrInsufficientGold rejects a purchase or reroll without
	// mutating anything. The thread stays playable.
	ErrInsufficientGold = errors.New("run: not enough gold")

	// ErrWrongPhase rejects a transition not legal in the current
	// phase. State is untouched.
	ErrWrongPhase = errors.New("run: transition not allowed in this phase")

	// ErrNotOffered rejects picking a door or item that the current
	// deterministic offer does not contain.
	ErrNotOffered = errors.New("run: not in the current offer")
)

// Traveler is a pickable run identity. The lucky number seeds the
// protocol-roll synergy check for the whole run.
type Traveler struct {
	Name        string
	LuckyNumber int
}

// Travelers are the stock identities offered at thread start.
var Travelers = []Traveler{
	{Name: "Drifter", LuckyNumber: 7},
	{Name: "Gambler", LuckyNumber: 3},
	{Name: "Warden", LuckyNumber: 5},
}

// Thread is one live run. It owns the ledger, the phase machine and
// the derived counters; every mutation flows through a transition
// method that appends at most one ledger event. Not safe for
// concurrent use.
type Thread struct {
	cfg *balance.Config
	gen *pool.Generator

	rngs   *rng.Pool
	events []Event

	phase        Phase
	seed         string
	traveler     string
	baseLucky    int
	protocolRoll int

	domainIndex int // 1-based position in catalog.Domains
	roomIndex   int // 1..RoomsPerDomain
	tier        int

	tallies

	shopOpen       bool
	boughtThisShop bool
	rerollIndex    int
	roomPromises   []pool.Promise

	// Memoized offers for the current decision point. Each shop visit
	// and door selection consumes its rng stream exactly once; repeated
	// reads serve the cached pool until a reroll or phase change
	// invalidates it.
	shopCache *pool.Requisition
	doorCache []pool.Door

	pendingWanderer *catalog.Wanderer
	resumePhase     Phase

	won   bool
	ended bool
}

// NewThread creates an unstarted thread in the event_select phase.
func NewThread(cfg *balance.Config, gen *pool.Generator) *Thread {
	return &Thread{cfg: cfg, gen: gen, phase: PhaseEventSelect, tier: 1}
}

// Start seeds the thread and appends THREAD_START. The protocol roll
// is the first draw of the run and never changes afterwards.
func (t *Thread) Start(seed string, traveler Traveler) error {
	if t.phase != PhaseEventSelect {
		return fmt.Errorf("%w: start from %s", ErrWrongPhase, t.phase)
	}
	if err := rng.ValidateSeed(seed); err != nil {
		return err
	}
	roll := rng.NewStream(seed, "protocol").RollDie(100)
	ev := Event{Kind: EventThreadStart, ThreadStart: &ThreadStartPayload{
		Seed:         seed,
		Traveler:     traveler.Name,
		LuckyNumber:  traveler.LuckyNumber,
		ProtocolRoll: roll,
		StartingGold: t.cfg.Rewards.StartingGold,
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// Synergy is the lucky-number alignment for the current domain.
func (t *Thread) Synergy() balance.SynergyLevel {
	return t.cfg.LuckySynergy(t.LuckyNumber(), t.protocolRoll, t.domainIndex)
}

// ScoreGoal is the score needed to clear the current room, after guard
// items are applied. Never drops below 10.
func (t *Thread) ScoreGoal() int {
	goal := t.cfg.RoomScoreGoal(t.domainIndex, t.roomIndex, t.Heat) - t.Guard
	if goal < 10 {
		goal = 10
	}
	return goal
}

// ClearRoom records a cleared room, pays out gold and opens the shop.
func (t *Thread) ClearRoom(score int) error {
	if t.phase != PhasePlaying {
		return fmt.Errorf("%w: clear room from %s", ErrWrongPhase, t.phase)
	}
	syn := t.Synergy()
	award := t.cfg.GoldReward(t.tier, t.domainIndex, t.Heat, syn)
	award += int(float64(award) * t.GoldRate / 100)
	if t.hasPromise(pool.PromiseExtraGold) {
		award += award / 4
	}
	ev := Event{Kind: EventRoomClear, RoomClear: &RoomClearPayload{
		DomainIndex: t.domainIndex,
		RoomIndex:   t.roomIndex,
		Score:       score,
		GoldAwarded: award,
		Synergy:     syn.String(),
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// LoseRoom ends the thread in defeat.
func (t *Thread) LoseRoom() error {
	if t.phase != PhasePlaying {
		return fmt.Errorf("%w: lose room from %s", ErrWrongPhase, t.phase)
	}
	ev := Event{Kind: EventThreadEnd, ThreadEnd: &ThreadEndPayload{
		Won:         false,
		DomainIndex: t.domainIndex,
		RoomIndex:   t.roomIndex,
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// ShopOffers returns the deterministic requisition pool for the
// current shop visit. Calling it repeatedly returns the same pool
// until a reroll is bought.
func (t *Thread) ShopOffers() (pool.Requisition, error) {
	if t.phase != PhaseShop {
		return pool.Requisition{}, fmt.Errorf("%w: shop offers from %s", ErrWrongPhase, t.phase)
	}
	if t.shopCache == nil {
		r := t.gen.Requisition(t.rngs, pool.Request{
			Tier:          t.tier,
			Domain:        t.Domain(),
			SynergyBump:   t.Synergy().TierBump(),
			Reroll:        t.rerollIndex,
			GuaranteeHigh: t.roomIndex == balance.RoomsPerDomain-1 || t.hasPromise(pool.PromiseRareDrop),
		})
		t.shopCache = &r
	}
	return *t.shopCache, nil
}

// BuyItem purchases one offer from the current pool by slug. A thin
// purse returns ErrInsufficientGold and changes nothing.
func (t *Thread) BuyItem(slug string) error {
	offers, err := t.ShopOffers()
	if err != nil {
		return err
	}
	var found *pool.Offer
	for i := range offers.Offers {
		if offers.Offers[i].Entry.Slug == slug {
			found = &offers.Offers[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: item %q", ErrNotOffered, slug)
	}
	cost := t.cfg.FavorDiscount(found.Price, t.Favor)
	if t.hasPromise(pool.PromiseDiscount) {
		cost = cost * 9 / 10
		if cost < t.cfg.Pricing.MinPrice {
			cost = t.cfg.Pricing.MinPrice
		}
	}
	if t.Gold < cost {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientGold, slug, cost, t.Gold)
	}
	ev := Event{Kind: EventShopBuy, ShopBuy: &ShopBuyPayload{
		ItemSlug: slug,
		Cost:     cost,
		Tier:     offers.Tier,
		Effect:   found.Entry.Effect,
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// RerollShop buys a fresh pool for the current shop visit. The reroll
// draws from a new namespace; it never reseeds the run.
func (t *Thread) RerollShop() error {
	if t.phase != PhaseShop {
		return fmt.Errorf("%w: reroll from %s", ErrWrongPhase, t.phase)
	}
	cost := t.cfg.RerollCost(t.Calm)
	if t.Gold < cost {
		return fmt.Errorf("%w: reroll costs %d, have %d", ErrInsufficientGold, cost, t.Gold)
	}
	ev := Event{Kind: EventShopReroll, ShopReroll: &ShopRerollPayload{
		Index: t.rerollIndex + 1,
		Cost:  cost,
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// ShopContinue leaves the shop. Mid-domain it opens door selection;
// after the audit room it advances to the next domain, or ends the
// thread in victory after the final one. Leaving without buying builds
// skip pressure.
func (t *Thread) ShopContinue() error {
	if t.phase != PhaseShop {
		return fmt.Errorf("%w: continue from %s", ErrWrongPhase, t.phase)
	}
	if t.roomIndex < balance.RoomsPerDomain {
		t.closeShop()
		t.phase = PhaseDoorSelect
		return nil
	}
	if t.domainIndex == balance.DomainCount {
		ev := Event{Kind: EventThreadEnd, ThreadEnd: &ThreadEndPayload{
			Won:         true,
			DomainIndex: t.domainIndex,
			RoomIndex:   t.roomIndex,
		}}
		t.apply(ev)
		t.events = append(t.events, ev)
		return nil
	}
	t.closeShop()
	t.advanceDomain()
	t.domainIndex++
	t.roomIndex = 1
	t.roomPromises = nil
	t.phase = PhasePlaying
	return nil
}

// OfferedDoors returns the deterministic door set for the next room.
// The entrance to a domain's final room is always a single audit door.
func (t *Thread) OfferedDoors() ([]pool.Door, error) {
	if t.phase != PhaseDoorSelect {
		return nil, fmt.Errorf("%w: doors from %s", ErrWrongPhase, t.phase)
	}
	if t.doorCache == nil {
		next := t.roomIndex + 1
		if next == balance.RoomsPerDomain {
			t.doorCache = []pool.Door{{
				Type:     pool.DoorAudit,
				Promises: t.gen.DoorPreview(t.rngs, pool.DoorAudit, t.Domain(), next),
			}}
		} else {
			t.doorCache = t.gen.AvailableDoors(t.rngs, t.Domain(), next, t.tier, t.SkipPressure)
		}
	}
	out := make([]pool.Door, len(t.doorCache))
	copy(out, t.doorCache)
	return out, nil
}

// PickDoor commits to a door from the current offer and enters the
// room behind it. Elite doors raise heat on entry; the audit door
// routes through the audit warning; an anomaly door may open straight
// into a wanderer encounter.
func (t *Thread) PickDoor(doorType pool.DoorType) error {
	doors, err := t.OfferedDoors()
	if err != nil {
		return err
	}
	var picked *pool.Door
	for i := range doors {
		if doors[i].Type == doorType {
			picked = &doors[i]
			break
		}
	}
	if picked == nil {
		return fmt.Errorf("%w: door %q", ErrNotOffered, doorType)
	}
	heatGain := 0
	if doorType == pool.DoorElite {
		heatGain = t.cfg.Doors.EliteHeatGain
	}
	ev := Event{Kind: EventDoorPick, DoorPick: &DoorPickPayload{
		DoorType:    doorType,
		Promises:    picked.Promises,
		DomainIndex: t.domainIndex,
		RoomIndex:   t.roomIndex + 1,
		HeatGained:  heatGain,
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// AcknowledgeAudit records the audit warning being read and opens the
// audit room.
func (t *Thread) AcknowledgeAudit() error {
	if t.phase != PhaseAuditWarning {
		return fmt.Errorf("%w: acknowledge audit from %s", ErrWrongPhase, t.phase)
	}
	ev := Event{Kind: EventAuditClear, AuditClear: &AuditClearPayload{
		DomainIndex: t.domainIndex,
		Heat:        t.Heat,
		ScoreGoal:   t.ScoreGoal(),
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// SeekWanderer voluntarily looks for a wanderer in the current room.
// It appends nothing; only the resolved choice is a milestone.
func (t *Thread) SeekWanderer() error {
	if t.phase != PhasePlaying {
		return fmt.Errorf("%w: seek wanderer from %s", ErrWrongPhase, t.phase)
	}
	if !t.beginEncounter(PhasePlaying) {
		return fmt.Errorf("run: no wanderer in %s", t.Domain())
	}
	return nil
}

// Wanderer returns the NPC currently faced, if any.
func (t *Thread) Wanderer() (catalog.Wanderer, bool) {
	if t.pendingWanderer == nil {
		return catalog.Wanderer{}, false
	}
	return *t.pendingWanderer, true
}

// ResolveWandererChoice commits to a branch of the current encounter.
// Provoking a wanderer with a duel die rolls it first; losing the duel
// halves the gold take and adds a point of heat. The applied deltas
// are embedded in the event so replays never re-roll.
func (t *Thread) ResolveWandererChoice(choice WandererChoice) error {
	if t.phase != PhaseEncounter {
		return fmt.Errorf("%w: resolve encounter from %s", ErrWrongPhase, t.phase)
	}
	w := t.pendingWanderer
	var eff catalog.ChoiceEffect
	switch choice {
	case ChoiceAccept:
		eff = w.Accept
	case ChoiceDecline:
		eff = w.Decline
	case ChoiceProvoke:
		eff = w.Provoke
	default:
		return fmt.Errorf("run: unknown wanderer choice %q", choice)
	}
	var duelRoll int
	var duelWon bool
	if choice == ChoiceProvoke && w.DuelDie > 0 {
		ns := fmt.Sprintf("duel:%s:domain:%d:room:%d", w.Slug, t.domainIndex, t.roomIndex)
		duelRoll = t.rngs.Stream(ns).RollDie(w.DuelDie)
		duelWon = duelRoll*2 > w.DuelDie
		if !duelWon {
			eff.Gold /= 2
			eff.Heat++
		}
	}
	ev := Event{Kind: EventWandererChoice, WandererChoice: &WandererChoicePayload{
		NPCSlug:  w.Slug,
		Choice:   choice,
		Favor:    eff.Favor,
		Calm:     eff.Calm,
		Heat:     eff.Heat,
		Gold:     eff.Gold,
		DuelRoll: duelRoll,
		DuelWon:  duelWon,
		Resumed:  t.resumePhase,
	}}
	t.apply(ev)
	t.events = append(t.events, ev)
	return nil
}

// beginEncounter looks up the deterministic wanderer for the current
// room and enters the encounter phase. Returns false when the catalog
// has no one to meet.
func (t *Thread) beginEncounter(resume Phase) bool {
	w, ok := t.gen.EncounterNPC(t.rngs, t.Domain(), t.roomIndex)
	if !ok {
		t.phase = resume
		return false
	}
	t.pendingWanderer = &w
	t.resumePhase = resume
	t.phase = PhaseEncounter
	return true
}

// closeShop settles skip pressure when a shop visit ends. Idempotent;
// replay calls it from whichever milestone follows the visit.
func (t *Thread) closeShop() {
	if !t.shopOpen {
		return
	}
	if t.boughtThisShop {
		t.SkipPressure = 0
	} else {
		t.SkipPressure++
	}
	t.shopOpen = false
	t.boughtThisShop = false
	t.rerollIndex = 0
	t.shopCache = nil
}

// advanceDomain settles the domain-clear bookkeeping shared by the
// live transition and ledger replay.
func (t *Thread) advanceDomain() {
	t.DomainsCleared++
	t.tier = balance.TierForDomain(t.DomainsCleared)
}

func (t *Thread) hasPromise(p pool.Promise) bool {
	for _, have := range t.roomPromises {
		if have == p {
			return true
		}
	}
	return false
}

// apply mutates thread state for one ledger event. Live transitions
// call it after sampling their payload; Restore calls it for every
// stored record, so the two paths cannot drift. Implied phase moves
// that append nothing (shop continue, domain advance) are re-derived
// here from the phase the event arrives in.
func (t *Thread) apply(ev Event) {
	switch ev.Kind {
	case EventThreadStart:
		p := ev.ThreadStart
		t.seed = p.Seed
		t.traveler = p.Traveler
		t.baseLucky = p.LuckyNumber
		t.protocolRoll = p.ProtocolRoll
		t.rngs = rng.NewPool(p.Seed)
		t.Gold = p.StartingGold
		t.domainIndex = 1
		t.roomIndex = 1
		t.tier = 1
		t.phase = PhasePlaying

	case EventRoomClear:
		p := ev.RoomClear
		if t.shopOpen { // replay: shop continue into the next domain
			t.closeShop()
			if p.DomainIndex != t.domainIndex {
				t.advanceDomain()
				t.roomPromises = nil
			}
		}
		t.domainIndex = p.DomainIndex
		t.roomIndex = p.RoomIndex
		t.Gold += p.GoldAwarded
		t.RoomsCleared++
		t.shopOpen = true
		t.boughtThisShop = false
		t.rerollIndex = 0
		t.shopCache = nil
		t.doorCache = nil
		t.phase = PhaseShop

	case EventShopBuy:
		p := ev.ShopBuy
		t.Gold -= p.Cost
		t.Items++
		t.boughtThisShop = true
		t.applyItem(p.Effect)
		t.phase = PhaseShop

	case EventShopReroll:
		p := ev.ShopReroll
		t.Gold -= p.Cost
		t.rerollIndex = p.Index
		t.shopCache = nil
		t.phase = PhaseShop

	case EventDoorPick:
		p := ev.DoorPick
		t.closeShop() // replay: implied shop continue
		t.doorCache = nil
		t.domainIndex = p.DomainIndex
		t.roomIndex = p.RoomIndex
		t.Heat += p.HeatGained
		t.roomPromises = p.Promises
		switch {
		case p.RoomIndex == balance.RoomsPerDomain:
			t.phase = PhaseAuditWarning
		case p.DoorType == pool.DoorAnomaly:
			t.beginEncounter(PhasePlaying)
		default:
			t.phase = PhasePlaying
		}

	case EventAuditClear:
		t.phase = PhasePlaying

	case EventWandererChoice:
		p := ev.WandererChoice
		t.applyWanderer(p)
		t.pendingWanderer = nil
		t.phase = p.Resumed

	case EventThreadEnd:
		p := ev.ThreadEnd
		if t.shopOpen {
			t.closeShop()
			if p.Won || p.DomainIndex != t.domainIndex {
				t.advanceDomain()
			}
		}
		t.domainIndex = p.DomainIndex
		t.roomIndex = p.RoomIndex
		t.won = p.Won
		t.ended = true
		t.phase = PhaseGameOver
	}
}

// Restore rebuilds a thread from a stored ledger by replaying every
// event through the same application path the live transitions use.
func Restore(events []Event, cfg *balance.Config, gen *pool.Generator) (*Thread, error) {
	if len(events) == 0 {
		return nil, errors.New("run: empty ledger")
	}
	if events[0].Kind != EventThreadStart {
		return nil, fmt.Errorf("run: ledger starts with %s, want %s", events[0].Kind, EventThreadStart)
	}
	t := NewThread(cfg, gen)
	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("run: ledger record %d: %w", i, err)
		}
		if i > 0 && ev.Kind == EventThreadStart {
			return nil, fmt.Errorf("run: ledger record %d: duplicate %s", i, EventThreadStart)
		}
		if t.ended {
			return nil, fmt.Errorf("run: ledger record %d: event after %s", i, EventThreadEnd)
		}
		t.apply(ev)
		t.events = append(t.events, ev)
	}
	return t, nil
}

// Read accessors. The ledger slice is copied; callers never get a
// handle on the internal store.

func (t *Thread) Seed() string       { return t.seed }
func (t *Thread) TravelerName() string { return t.traveler }
func (t *Thread) LuckyNumber() int   { return t.baseLucky + t.LuckyShift }
func (t *Thread) ProtocolRoll() int  { return t.protocolRoll }
func (t *Thread) Phase() Phase       { return t.phase }
func (t *Thread) DomainIndex() int   { return t.domainIndex }
func (t *Thread) RoomIndex() int     { return t.roomIndex }
func (t *Thread) Tier() int          { return t.tier }
func (t *Thread) Won() bool          { return t.won }
func (t *Thread) Ended() bool        { return t.ended }

// Domain is the slug of the current domain, empty before Start.
func (t *Thread) Domain() string {
	if t.domainIndex < 1 || t.domainIndex > len(catalog.Domains) {
		return ""
	}
	return catalog.Domains[t.domainIndex-1]
}

// Events returns a copy of the ledger.
func (t *Thread) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}
