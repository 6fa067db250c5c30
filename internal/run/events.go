// Package run owns the authoritative state of one roguelike run: an
// append-only ledger of irreversible milestones plus a phase state
// machine. All randomness is delegated to pool/rng calls made
// immediately before a transition; the sampled results are embedded in
// the event payloads, so replaying the ledger is exact and every
// derived counter can be recomputed by folding the ledger from
// scratch.
package run

import (
	"encoding/json"
	"fmt"

	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/pool"
)

// EventKind tags a ledger event variant.
type EventKind string

const (
	EventThreadStart    EventKind = "THREAD_START"
	EventDoorPick       EventKind = "DOOR_PICK"
	EventAuditClear     EventKind = "AUDIT_CLEAR"
	EventRoomClear      EventKind = "ROOM_CLEAR"
	EventShopBuy        EventKind = "SHOP_BUY"
	EventShopReroll     EventKind = "SHOP_REROLL"
	EventWandererChoice EventKind = "WANDERER_CHOICE"
	EventThreadEnd      EventKind = "THREAD_END"
)

// Event is one immutable ledger record. Exactly one payload pointer is
// set, matching Kind. Events are never edited or removed once
// appended.
type Event struct {
	Kind EventKind `json:"kind"`

	ThreadStart    *ThreadStartPayload    `json:"thread_start,omitempty"`
	DoorPick       *DoorPickPayload       `json:"door_pick,omitempty"`
	AuditClear     *AuditClearPayload     `json:"audit_clear,omitempty"`
	RoomClear      *RoomClearPayload      `json:"room_clear,omitempty"`
	ShopBuy        *ShopBuyPayload        `json:"shop_buy,omitempty"`
	ShopReroll     *ShopRerollPayload     `json:"shop_reroll,omitempty"`
	WandererChoice *WandererChoicePayload `json:"wanderer_choice,omitempty"`
	ThreadEnd      *ThreadEndPayload      `json:"thread_end,omitempty"`
}

// ThreadStartPayload records the birth of a run.
type ThreadStartPayload struct {
	Seed         string `json:"seed"`
	Traveler     string `json:"traveler"`
	LuckyNumber  int    `json:"lucky_number"`
	ProtocolRoll int    `json:"protocol_roll"`
	StartingGold int    `json:"starting_gold"`
}

// DoorPickPayload records a chosen door and the room it opened.
type DoorPickPayload struct {
	DoorType    pool.DoorType  `json:"door_type"`
	Promises    []pool.Promise `json:"promises,omitempty"`
	DomainIndex int            `json:"domain_index"`
	RoomIndex   int            `json:"room_index"`
	HeatGained  int            `json:"heat_gained,omitempty"`
}

// AuditClearPayload records the audit warning being acknowledged on
// entry to a domain's boss room.
type AuditClearPayload struct {
	DomainIndex int `json:"domain_index"`
	Heat        int `json:"heat"`
	ScoreGoal   int `json:"score_goal"`
}

// RoomClearPayload records a cleared room and its payout.
type RoomClearPayload struct {
	DomainIndex int    `json:"domain_index"`
	RoomIndex   int    `json:"room_index"`
	Score       int    `json:"score"`
	GoldAwarded int    `json:"gold_awarded"`
	Synergy     string `json:"synergy"`
}

// ShopBuyPayload records a purchase. The resolved item effect is
// embedded so folding the ledger never needs the catalog.
type ShopBuyPayload struct {
	ItemSlug string         `json:"item_slug"`
	Cost     int            `json:"cost"`
	Tier     int            `json:"tier"`
	Effect   catalog.Effect `json:"effect"`
}

// ShopRerollPayload records gold spent re-rolling a shop pool.
type ShopRerollPayload struct {
	Index int `json:"index"` // reroll index this purchase bought
	Cost  int `json:"cost"`
}

// WandererChoice names the branch taken at a wanderer encounter.
type WandererChoice string

const (
	ChoiceAccept  WandererChoice = "accept"
	ChoiceDecline WandererChoice = "decline"
	ChoiceProvoke WandererChoice = "provoke"
)

// WandererChoicePayload records an encounter resolution. The deltas are
// the values actually applied (after any duel adjustment), so the fold
// only replays them.
type WandererChoicePayload struct {
	NPCSlug  string         `json:"npc_slug"`
	Choice   WandererChoice `json:"choice"`
	Favor    int            `json:"favor,omitempty"`
	Calm     int            `json:"calm,omitempty"`
	Heat     int            `json:"heat,omitempty"`
	Gold     int            `json:"gold,omitempty"`
	DuelRoll int            `json:"duel_roll,omitempty"`
	DuelWon  bool           `json:"duel_won,omitempty"`
	Resumed  Phase          `json:"resumed"`
}

// ThreadEndPayload records the end of a run, win or loss.
type ThreadEndPayload struct {
	Won         bool `json:"won"`
	DomainIndex int  `json:"domain_index"`
	RoomIndex   int  `json:"room_index"`
}

// Validate checks that exactly the payload matching Kind is present.
func (e Event) Validate() error {
	var set int
	var match bool
	check := func(kind EventKind, present bool) {
		if present {
			set++
			if e.Kind == kind {
				match = true
			}
		}
	}
	check(EventThreadStart, e.ThreadStart != nil)
	check(EventDoorPick, e.DoorPick != nil)
	check(EventAuditClear, e.AuditClear != nil)
	check(EventRoomClear, e.RoomClear != nil)
	check(EventShopBuy, e.ShopBuy != nil)
	check(EventShopReroll, e.ShopReroll != nil)
	check(EventWandererChoice, e.WandererChoice != nil)
	check(EventThreadEnd, e.ThreadEnd != nil)

	if set != 1 || !match {
		return fmt.Errorf("run: event %q has %d payloads (want exactly the matching one)", e.Kind, set)
	}
	return nil
}

// MarshalLedger encodes an event ledger as JSON. This is the sole
// durable representation of a run.
func MarshalLedger(events []Event) ([]byte, error) {
	return json.Marshal(events)
}

// UnmarshalLedger decodes a stored ledger and validates every record.
func UnmarshalLedger(data []byte) ([]Event, error) {
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("run: cannot decode ledger: %w", err)
	}
	for i, e := range events {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("run: ledger record %d: %w", i, err)
		}
	}
	return events, nil
}
