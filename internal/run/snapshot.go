package run

// Snapshot is a flat read model of a thread for rendering and
// simulation policies. It is a copy; holding one never observes later
// mutations.
type Snapshot struct {
	Seed         string `json:"seed"`
	Traveler     string `json:"traveler"`
	LuckyNumber  int    `json:"lucky_number"`
	ProtocolRoll int    `json:"protocol_roll"`

	Phase       Phase  `json:"phase"`
	DomainIndex int    `json:"domain_index"`
	Domain      string `json:"domain"`
	RoomIndex   int    `json:"room_index"`
	Tier        int    `json:"tier"`

	Gold         int     `json:"gold"`
	Heat         int     `json:"heat"`
	Favor        int     `json:"favor"`
	Calm         int     `json:"calm"`
	SkipPressure int     `json:"skip_pressure"`
	Power        int     `json:"power"`
	Guard        int     `json:"guard"`
	GoldRate     float64 `json:"gold_rate"`

	Items          int `json:"items"`
	RoomsCleared   int `json:"rooms_cleared"`
	DomainsCleared int `json:"domains_cleared"`

	ScoreGoal int    `json:"score_goal"`
	Synergy   string `json:"synergy"`

	Ended     bool `json:"ended"`
	Won       bool `json:"won"`
	LedgerLen int  `json:"ledger_len"`
}

// Snapshot projects the current thread state.
func (t *Thread) Snapshot() Snapshot {
	s := Snapshot{
		Phase:     t.phase,
		LedgerLen: len(t.events),
	}
	if t.rngs == nil { // not started yet
		return s
	}
	s.Seed = t.seed
	s.Traveler = t.traveler
	s.LuckyNumber = t.LuckyNumber()
	s.ProtocolRoll = t.protocolRoll
	s.DomainIndex = t.domainIndex
	s.Domain = t.Domain()
	s.RoomIndex = t.roomIndex
	s.Tier = t.tier
	s.Gold = t.Gold
	s.Heat = t.Heat
	s.Favor = t.Favor
	s.Calm = t.Calm
	s.SkipPressure = t.SkipPressure
	s.Power = t.Power
	s.Guard = t.Guard
	s.GoldRate = t.GoldRate
	s.Items = t.Items
	s.RoomsCleared = t.RoomsCleared
	s.DomainsCleared = t.DomainsCleared
	s.ScoreGoal = t.ScoreGoal()
	s.Synergy = t.Synergy().String()
	s.Ended = t.ended
	s.Won = t.won
	return s
}
