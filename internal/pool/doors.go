package pool

import (
	"fmt"

	"github.com/frogmud/neverdieguy-core/internal/rng"
)

// DoorType classifies the doors offered between rooms.
type DoorType string

const (
	DoorStable  DoorType = "stable"  // always offered, no strings attached
	DoorElite   DoorType = "elite"   // harder room, raises heat, richer promises
	DoorAnomaly DoorType = "anomaly" // wanderer territory, unpredictable
	DoorAudit   DoorType = "audit"   // the domain boss room entrance
)

// Promise is a reward flag previewed on a door before it is picked.
type Promise string

const (
	PromiseExtraGold Promise = "extra_gold"
	PromiseRareDrop  Promise = "rare_drop"
	PromiseHeatRise  Promise = "heat_rise"
	PromiseWanderer  Promise = "wanderer"
	PromiseDiscount  Promise = "discount"
)

// Door is one selectable exit with its previewed promises.
type Door struct {
	Type     DoorType
	Promises []Promise
}

// AvailableDoors returns the doors offered after a shop visit. A stable
// door is always present; elite and anomaly doors appear under
// tier-scaled chance checks looked up from the balance config, so door
// frequency is tunable without touching this sampling logic.
// skipPressure counts consecutive shops left without a purchase; each
// point adds AnomalySkipBonus percent to the anomaly door chance.
func (g *Generator) AvailableDoors(rp *rng.Pool, domain string, roomIndex, tier, skipPressure int) []Door {
	doors := []Door{{
		Type:     DoorStable,
		Promises: g.DoorPreview(rp, DoorStable, domain, roomIndex),
	}}

	if roomIndex >= g.cfg.Doors.EliteMinRoom {
		ns := fmt.Sprintf("door:offer:elite:domain:%s:room:%d", domain, roomIndex)
		if rp.Stream(ns).Chance(g.cfg.EliteDoorChance(tier)) {
			doors = append(doors, Door{
				Type:     DoorElite,
				Promises: g.DoorPreview(rp, DoorElite, domain, roomIndex),
			})
		}
	}

	ns := fmt.Sprintf("door:offer:anomaly:domain:%s:room:%d", domain, roomIndex)
	anomalyChance := g.cfg.AnomalyDoorChance(tier) + float64(skipPressure)*g.cfg.Doors.AnomalySkipBonus
	if rp.Stream(ns).Chance(anomalyChance) {
		doors = append(doors, Door{
			Type:     DoorAnomaly,
			Promises: g.DoorPreview(rp, DoorAnomaly, domain, roomIndex),
		})
	}

	return doors
}

// DoorPreview rolls the promise flags shown on a door. Riskier door
// types carry a richer and more hazardous promise set.
func (g *Generator) DoorPreview(rp *rng.Pool, doorType DoorType, domain string, roomIndex int) []Promise {
	ns := fmt.Sprintf("door:preview:%s:domain:%s:room:%d", doorType, domain, roomIndex)
	st := rp.Stream(ns)

	var promises []Promise
	switch doorType {
	case DoorStable:
		if st.Chance(20) {
			promises = append(promises, PromiseExtraGold)
		}
		if st.Chance(10) {
			promises = append(promises, PromiseDiscount)
		}

	case DoorElite:
		promises = append(promises, PromiseHeatRise)
		if st.Chance(50) {
			promises = append(promises, PromiseExtraGold)
		}
		if st.Chance(35) {
			promises = append(promises, PromiseRareDrop)
		}

	case DoorAnomaly:
		if st.Chance(60) {
			promises = append(promises, PromiseWanderer)
		}
		if st.Chance(25) {
			promises = append(promises, PromiseRareDrop)
		}
		if st.Chance(30) {
			promises = append(promises, PromiseHeatRise)
		}

	case DoorAudit:
		promises = append(promises, PromiseHeatRise)
		if st.Chance(60) {
			promises = append(promises, PromiseRareDrop)
		}
		if st.Chance(40) {
			promises = append(promises, PromiseExtraGold)
		}
	}

	return promises
}
