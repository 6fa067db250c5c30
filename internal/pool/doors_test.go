package pool

import (
	"testing"

	"github.com/frogmud/neverdieguy-core/internal/balance"
	"github.com/frogmud/neverdieguy-core/internal/catalog"
	"github.com/frogmud/neverdieguy-core/internal/rng"
)

func doorGen(t *testing.T, cfg balance.Config) *Generator {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return New(cat, &cfg)
}

func TestAvailableDoorsAlwaysIncludesStable(t *testing.T) {
	cfg := balance.Default()
	cfg.Doors.EliteChanceBase = 0
	cfg.Doors.EliteChancePerTier = 0
	cfg.Doors.AnomalyChanceBase = 0
	cfg.Doors.AnomalyChancePerTier = 0
	gen := doorGen(t, cfg)

	doors := gen.AvailableDoors(rng.NewPool("SEED1"), "meadow", 2, 1, 0)
	if len(doors) != 1 {
		t.Fatalf("doors = %d, want only stable with zeroed chances", len(doors))
	}
	if doors[0].Type != DoorStable {
		t.Errorf("first door = %s, want stable", doors[0].Type)
	}
}

func TestAvailableDoorsAtFullChance(t *testing.T) {
	cfg := balance.Default()
	cfg.Doors.EliteChanceBase = 100
	cfg.Doors.EliteChancePerTier = 0
	cfg.Doors.AnomalyChanceBase = 100
	cfg.Doors.AnomalyChancePerTier = 0
	gen := doorGen(t, cfg)

	doors := gen.AvailableDoors(rng.NewPool("SEED1"), "forest", 2, 3, 0)
	types := make(map[DoorType]bool)
	for _, d := range doors {
		types[d.Type] = true
	}
	if !types[DoorStable] || !types[DoorElite] || !types[DoorAnomaly] {
		t.Errorf("expected all three door types at 100%% chance, got %v", doors)
	}
}

func TestEliteNeedsMinimumRoom(t *testing.T) {
	cfg := balance.Default()
	cfg.Doors.EliteChanceBase = 100
	cfg.Doors.EliteChancePerTier = 0
	cfg.Doors.EliteMinRoom = 2
	cfg.Doors.AnomalyChanceBase = 0
	cfg.Doors.AnomalyChancePerTier = 0
	gen := doorGen(t, cfg)

	doors := gen.AvailableDoors(rng.NewPool("SEED1"), "forest", 1, 3, 0)
	for _, d := range doors {
		if d.Type == DoorElite {
			t.Error("elite door offered before the configured minimum room")
		}
	}
}

func TestDoorPreviewDeterministic(t *testing.T) {
	cfg := balance.Default()
	gen := doorGen(t, cfg)

	a := gen.DoorPreview(rng.NewPool("SEED8"), DoorAnomaly, "marsh", 2)
	b := gen.DoorPreview(rng.NewPool("SEED8"), DoorAnomaly, "marsh", 2)
	if len(a) != len(b) {
		t.Fatalf("preview lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("promise %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestRiskyDoorsAlwaysWarnHeat(t *testing.T) {
	cfg := balance.Default()
	gen := doorGen(t, cfg)

	for _, dt := range []DoorType{DoorElite, DoorAudit} {
		promises := gen.DoorPreview(rng.NewPool("SEED2"), dt, "crypt", 3)
		found := false
		for _, p := range promises {
			if p == PromiseHeatRise {
				found = true
			}
		}
		if !found {
			t.Errorf("%s door preview missing heat_rise promise", dt)
		}
	}
}
