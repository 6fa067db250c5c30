package balance

import "testing"

func TestGoldRewardBaseline(t *testing.T) {
	cfg := Default()

	// Tier 1, domain 1, no heat, no synergy: exactly the tier base.
	got := cfg.GoldReward(1, 1, 0, SynergyNone)
	if got != 50 {
		t.Errorf("baseline reward = %d, want 50", got)
	}
	if got <= 0 {
		t.Error("baseline reward must never be zero or negative")
	}
}

func TestGoldRewardScaling(t *testing.T) {
	cfg := Default()

	// Later domains pay more: 50 * (1 + 0.20) = 60
	if got := cfg.GoldReward(1, 2, 0, SynergyNone); got != 60 {
		t.Errorf("domain 2 reward = %d, want 60", got)
	}

	// Heat bonus: 80 * (1 + 3*0.10) = 104
	if got := cfg.GoldReward(2, 1, 3, SynergyNone); got != 104 {
		t.Errorf("heat-3 tier-2 reward = %d, want 104", got)
	}

	// Synergy multipliers: 50*1.25 = 62.5 -> 62, 50*1.5 = 75
	if got := cfg.GoldReward(1, 1, 0, SynergyWeak); got != 62 {
		t.Errorf("weak synergy reward = %d, want 62", got)
	}
	if got := cfg.GoldReward(1, 1, 0, SynergyStrong); got != 75 {
		t.Errorf("strong synergy reward = %d, want 75", got)
	}
}

func TestGoldRewardClamping(t *testing.T) {
	cfg := Default()

	// Negative heat clamps to zero, out-of-range tiers clamp into band.
	if got, want := cfg.GoldReward(1, 1, -5, SynergyNone), 50; got != want {
		t.Errorf("negative heat reward = %d, want %d", got, want)
	}
	if got, want := cfg.GoldReward(0, 1, 0, SynergyNone), 50; got != want {
		t.Errorf("tier 0 reward = %d, want %d (clamped to tier 1)", got, want)
	}
	if got, want := cfg.GoldReward(99, 1, 0, SynergyNone), 260; got != want {
		t.Errorf("tier 99 reward = %d, want %d (clamped to tier 5)", got, want)
	}
	if got, want := cfg.GoldReward(1, 0, 0, SynergyNone), 50; got != want {
		t.Errorf("domain 0 reward = %d, want %d (clamped to domain 1)", got, want)
	}
}

func TestPriceMultiplierMonotonic(t *testing.T) {
	cfg := Default()
	prev := 0.0
	for tier := 1; tier <= MaxTier; tier++ {
		m := cfg.PriceMultiplier(tier)
		if m < prev {
			t.Errorf("PriceMultiplier(%d) = %v, below PriceMultiplier(%d) = %v", tier, m, tier-1, prev)
		}
		prev = m
	}
}

func TestItemPrice(t *testing.T) {
	cfg := Default()

	// 20 * 1.6 = 32
	if got := cfg.ItemPrice(20, 3); got != 32 {
		t.Errorf("ItemPrice(20, 3) = %d, want 32", got)
	}
	// Price floor holds even for absurdly cheap items.
	if got := cfg.ItemPrice(1, 1); got != cfg.Pricing.MinPrice {
		t.Errorf("ItemPrice(1, 1) = %d, want min price %d", got, cfg.Pricing.MinPrice)
	}
}

func TestFavorDiscount(t *testing.T) {
	cfg := Default()

	// 2 tokens on 100 gold: 100 * (1 - 0.10) = 90
	if got := cfg.FavorDiscount(100, 2); got != 90 {
		t.Errorf("FavorDiscount(100, 2) = %d, want 90", got)
	}
	// Cap at max discount: 20 tokens would be 100% off, capped to 40%.
	if got := cfg.FavorDiscount(100, 20); got != 60 {
		t.Errorf("FavorDiscount(100, 20) = %d, want 60", got)
	}
	// Never below the minimum price.
	if got := cfg.FavorDiscount(6, 10); got != cfg.Pricing.MinPrice {
		t.Errorf("FavorDiscount(6, 10) = %d, want min price %d", got, cfg.Pricing.MinPrice)
	}
	// Negative tokens behave like zero.
	if got := cfg.FavorDiscount(100, -3); got != 100 {
		t.Errorf("FavorDiscount(100, -3) = %d, want 100", got)
	}
}

func TestRerollCost(t *testing.T) {
	cfg := Default()

	if got := cfg.RerollCost(0); got != 20 {
		t.Errorf("RerollCost(0) = %d, want 20", got)
	}
	if got := cfg.RerollCost(3); got != 5 {
		t.Errorf("RerollCost(3) = %d, want 5", got)
	}
	// Large calm bonus floors at zero, never negative.
	if got := cfg.RerollCost(10); got != 0 {
		t.Errorf("RerollCost(10) = %d, want 0", got)
	}
}

func TestHeatDifficulty(t *testing.T) {
	cfg := Default()

	if got := cfg.HeatDifficulty(100, 0); got != 100 {
		t.Errorf("HeatDifficulty(100, 0) = %d, want 100", got)
	}
	// 100 * (1 + 2*0.15) = 130
	if got := cfg.HeatDifficulty(100, 2); got != 130 {
		t.Errorf("HeatDifficulty(100, 2) = %d, want 130", got)
	}
	if got := cfg.HeatDifficulty(100, -7); got != 100 {
		t.Errorf("HeatDifficulty(100, -7) = %d, want 100 (heat clamps to 0)", got)
	}
}

func TestRoomScoreGoal(t *testing.T) {
	cfg := Default()

	if got := cfg.RoomScoreGoal(1, 1, 0); got != 100 {
		t.Errorf("domain 1 room 1 goal = %d, want 100", got)
	}
	if got := cfg.RoomScoreGoal(2, 1, 0); got != 140 {
		t.Errorf("domain 2 room 1 goal = %d, want 140", got)
	}
	// Boss room: 100 * 1.5 = 150
	if got := cfg.RoomScoreGoal(1, 3, 0); got != 150 {
		t.Errorf("domain 1 audit room goal = %d, want 150", got)
	}
}

func TestLuckySynergy(t *testing.T) {
	cfg := Default()

	// No components match.
	if got := cfg.LuckySynergy(3, 55, 2); got != SynergyNone {
		t.Errorf("LuckySynergy(3, 55, 2) = %s, want none", got)
	}
	// Ones digit matches only: weak.
	if got := cfg.LuckySynergy(5, 15, 1); got != SynergyWeak {
		t.Errorf("LuckySynergy(5, 15, 1) = %s, want weak", got)
	}
	// Ones and tens digits match: strong.
	if got := cfg.LuckySynergy(5, 55, 3); got != SynergyStrong {
		t.Errorf("LuckySynergy(5, 55, 3) = %s, want strong", got)
	}
	// Ones digit plus domain alignment: strong.
	if got := cfg.LuckySynergy(7, 7, 1); got != SynergyStrong {
		t.Errorf("LuckySynergy(7, 7, 1) = %s, want strong", got)
	}
}

func TestSynergyTierBump(t *testing.T) {
	if SynergyNone.TierBump() != 0 || SynergyWeak.TierBump() != 1 || SynergyStrong.TierBump() != 2 {
		t.Error("synergy tier bumps must be 0/1/2")
	}
}

func TestTierForDomain(t *testing.T) {
	cases := []struct{ cleared, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {6, 5}, {10, 5},
	}
	prev := 0
	for _, tc := range cases {
		got := TierForDomain(tc.cleared)
		if got != tc.want {
			t.Errorf("TierForDomain(%d) = %d, want %d", tc.cleared, got, tc.want)
		}
		if got < prev {
			t.Errorf("TierForDomain not monotone at %d", tc.cleared)
		}
		prev = got
	}
}

func TestPresets(t *testing.T) {
	base := Default()

	gentle := Default()
	if err := ApplyPreset(&gentle, PresetGentle); err != nil {
		t.Fatalf("gentle preset: %v", err)
	}
	if gentle.Rewards.BaseByTier[0] <= base.Rewards.BaseByTier[0] {
		t.Error("gentle preset should raise base rewards")
	}
	if gentle.Pricing.TierMultipliers[0] >= base.Pricing.TierMultipliers[0] {
		t.Error("gentle preset should lower prices")
	}

	brutal := Default()
	if err := ApplyPreset(&brutal, PresetBrutal); err != nil {
		t.Fatalf("brutal preset: %v", err)
	}
	if brutal.Rewards.BaseByTier[0] >= base.Rewards.BaseByTier[0] {
		t.Error("brutal preset should cut base rewards")
	}

	bad := Default()
	if err := ApplyPreset(&bad, "nightmare"); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	cfg := Default()
	cfg.Rewards.BaseByTier = []int{50, 80}
	if err := cfg.Validate(); err == nil {
		t.Error("short base_by_tier accepted")
	}

	cfg = Default()
	cfg.Pricing.TierMultipliers[2] = 0.5 // breaks monotonicity
	if err := cfg.Validate(); err == nil {
		t.Error("non-monotone tier_multipliers accepted")
	}

	cfg = Default()
	cfg.Targets.WinRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range target win_rate accepted")
	}
}
