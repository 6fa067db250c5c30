package balance

import "math"

// clampTier folds any tier value into the valid 1..MaxTier band.
func clampTier(tier int) int {
	if tier < 1 {
		return 1
	}
	if tier > MaxTier {
		return MaxTier
	}
	return tier
}

// clampHeat treats negative heat as zero; heat only ever accumulates.
func clampHeat(heat int) int {
	if heat < 0 {
		return 0
	}
	return heat
}

// GoldReward computes the gold awarded for clearing a room. The base
// payout by reward tier is scaled up for later domains, for accumulated
// heat, and for a lucky synergy, then floored to an int. At heat 0 in
// domain 1 the result is exactly the tier's base payout.
func (c *Config) GoldReward(rewardTier, domainIndex, heat int, synergy SynergyLevel) int {
	rewardTier = clampTier(rewardTier)
	if domainIndex < 1 {
		domainIndex = 1
	}
	heat = clampHeat(heat)

	base := float64(c.Rewards.BaseByTier[rewardTier-1])
	base *= 1 + float64(domainIndex-1)*c.Rewards.DomainBonusRate
	base *= 1 + float64(heat)*c.Rewards.HeatBonusRate

	switch synergy {
	case SynergyWeak:
		base *= c.Synergy.WeakMult
	case SynergyStrong:
		base *= c.Synergy.StrongMult
	}

	return int(math.Floor(base))
}

// PriceMultiplier returns the shop price inflation for a tier.
// Non-decreasing in tier.
func (c *Config) PriceMultiplier(tier int) float64 {
	return c.Pricing.TierMultipliers[clampTier(tier)-1]
}

// ItemPrice applies the tier multiplier to an item's base price,
// floored, never below the configured minimum.
func (c *Config) ItemPrice(basePrice, tier int) int {
	price := int(math.Floor(float64(basePrice) * c.PriceMultiplier(tier)))
	if price < c.Pricing.MinPrice {
		price = c.Pricing.MinPrice
	}
	return price
}

// FavorDiscount applies favor-token discounting to a price. The
// discount is capped and the result never drops below the minimum
// price.
func (c *Config) FavorDiscount(basePrice, favorTokens int) int {
	if favorTokens < 0 {
		favorTokens = 0
	}
	discount := float64(favorTokens) * c.Pricing.FavorDiscountPerToken
	if discount > c.Pricing.MaxFavorDiscount {
		discount = c.Pricing.MaxFavorDiscount
	}
	price := int(math.Floor(float64(basePrice) * (1 - discount)))
	if price < c.Pricing.MinPrice {
		price = c.Pricing.MinPrice
	}
	return price
}

// RerollCost returns the gold cost of rerolling a shop pool, reduced by
// calm bonus, never negative.
func (c *Config) RerollCost(calmBonus int) int {
	if calmBonus < 0 {
		calmBonus = 0
	}
	cost := c.Pricing.RerollBaseCost - calmBonus*c.Pricing.RerollCalmReduction
	if cost < 0 {
		cost = 0
	}
	return cost
}

// HeatDifficulty scales a base score goal by accumulated heat.
func (c *Config) HeatDifficulty(baseScoreGoal, heat int) int {
	heat = clampHeat(heat)
	return int(math.Floor(float64(baseScoreGoal) * (1 + float64(heat)*c.Difficulty.ScalePerHeat)))
}

// RoomScoreGoal returns the score a traveler must reach to clear the
// given room, before heat scaling. Room 3 is the domain audit and pays
// the boss multiplier.
func (c *Config) RoomScoreGoal(domainIndex, roomIndex, heat int) int {
	if domainIndex < 1 {
		domainIndex = 1
	}
	goal := c.Difficulty.BaseScoreGoal + (domainIndex-1)*c.Difficulty.GoalPerDomain
	if roomIndex >= RoomsPerDomain {
		goal = int(math.Floor(float64(goal) * c.Difficulty.BossGoalMultiplier))
	}
	return c.HeatDifficulty(goal, heat)
}

// LuckySynergy compares the traveler's lucky number against the
// protocol roll and current domain. Match components: the roll's ones
// digit, the roll's tens digit, and domain alignment ((lucky-1) mod 6
// picking the current domain). The match count is mapped to a level via
// the configured thresholds.
func (c *Config) LuckySynergy(luckyNumber, protocolRoll, domainIndex int) SynergyLevel {
	if luckyNumber < 0 {
		luckyNumber = -luckyNumber
	}
	if protocolRoll < 0 {
		protocolRoll = 0
	}

	matches := 0
	if luckyNumber%10 == protocolRoll%10 {
		matches++
	}
	if luckyNumber%10 == (protocolRoll/10)%10 {
		matches++
	}
	if domainIndex >= 1 && (luckyNumber-1)%DomainCount == (domainIndex-1)%DomainCount {
		matches++
	}

	switch {
	case c.Synergy.StrongMatches > 0 && matches >= c.Synergy.StrongMatches:
		return SynergyStrong
	case c.Synergy.WeakMatches > 0 && matches >= c.Synergy.WeakMatches:
		return SynergyWeak
	default:
		return SynergyNone
	}
}

// TierForDomain maps cleared-domain count to a requisition tier.
// Monotone step function: 0-1 cleared -> tier 1, then one tier per
// additional domain, capped at MaxTier.
func TierForDomain(domainsCleared int) int {
	if domainsCleared < 2 {
		return 1
	}
	tier := domainsCleared
	if tier > MaxTier {
		tier = MaxTier
	}
	return tier
}

// EliteDoorChance returns the percent chance an elite door is offered
// at the given tier.
func (c *Config) EliteDoorChance(tier int) float64 {
	return c.Doors.EliteChanceBase + float64(clampTier(tier)-1)*c.Doors.EliteChancePerTier
}

// AnomalyDoorChance returns the percent chance an anomaly door is
// offered at the given tier.
func (c *Config) AnomalyDoorChance(tier int) float64 {
	return c.Doors.AnomalyChanceBase + float64(clampTier(tier)-1)*c.Doors.AnomalyChancePerTier
}
