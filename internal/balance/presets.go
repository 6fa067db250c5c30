package balance

import "fmt"

// Preset names a packaged balance variant.
type Preset string

const (
	PresetDefault Preset = "default"
	PresetGentle  Preset = "gentle"
	PresetBrutal  Preset = "brutal"
)

// Presets lists every packaged preset name.
var Presets = []Preset{PresetDefault, PresetGentle, PresetBrutal}

// ApplyPreset adjusts a configuration in place for a named preset.
// "default" leaves the config untouched.
func ApplyPreset(cfg *Config, preset Preset) error {
	switch preset {
	case PresetDefault, "":
		return nil

	case PresetGentle:
		// More money, cheaper shops, slower difficulty ramp.
		for i := range cfg.Rewards.BaseByTier {
			cfg.Rewards.BaseByTier[i] = cfg.Rewards.BaseByTier[i] * 5 / 4
		}
		for i := range cfg.Pricing.TierMultipliers {
			cfg.Pricing.TierMultipliers[i] *= 0.85
		}
		cfg.Difficulty.ScalePerHeat *= 0.6
		cfg.Doors.EliteChanceBase *= 0.75
		return nil

	case PresetBrutal:
		// Tighter gold, pricier shops, heat bites harder, riskier doors.
		for i := range cfg.Rewards.BaseByTier {
			cfg.Rewards.BaseByTier[i] = cfg.Rewards.BaseByTier[i] * 4 / 5
		}
		for i := range cfg.Pricing.TierMultipliers {
			cfg.Pricing.TierMultipliers[i] *= 1.2
		}
		cfg.Difficulty.ScalePerHeat *= 1.5
		cfg.Doors.EliteChanceBase += 10
		cfg.Doors.AnomalyChanceBase += 5
		return nil

	default:
		return fmt.Errorf("balance: unknown preset %q", preset)
	}
}
