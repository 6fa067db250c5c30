package balance

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/balance.yaml
var defaultBalanceYAML []byte

// Load reads the balance configuration.
// Search order: customPath -> ~/.ndg/balance.yaml -> ./configs/balance.yaml -> embedded default.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("balance: cannot read %s: %w", customPath, err)
		}
		return parse(data)
	}

	if userPath := userConfigPath(); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "balance.yaml")); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	return Default(), nil
}

// Default returns the embedded baseline configuration.
func Default() Config {
	cfg, err := parse(defaultBalanceYAML)
	if err != nil {
		// The embedded default is part of the build; failing to parse it
		// is a programmer error, not a runtime condition.
		panic(fmt.Sprintf("balance: embedded default invalid: %v", err))
	}
	return cfg
}

// userConfigPath returns the path to the user balance file, or empty if
// home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ndg", "balance.yaml")
}

func parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("balance: cannot parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run on. Called at
// load time and again on every tuner candidate after mutation.
func (c *Config) Validate() error {
	if len(c.Rewards.BaseByTier) != MaxTier {
		return fmt.Errorf("balance: base_by_tier needs %d entries, got %d", MaxTier, len(c.Rewards.BaseByTier))
	}
	for i, v := range c.Rewards.BaseByTier {
		if v <= 0 {
			return fmt.Errorf("balance: base_by_tier[%d] must be positive, got %d", i, v)
		}
	}
	if len(c.Pricing.TierMultipliers) != MaxTier {
		return fmt.Errorf("balance: tier_multipliers needs %d entries, got %d", MaxTier, len(c.Pricing.TierMultipliers))
	}
	for i, m := range c.Pricing.TierMultipliers {
		if m <= 0 {
			return fmt.Errorf("balance: tier_multipliers[%d] must be positive, got %v", i, m)
		}
		if i > 0 && m < c.Pricing.TierMultipliers[i-1] {
			return fmt.Errorf("balance: tier_multipliers must be non-decreasing (index %d)", i)
		}
	}
	if c.Pricing.MinPrice < 0 {
		return fmt.Errorf("balance: min_price cannot be negative")
	}
	if c.Difficulty.BaseScoreGoal <= 0 {
		return fmt.Errorf("balance: base_score_goal must be positive")
	}
	if c.Difficulty.BossGoalMultiplier < 1 {
		return fmt.Errorf("balance: boss_goal_multiplier must be at least 1")
	}
	if c.Synergy.WeakMatches > c.Synergy.StrongMatches {
		return fmt.Errorf("balance: weak_matches cannot exceed strong_matches")
	}
	if c.Targets.WinRate < 0 || c.Targets.WinRate > 1 {
		return fmt.Errorf("balance: target win_rate must be within [0,1]")
	}
	return nil
}
