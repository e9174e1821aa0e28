// Package config loads and persists envel settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all envel configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Budget     BudgetConfig     `toml:"budget"`
	Envelope   EnvelopeConfig   `toml:"envelope"`
	Advisor    AdvisorConfig    `toml:"advisor"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Timezone       string `toml:"timezone"`
	CurrencySymbol string `toml:"currency_symbol"`
	UserID         string `toml:"user_id,omitempty"`
}

// BudgetConfig holds the period end dates and the global savings reserve.
type BudgetConfig struct {
	SavingGoal       float64 `toml:"saving_goal"`
	EndDatePrimary   string  `toml:"end_date_primary,omitempty"`
	EndDateSecondary string  `toml:"end_date_secondary,omitempty"`
}

// EnvelopeConfig holds daily envelope settings.
type EnvelopeConfig struct {
	Enabled      bool    `toml:"enabled"`
	RoundingUnit float64 `toml:"rounding_unit"`
	UseSecondary bool    `toml:"use_secondary"`
}

// AdvisorConfig exposes the suggestion heuristic's constants. Zero values
// mean "use the default".
type AdvisorConfig struct {
	SurplusShare  float64 `toml:"surplus_share,omitempty"`
	FundsShare    float64 `toml:"funds_share,omitempty"`
	SafetyFactor  float64 `toml:"safety_factor,omitempty"`
	MinDaysLeft   int     `toml:"min_days_left,omitempty"`
	MinSampleSize int     `toml:"min_sample_size,omitempty"`
	MinSuggestion float64 `toml:"min_suggestion,omitempty"`
}

// DaemonConfig holds watch daemon settings.
type DaemonConfig struct {
	Addr            string `toml:"addr,omitempty"`
	PollIntervalSec int    `toml:"poll_interval_sec,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Timezone:       "Europe/Madrid",
			CurrencySymbol: "€",
		},
		Envelope: EnvelopeConfig{
			Enabled:      true,
			RoundingUnit: 10,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "envel")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "envel")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the budget DB.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "envel")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "envel")
}

// DBPath returns the full path to the budget database.
func DBPath() string {
	return filepath.Join(DataDir(), "envel.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
