package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// StorageConfig controls where the local database lives.
type StorageConfig struct {
	// Path is the SQLite database file. A leading ~ is expanded.
	Path string `mapstructure:"path" yaml:"path"`
}

// EnergyConfig holds the bounds used when picking a daily ceiling.
type EnergyConfig struct {
	// DefaultCeiling is reported when today's energy has not been set.
	DefaultCeiling int `mapstructure:"default_ceiling" yaml:"default_ceiling"`

	MinCeiling int `mapstructure:"min_ceiling" yaml:"min_ceiling"`
	MaxCeiling int `mapstructure:"max_ceiling" yaml:"max_ceiling"`
	Step       int `mapstructure:"step" yaml:"step"`

	// RolloverTime is the local HH:MM at which a new day starts.
	RolloverTime string `mapstructure:"rollover_time" yaml:"rollover_time"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	ShowCompleted bool `mapstructure:"show_completed" yaml:"show_completed"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Energy  EnergyConfig  `mapstructure:"energy" yaml:"energy"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/energyplan/config.yaml.
func DefaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "energyplan", "config.yaml")
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Path: "~/.local/share/energyplan/energyplan.db",
		},
		Energy: EnergyConfig{
			DefaultCeiling: 100,
			MinCeiling:     25,
			MaxCeiling:     500,
			Step:           5,
			RolloverTime:   "00:00",
		},
		Display: DisplayConfig{
			ShowCompleted: true,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// ENERGYPLAN_* environment variables override file values.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("energyplan")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("energy.default_ceiling", def.Energy.DefaultCeiling)
	v.SetDefault("energy.min_ceiling", def.Energy.MinCeiling)
	v.SetDefault("energy.max_ceiling", def.Energy.MaxCeiling)
	v.SetDefault("energy.step", def.Energy.Step)
	v.SetDefault("energy.rollover_time", def.Energy.RolloverTime)
	v.SetDefault("display.show_completed", def.Display.ShowCompleted)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage.path", cfg.Storage.Path)
	v.Set("energy.default_ceiling", cfg.Energy.DefaultCeiling)
	v.Set("energy.min_ceiling", cfg.Energy.MinCeiling)
	v.Set("energy.max_ceiling", cfg.Energy.MaxCeiling)
	v.Set("energy.step", cfg.Energy.Step)
	v.Set("energy.rollover_time", cfg.Energy.RolloverTime)
	v.Set("display.show_completed", cfg.Display.ShowCompleted)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// Validate checks the energy bounds and rollover time.
func (c *AppConfig) Validate() error {
	e := c.Energy
	if e.MinCeiling <= 0 {
		return fmt.Errorf("energy.min_ceiling must be positive, got %d", e.MinCeiling)
	}
	if e.MaxCeiling < e.MinCeiling {
		return fmt.Errorf("energy.max_ceiling (%d) is below energy.min_ceiling (%d)", e.MaxCeiling, e.MinCeiling)
	}
	if e.Step <= 0 {
		return fmt.Errorf("energy.step must be positive, got %d", e.Step)
	}
	if e.DefaultCeiling <= 0 {
		return fmt.Errorf("energy.default_ceiling must be positive, got %d", e.DefaultCeiling)
	}
	if _, _, err := ParseClock(e.RolloverTime); err != nil {
		return fmt.Errorf("energy.rollover_time: %w", err)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path must not be empty")
	}
	return nil
}

// DatabasePath returns Storage.Path with a leading ~ expanded.
func (c *AppConfig) DatabasePath() (string, error) {
	if c.Storage.Path == ":memory:" {
		return c.Storage.Path, nil
	}
	p, err := homedir.Expand(c.Storage.Path)
	if err != nil {
		return "", fmt.Errorf("expanding storage path %s: %w", c.Storage.Path, err)
	}
	return p, nil
}

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}
