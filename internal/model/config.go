package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RemoteConfig holds connection settings for the remote store.
type RemoteConfig struct {
	// BaseURL is the root URL of the store's REST API.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// FeedEnabled controls whether change-feed subscriptions are opened.
	FeedEnabled bool `mapstructure:"feed_enabled" yaml:"feed_enabled"`
}

// CacheConfig holds settings for the local SQLite cache.
type CacheConfig struct {
	// Path is the database file location; empty means the default
	// under the user config directory.
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// DayStartHour and DayEndHour bound the calendar grid rows.
	DayStartHour int `mapstructure:"day_start_hour" yaml:"day_start_hour"`
	DayEndHour   int `mapstructure:"day_end_hour" yaml:"day_end_hour"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Remote  RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/planboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "planboard", "config.yaml")
}

// DefaultCachePath returns the default SQLite cache location.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "planboard.db")
	}
	return filepath.Join(home, ".config", "planboard", "cache.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Remote: RemoteConfig{
			FeedEnabled: true,
		},
		Display: DisplayConfig{
			Theme:        "default",
			DayStartHour: 6,
			DayEndHour:   22,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("remote.feed_enabled", true)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.day_start_hour", 6)
	v.SetDefault("display.day_end_hour", 22)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.DayEndHour <= cfg.Display.DayStartHour {
		cfg.Display.DayStartHour = 6
		cfg.Display.DayEndHour = 22
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

	v.Set("remote", cfg.Remote)
	v.Set("cache", cfg.Cache)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
