package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// HTTP listen address for the control API, e.g. "127.0.0.1:8321".
	Listen string `koanf:"listen"`

	// Path to the sqlite state database. Empty means the XDG data default.
	StatePath string `koanf:"state_path"`

	// Catalog server integration (view reporting)
	Catalog CatalogConfig `koanf:"catalog"`

	// Playback settings
	Playback PlaybackConfig `koanf:"playback"`

	// Desktop notification settings
	Notifications NotificationsConfig `koanf:"notifications"`
}

// CatalogConfig holds the catalog server integration settings.
type CatalogConfig struct {
	URL string `koanf:"url"` // e.g., "https://catalog.example.com"
}

// PlaybackConfig holds playback defaults.
type PlaybackConfig struct {
	Volume *int `koanf:"volume"` // initial volume 0-100 when no saved state exists (default: 80)
}

// NotificationsConfig holds desktop notification settings.
type NotificationsConfig struct {
	Enabled *bool `koanf:"enabled"` // now-playing notifications (default: true)
	Timeout int32 `koanf:"timeout"` // display time in ms (default: 5000)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Listen: "127.0.0.1:8321",
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Listen == "" {
		cfg.Listen = "127.0.0.1:8321"
	}

	// Expand ~ in state_path
	if cfg.StatePath != "" {
		cfg.StatePath = expandPath(cfg.StatePath)
	}

	// Normalize catalog URL (remove trailing slash)
	cfg.Catalog.URL = strings.TrimSuffix(cfg.Catalog.URL, "/")

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/reverb/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reverb", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasCatalogConfig returns true if the catalog server is configured.
func (c *Config) HasCatalogConfig() bool {
	return c.Catalog.URL != ""
}

// NotificationsEnabled returns whether now-playing notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications.Enabled == nil || *c.Notifications.Enabled
}

// NotificationTimeout returns the notification display time in milliseconds.
func (c *Config) NotificationTimeout() int32 {
	if c.Notifications.Timeout <= 0 {
		return 5000
	}
	return c.Notifications.Timeout
}

// InitialVolume returns the configured startup volume with bounds applied.
func (c *Config) InitialVolume() int {
	if c.Playback.Volume == nil {
		return 80
	}
	v := *c.Playback.Volume
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
