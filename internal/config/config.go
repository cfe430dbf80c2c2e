// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for widgetchat.
//
// TOML configuration with sensible defaults, environment variable
// overrides, and validation. File location: ~/.widgetchat/config.toml.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/widgetchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete widgetchat configuration.
type Config struct {
	// Server connection
	Server ServerConfig `toml:"server"`

	// Authentication
	Auth AuthConfig `toml:"auth"`

	// Usage limiting
	Usage UsageConfig `toml:"usage"`

	// Streaming
	Stream StreamConfig `toml:"stream"`

	// Local cache
	Cache CacheConfig `toml:"cache"`

	// UI settings
	UI UIConfig `toml:"ui"`
}

// ServerConfig identifies the chat backend.
type ServerConfig struct {
	// BaseURL is the backend root, e.g. https://chat.example.com/api
	BaseURL string `toml:"base_url"`
	// TenantID scopes requests in multi-tenant deployments (optional).
	TenantID string `toml:"tenant_id"`
}

// AuthConfig controls how the widget authenticates.
type AuthConfig struct {
	// Mode is "login" or "none".
	Mode string `toml:"mode"`
	// Email prefills the login prompt (optional).
	Email string `toml:"email"`
}

// UsageConfig controls the send-rate window and cooldown.
type UsageConfig struct {
	// Enabled turns usage limiting on.
	Enabled bool `toml:"enabled"`
	// WindowSecs is how long sending stays open once a window starts.
	WindowSecs int `toml:"window_secs"`
	// CooldownSecs is how long sending blocks after a window lapses.
	CooldownSecs int `toml:"cooldown_secs"`
}

// StreamConfig selects the response framing.
type StreamConfig struct {
	// Framing is "sse" or "lines".
	Framing string `toml:"framing"`
}

// CacheConfig controls the local conversation cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Dir overrides the cache location (empty = state dir).
	Dir string `toml:"dir"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Language is "es" or "en"; empty follows the environment locale.
	Language string `toml:"language"`
	// Theme is the glamour style name for markdown rendering.
	Theme string `toml:"theme"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Auth: AuthConfig{Mode: "login"},
		Usage: UsageConfig{
			Enabled:      true,
			WindowSecs:   int((5 * time.Minute).Seconds()),
			CooldownSecs: int((30 * time.Minute).Seconds()),
		},
		Stream: StreamConfig{Framing: "sse"},
		Cache:  CacheConfig{Enabled: true},
		UI:     UIConfig{Theme: "dark"},
	}
}

// WindowDuration returns the usage window as a duration.
func (c *Config) WindowDuration() time.Duration {
	return time.Duration(c.Usage.WindowSecs) * time.Second
}

// CooldownDuration returns the usage cooldown as a duration.
func (c *Config) CooldownDuration() time.Duration {
	return time.Duration(c.Usage.CooldownSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the widgetchat state directory (~/.widgetchat).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".widgetchat"), nil
}

// ConfigPath returns the TOML config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the state directory if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config file, applies env overrides, and validates.
// A missing file yields defaults, not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as TOML, atomically.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return err
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0644)
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

// ApplyEnvOverrides lets the environment win over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("WIDGETCHAT_BASE_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("WIDGETCHAT_TENANT"); v != "" {
		c.Server.TenantID = v
	}
	if v := os.Getenv("WIDGETCHAT_AUTH_MODE"); v != "" {
		c.Auth.Mode = v
	}
	if v := os.Getenv("WIDGETCHAT_LANG"); v != "" {
		c.UI.Language = v
	}
	if v := os.Getenv("WIDGETCHAT_FRAMING"); v != "" {
		c.Stream.Framing = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, ValidationError{"server.base_url", "must be an http(s) URL"})
		}
	}

	switch c.Auth.Mode {
	case "", "login", "none":
	default:
		errs = append(errs, ValidationError{"auth.mode", `must be "login" or "none"`})
	}

	switch c.Stream.Framing {
	case "", "sse", "lines":
	default:
		errs = append(errs, ValidationError{"stream.framing", `must be "sse" or "lines"`})
	}

	if c.Usage.WindowSecs < 0 {
		errs = append(errs, ValidationError{"usage.window_secs", "must not be negative"})
	}
	if c.Usage.CooldownSecs < 0 {
		errs = append(errs, ValidationError{"usage.cooldown_secs", "must not be negative"})
	}

	switch c.UI.Language {
	case "", "es", "en":
	default:
		errs = append(errs, ValidationError{"ui.language", `must be "es" or "en"`})
	}

	return errors.Join(errs...)
}
