// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Usage.Enabled {
		t.Error("usage limiting should default on")
	}
	if cfg.WindowDuration() != 5*time.Minute {
		t.Errorf("window = %v", cfg.WindowDuration())
	}
	if cfg.CooldownDuration() != 30*time.Minute {
		t.Errorf("cooldown = %v", cfg.CooldownDuration())
	}
	if cfg.Stream.Framing != "sse" {
		t.Errorf("framing = %q", cfg.Stream.Framing)
	}
	if cfg.Auth.Mode != "login" {
		t.Errorf("auth mode = %q", cfg.Auth.Mode)
	}
}

func TestLoadFromPath_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Stream.Framing != "sse" {
		t.Errorf("framing = %q", cfg.Stream.Framing)
	}
}

func TestLoadFromPath_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
base_url = "https://chat.example.com/api"
tenant_id = "acme"

[stream]
framing = "lines"

[usage]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "https://chat.example.com/api" {
		t.Errorf("base_url = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.TenantID != "acme" {
		t.Errorf("tenant_id = %q", cfg.Server.TenantID)
	}
	if cfg.Stream.Framing != "lines" {
		t.Errorf("framing = %q", cfg.Stream.Framing)
	}
	if cfg.Usage.Enabled {
		t.Error("usage should be disabled")
	}
}

func TestLoadFromPath_EnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[server]\nbase_url = \"https://file.example.com\"\n"), 0644)

	t.Setenv("WIDGETCHAT_BASE_URL", "https://env.example.com")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.BaseURL != "https://env.example.com" {
		t.Errorf("base_url = %q, env should win", cfg.Server.BaseURL)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.Server.BaseURL = "ftp://x" }},
		{"bad auth mode", func(c *Config) { c.Auth.Mode = "oauth" }},
		{"bad framing", func(c *Config) { c.Stream.Framing = "chunked" }},
		{"negative window", func(c *Config) { c.Usage.WindowSecs = -1 }},
		{"bad language", func(c *Config) { c.UI.Language = "fr" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "https://chat.example.com"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Server.BaseURL != "https://chat.example.com" {
		t.Errorf("base_url = %q", loaded.Server.BaseURL)
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte("[stream]\nframing = \"sse\"\n"), 0644)

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	os.WriteFile(path, []byte("[stream]\nframing = \"lines\"\n"), 0644)

	select {
	case cfg := <-reloaded:
		if cfg.Stream.Framing != "lines" {
			t.Errorf("framing = %q", cfg.Stream.Framing)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload never fired")
	}
}
