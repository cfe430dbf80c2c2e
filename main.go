// widgetchat - an embeddable chat widget for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/widgetchat/internal/api"
	"github.com/jeranaias/widgetchat/internal/auth"
	"github.com/jeranaias/widgetchat/internal/cache"
	"github.com/jeranaias/widgetchat/internal/chat"
	"github.com/jeranaias/widgetchat/internal/config"
	"github.com/jeranaias/widgetchat/internal/conversations"
	"github.com/jeranaias/widgetchat/internal/i18n"
	"github.com/jeranaias/widgetchat/internal/store"
	"github.com/jeranaias/widgetchat/internal/stream"
	"github.com/jeranaias/widgetchat/internal/ui/widget"
	"github.com/jeranaias/widgetchat/internal/uploads"
	"github.com/jeranaias/widgetchat/internal/usage"
)

// Version information (set at build time)
var (
	Version = "0.1.0"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("widgetchat %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "widgetchat: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	stateDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	setupLogging(stateDir)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Server.BaseURL == "" {
		return errors.New("no server configured: set server.base_url in ~/.widgetchat/config.toml or WIDGETCHAT_BASE_URL")
	}

	translator := i18n.New(cfg.UI.Language)

	apiClient := api.NewClient(cfg.Server.BaseURL).WithTenant(cfg.Server.TenantID)
	if cfg.Auth.Mode != "none" {
		token, err := login(apiClient, cfg, translator)
		if err != nil {
			return err
		}
		apiClient.SetToken(token)
	}

	// Hot-reload: config edits while running adjust stream framing on the
	// fly; server and language changes need a restart.
	controller := chat.NewController(apiClient).
		WithFraming(framingFor(cfg)).
		WithFallback(translator.T(i18n.KeyFallbackReply))

	cfgPath, err := config.ConfigPath()
	if err == nil {
		watcher, werr := config.NewWatcher(cfgPath, func(next *config.Config) {
			controller.WithFraming(framingFor(next))
		})
		if werr == nil {
			defer watcher.Close()
		}
	}

	usageStore, err := usage.NewStore(stateDir)
	if err != nil {
		return err
	}
	policy := usage.Policy{
		Window:   cfg.WindowDuration(),
		Cooldown: cfg.CooldownDuration(),
	}

	var convCache *cache.Cache
	if cfg.Cache.Enabled && cfg.Auth.Mode != "none" {
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = filepath.Join(stateDir, "cache")
		}
		if c, cerr := cache.Open(dir); cerr == nil {
			convCache = c
			defer convCache.Close()
		} else {
			log.Printf("[main] cache disabled: %v", cerr)
		}
	}

	deps := widget.Deps{
		Config:        cfg,
		Translator:    translator,
		Store:         store.NewStore(stateDir),
		Controller:    controller,
		Conversations: conversations.NewClient(apiClient),
		Uploads:       uploads.NewClient(apiClient),
		Cache:         convCache,
		Policy:        policy,
		UsageStore:    usageStore,
	}

	program := tea.NewProgram(widget.New(deps), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func framingFor(cfg *config.Config) stream.Framing {
	if cfg.Stream.Framing == "lines" {
		return stream.FramingLines
	}
	return stream.FramingSSE
}

// =============================================================================
// LOGIN PROMPT
// =============================================================================

// login prompts for credentials and exchanges them for a token. The
// password is read without echo.
func login(apiClient *api.Client, cfg *config.Config, tr *i18n.Translator) (string, error) {
	reader := bufio.NewReader(os.Stdin)

	email := cfg.Auth.Email
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		email = strings.TrimSpace(line)
	} else {
		fmt.Printf("Email: %s\n", email)
	}

	fmt.Print("Password: ")
	passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	token, err := auth.NewClient(apiClient).Login(context.Background(), email, strings.TrimSpace(string(passBytes)))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return "", errors.New(tr.T(i18n.KeyInvalidCredentials))
		}
		if api.IsNetworkError(err) {
			return "", errors.New(tr.T(i18n.KeyNetworkError))
		}
		return "", err
	}
	return token, nil
}

// =============================================================================
// LOGGING
// =============================================================================

// setupLogging sends the standard logger to a file so log lines never tear
// the TUI.
func setupLogging(stateDir string) {
	f, err := os.OpenFile(filepath.Join(stateDir, "widgetchat.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
}
