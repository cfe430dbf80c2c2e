// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/widgetchat/internal/cache"
	"github.com/jeranaias/widgetchat/internal/chat"
	"github.com/jeranaias/widgetchat/internal/config"
	"github.com/jeranaias/widgetchat/internal/conversations"
	"github.com/jeranaias/widgetchat/internal/i18n"
	"github.com/jeranaias/widgetchat/internal/model"
	"github.com/jeranaias/widgetchat/internal/store"
	"github.com/jeranaias/widgetchat/internal/uploads"
	"github.com/jeranaias/widgetchat/internal/usage"
)

// =============================================================================
// WIDGET MODEL
// =============================================================================

// Deps are the collaborators the widget renders over. Cache may be nil
// (caching disabled).
type Deps struct {
	Config        *config.Config
	Translator    *i18n.Translator
	Store         *store.Store
	Controller    *chat.Controller
	Conversations *conversations.Client
	Uploads       *uploads.Client
	Cache         *cache.Cache
	Policy        usage.Policy
	UsageStore    *usage.Store
}

// Model is the Bubble Tea model for the widget.
type Model struct {
	deps  Deps
	theme *Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// Streaming
	flushBuf   *FlushBuffer
	streamText string // accumulated text of the reply in flight

	// Conversation list overlay
	showList  bool
	listIndex int

	// Attachments staged for the next send. While attaching, the input
	// collects a file path and draft holds the message being composed.
	attaching bool
	draft     string
	pending   []model.Attachment

	// Usage countdown
	usageView usage.View

	// Status line
	status string
}

// New creates the widget model.
func New(deps Deps) Model {
	theme := DefaultTheme()
	if deps.Config.UI.Theme != "" {
		theme.GlamourStyle = deps.Config.UI.Theme
	}

	input := textarea.New()
	input.Placeholder = deps.Translator.T(i18n.KeyInputPlaceholder)
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		deps:     deps,
		theme:    theme,
		input:    input,
		spinner:  sp,
		flushBuf: NewFlushBuffer(),
	}
}

// Init starts the background ticks and the first data load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.loadConversationsCmd(),
		m.usageTickCmd(),
	)
}

// newRenderer builds the markdown renderer for the current width.
func (m *Model) newRenderer() {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle),
		glamour.WithWordWrap(m.viewport.Width-2),
	)
	if err == nil {
		m.renderer = r
	}
}
