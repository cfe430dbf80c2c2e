// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/widgetchat/internal/api"
	"github.com/jeranaias/widgetchat/internal/chat"
	"github.com/jeranaias/widgetchat/internal/i18n"
	"github.com/jeranaias/widgetchat/internal/model"
	"github.com/jeranaias/widgetchat/internal/uploads"
	"github.com/jeranaias/widgetchat/internal/usage"
)

// Update is the Bubble Tea update loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true

	case tea.KeyMsg:
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}

	case flushTickMsg:
		if chunk, ok := m.flushBuf.Flush(); ok {
			m.streamText += chunk
			m.refreshViewport()
		}
		if m.deps.Store.IsStreaming() {
			cmds = append(cmds, flushTickCmd())
		}

	case streamDoneMsg:
		m.finishStream(msg.Final, nil)
		cmds = append(cmds, m.loadConversationsCmd())

	case streamErrMsg:
		m.finishStream(msg.Final, msg.Err)

	case conversationsLoadedMsg:
		m.deps.Store.SetConversations(msg.List)
		if id := m.deps.Store.SelectedID(); id != "" && len(m.deps.Store.Messages()) == 0 {
			cmds = append(cmds, m.loadHistoryCmd(id))
		}

	case historyLoadedMsg:
		if msg.ConversationID == m.deps.Store.SelectedID() {
			m.deps.Store.SetMessages(msg.Messages)
			m.refreshViewport()
		}

	case conversationDeletedMsg:
		m.deps.Store.Select(msg.NextID)
		m.deps.Store.SetMessages(nil)
		m.refreshViewport()
		cmds = append(cmds, m.loadConversationsCmd())
		if msg.NextID != "" {
			cmds = append(cmds, m.loadHistoryCmd(msg.NextID))
		}

	case attachDoneMsg:
		if msg.Err != nil {
			m.status = m.humanize(msg.Err)
		} else {
			m.pending = append(m.pending, *msg.Attachment)
			m.status = fmt.Sprintf(m.deps.Translator.T(i18n.KeyAttachedFiles), len(m.pending))
		}

	case usageTickMsg:
		m.usageView = msg.View
		cmds = append(cmds, m.usageTickCmd())

	case errMsg:
		m.status = m.humanize(msg.Err)

	case spinner.TickMsg:
		if m.deps.Store.IsStreaming() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.showList {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true

	case "ctrl+l":
		m.showList = !m.showList
		m.listIndex = 0
		return m, nil, true

	case "ctrl+n":
		// New conversation: next send creates it.
		m.deps.Store.Select("")
		m.deps.Store.SetMessages(nil)
		m.showList = false
		m.refreshViewport()
		return m, nil, true

	case "ctrl+o":
		// Attach a file: the input collects a path until enter.
		if m.showList || m.attaching || m.deps.Store.IsStreaming() {
			return m, nil, true
		}
		if len(m.pending) >= uploads.MaxFiles {
			m.status = fmt.Sprintf(m.deps.Translator.T(i18n.KeyAttachLimit), uploads.MaxFiles)
			return m, nil, true
		}
		m.attaching = true
		m.draft = m.input.Value()
		m.input.Reset()
		m.input.Placeholder = m.deps.Translator.T(i18n.KeyAttachPrompt)
		return m, nil, true

	case "ctrl+d":
		if id := m.selectedListID(); m.showList && id != "" {
			return m, m.deleteConversationCmd(id), true
		}
		return m, nil, false

	case "up", "down":
		if m.showList {
			list := m.deps.Store.Conversations()
			if msg.String() == "up" && m.listIndex > 0 {
				m.listIndex--
			}
			if msg.String() == "down" && m.listIndex < len(list)-1 {
				m.listIndex++
			}
			return m, nil, true
		}
		return m, nil, false

	case "enter":
		if m.attaching {
			path := strings.TrimSpace(m.input.Value())
			m.exitAttachMode()
			if path == "" {
				return m, nil, true
			}
			return m, m.attachCmd(path), true
		}
		if m.showList {
			if id := m.selectedListID(); id != "" {
				m.deps.Store.Select(id)
				m.deps.Store.SetMessages(nil)
				m.showList = false
				return m, m.loadHistoryCmd(id), true
			}
			return m, nil, true
		}
		return m.submit()

	case "esc":
		if m.attaching {
			m.exitAttachMode()
			return m, nil, true
		}
		if m.showList {
			m.showList = false
			return m, nil, true
		}
		return m, nil, false
	}
	return m, nil, false
}

// submit starts a send for the typed message.
func (m Model) submit() (tea.Model, tea.Cmd, bool) {
	if m.deps.Store.IsStreaming() {
		// Input is disabled while a send is in flight.
		return m, nil, true
	}

	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil, true
	}

	if err := m.checkUsage(); err != nil {
		var ex *usage.ExceededError
		if errors.As(err, &ex) {
			m.status = m.deps.Translator.CooldownNotice(usage.CooldownMinutes(ex.Remaining))
		} else {
			m.status = err.Error()
		}
		return m, nil, true
	}

	userMsg := model.NewUserMessage(content)
	userMsg.ConversationID = m.deps.Store.SelectedID()
	userMsg.Attachments = m.pending
	m.deps.Store.AppendMessage(userMsg)
	m.deps.Store.SetStreaming(true)
	m.deps.Store.SetError("")
	m.status = ""
	m.streamText = ""
	m.flushBuf.Reset()
	m.input.Reset()
	m.refreshViewport()

	req := chat.SendRequest{
		ConversationID: m.deps.Store.SelectedID(),
		Content:        content,
		Attachments:    m.pending,
	}
	m.pending = nil
	return m, tea.Batch(m.sendCmd(req), flushTickCmd(), m.spinner.Tick), true
}

// exitAttachMode restores the message being composed when attach mode
// started.
func (m *Model) exitAttachMode() {
	m.attaching = false
	m.input.Reset()
	m.input.SetValue(m.draft)
	m.draft = ""
	m.input.Placeholder = m.deps.Translator.T(i18n.KeyInputPlaceholder)
}

// finishStream lands the terminal assistant message in the store. The
// final message is valid even on error (partial or fallback text).
func (m *Model) finishStream(final *model.Message, err error) {
	if chunk, ok := m.flushBuf.ForceFlush(); ok {
		m.streamText += chunk
	}
	m.streamText = ""
	m.deps.Store.SetStreaming(false)

	if final != nil {
		m.deps.Store.AppendMessage(final)
		if m.deps.Store.SelectedID() == "" && final.ConversationID != "" {
			m.deps.Store.Select(final.ConversationID)
		}
	}

	if err != nil {
		m.status = m.humanize(err)
		m.deps.Store.SetError(m.status)
	}
	m.refreshViewport()
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) selectedListID() string {
	list := m.deps.Store.Conversations()
	if m.listIndex < 0 || m.listIndex >= len(list) {
		return ""
	}
	return list[m.listIndex].ID
}

// layout recomputes component sizes after a resize.
func (m *Model) layout() {
	inputHeight := 5
	statusHeight := 2
	vpHeight := m.height - inputHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.width, vpHeight)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.SetWidth(m.width - 2)
	m.newRenderer()
	m.refreshViewport()
}

// humanize maps transport errors to localized status text.
func (m *Model) humanize(err error) string {
	if err == nil {
		return ""
	}
	if api.IsNetworkError(err) {
		return m.deps.Translator.T(i18n.KeyNetworkError)
	}
	return err.Error()
}
