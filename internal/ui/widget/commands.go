// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/widgetchat/internal/chat"
	"github.com/jeranaias/widgetchat/internal/conversations"
	"github.com/jeranaias/widgetchat/internal/uploads"
	"github.com/jeranaias/widgetchat/internal/usage"
)

// usageTickInterval refreshes the displayed cooldown countdown.
const usageTickInterval = 30 * time.Second

// =============================================================================
// DATA COMMANDS
// =============================================================================

// loadConversationsCmd fetches the conversation list, falling back to the
// local cache when the backend is unreachable.
func (m Model) loadConversationsCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		list, err := deps.Conversations.GetAll(ctx)
		if err == nil {
			if deps.Cache != nil {
				_ = deps.Cache.PutConversations(ctx, list)
			}
			return conversationsLoadedMsg{List: list}
		}

		if deps.Cache != nil {
			if cached, cerr := deps.Cache.Conversations(ctx); cerr == nil && len(cached) > 0 {
				return conversationsLoadedMsg{List: cached, FromCache: true}
			}
		}
		return errMsg{Err: err}
	}
}

// loadHistoryCmd fetches one conversation's messages, cache-backed the same
// way.
func (m Model) loadHistoryCmd(conversationID string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		detail, err := deps.Conversations.GetWithMessages(ctx, conversationID)
		if err == nil {
			if deps.Cache != nil {
				_ = deps.Cache.PutMessages(ctx, conversationID, detail.Messages)
			}
			return historyLoadedMsg{ConversationID: conversationID, Messages: detail.Messages}
		}

		if deps.Cache != nil {
			if cached, cerr := deps.Cache.Messages(ctx, conversationID); cerr == nil && len(cached) > 0 {
				return historyLoadedMsg{ConversationID: conversationID, Messages: cached, FromCache: true}
			}
		}
		return errMsg{Err: err}
	}
}

// deleteConversationCmd removes a conversation and picks the next
// selection.
func (m Model) deleteConversationCmd(id string) tea.Cmd {
	deps := m.deps
	list := m.deps.Store.Conversations()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := deps.Conversations.Delete(ctx, id); err != nil {
			return errMsg{Err: err}
		}
		if deps.Cache != nil {
			_ = deps.Cache.DeleteConversation(ctx, id)
		}
		return conversationDeletedMsg{
			DeletedID: id,
			NextID:    conversations.NextSelection(list, id),
		}
	}
}

// =============================================================================
// SEND COMMAND
// =============================================================================

// sendCmd runs one send operation. Deltas land in the flush buffer; the
// frame tick drains them into the view.
func (m Model) sendCmd(req chat.SendRequest) tea.Cmd {
	deps := m.deps
	buf := m.flushBuf
	return func() tea.Msg {
		final, err := deps.Controller.Send(context.Background(), req, func(text, _ string) {
			buf.Write(text)
		})
		if err != nil {
			return streamErrMsg{Final: final, Err: err}
		}
		if deps.Cache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = deps.Cache.AppendMessage(ctx, final)
		}
		return streamDoneMsg{Final: final}
	}
}

// =============================================================================
// ATTACH COMMAND
// =============================================================================

// attachCmd reads a local file, validates it, and uploads it ahead of the
// next send.
func (m Model) attachCmd(path string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return attachDoneMsg{Err: err}
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		// "text/plain; charset=utf-8" -> "text/plain"
		if i := strings.IndexByte(mimeType, ';'); i >= 0 {
			mimeType = strings.TrimSpace(mimeType[:i])
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		att, err := deps.Uploads.Upload(ctx, &uploads.File{
			Name:     filepath.Base(path),
			MimeType: mimeType,
			Data:     data,
		})
		if err != nil {
			return attachDoneMsg{Err: err}
		}
		return attachDoneMsg{Attachment: att}
	}
}

// =============================================================================
// USAGE COMMANDS
// =============================================================================

// usageTickCmd recomputes the countdown view on a timer. Display only;
// allowance is evaluated at send time.
func (m Model) usageTickCmd() tea.Cmd {
	deps := m.deps
	return tea.Tick(usageTickInterval, func(time.Time) tea.Msg {
		state, err := deps.UsageStore.Load()
		if err != nil {
			state = usage.State{}
		}
		return usageTickMsg{View: deps.Policy.ComputeView(time.Now(), state)}
	})
}

// checkUsage evaluates allowance for one send attempt and persists the
// advanced state.
func (m *Model) checkUsage() error {
	if !m.deps.Config.Usage.Enabled {
		return nil
	}

	state, err := m.deps.UsageStore.Load()
	if err != nil {
		state = usage.State{}
	}
	ev := m.deps.Policy.Evaluate(time.Now(), state)
	if serr := m.deps.UsageStore.Save(ev.Next); serr != nil {
		m.status = serr.Error()
	}
	m.usageView = m.deps.Policy.ComputeView(time.Now(), ev.Next)

	if !ev.Allowed {
		return &usage.ExceededError{Remaining: ev.Remaining}
	}
	return nil
}
