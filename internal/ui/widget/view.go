// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/widgetchat/internal/i18n"
	"github.com/jeranaias/widgetchat/internal/usage"
	"github.com/jeranaias/widgetchat/internal/util"
)

// View renders the widget.
func (m Model) View() string {
	if !m.ready {
		return ""
	}

	if m.showList {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderList(),
			m.renderStatus(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.theme.InputBorder.Width(m.width-2).Render(m.input.View()),
		m.renderStatus(),
	)
}

// =============================================================================
// MESSAGE RENDERING
// =============================================================================

// refreshViewport rebuilds the viewport content from the store plus the
// reply in flight, and follows the bottom.
func (m *Model) refreshViewport() {
	if m.viewport.Width == 0 {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessages() string {
	msgs := m.deps.Store.Messages()
	if len(msgs) == 0 && m.streamText == "" {
		return m.theme.SystemLabel.Render(m.deps.Translator.T(i18n.KeyEmptyConversation))
	}

	var sb strings.Builder
	for _, msg := range msgs {
		label := m.theme.BotLabel
		if msg.Role.String() == "user" {
			label = m.theme.UserLabel
		}
		sb.WriteString(label.Render(msg.Role.DisplayName()))
		sb.WriteString("\n")
		sb.WriteString(m.renderMarkdown(msg.GetDisplayContent()))
		sb.WriteString("\n")
	}

	if m.deps.Store.IsStreaming() {
		sb.WriteString(m.theme.BotLabel.Render("Assistant"))
		sb.WriteString(" ")
		sb.WriteString(m.spinner.View())
		sb.WriteString("\n")
		// Streaming text renders raw; markdown needs the complete document.
		sb.WriteString(m.streamText)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// =============================================================================
// CONVERSATION LIST
// =============================================================================

func (m *Model) renderList() string {
	list := m.deps.Store.Conversations()

	var sb strings.Builder
	sb.WriteString(m.theme.Title.Render("Conversations"))
	sb.WriteString("\n\n")

	if len(list) == 0 {
		sb.WriteString(m.theme.SystemLabel.Render(m.deps.Translator.T(i18n.KeyNewConversation)))
		sb.WriteString("\n")
	}

	for i, conv := range list {
		title := util.TruncateWidth(conv.GetTitle(), m.width-6)
		if i == m.listIndex {
			sb.WriteString(m.theme.ListSelected.Render("> " + title))
		} else {
			sb.WriteString(m.theme.ListItem.Render(title))
		}
		sb.WriteString("\n")
	}

	// Pad to full height so the status line stays put.
	lines := strings.Count(sb.String(), "\n")
	for lines < m.height-2 {
		sb.WriteString("\n")
		lines++
	}
	return sb.String()
}

// =============================================================================
// STATUS LINE
// =============================================================================

func (m *Model) renderStatus() string {
	left := m.theme.StatusBar.Render("enter send · ctrl+o attach · ctrl+l conversations · ctrl+n new · ctrl+c quit")
	if n := len(m.pending); n > 0 {
		left += "  " + m.theme.UsageBadge.Render(
			fmt.Sprintf(m.deps.Translator.T(i18n.KeyAttachedFiles), n))
	}

	var right string
	switch {
	case m.status != "":
		right = m.theme.ErrorText.Render(m.status)
	case m.usageView.InCooldown:
		right = m.theme.CooldownBadge.Render(
			m.deps.Translator.CooldownNotice(usage.CooldownMinutes(m.usageView.Remaining)))
	case m.usageView.InWindow:
		right = m.theme.UsageBadge.Render(fmt.Sprintf("window %s", formatShort(m.usageView.Remaining)))
	case m.deps.Store.IsStreaming():
		right = m.theme.StatusBar.Render(m.deps.Translator.T(i18n.KeySending))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func formatShort(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
