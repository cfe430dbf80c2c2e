// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"time"

	"github.com/jeranaias/widgetchat/internal/model"
	"github.com/jeranaias/widgetchat/internal/usage"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// flushTickMsg drains the flush buffer at the frame cap.
type flushTickMsg struct {
	Time time.Time
}

// streamDoneMsg signals the send finished; Final is the terminal assistant
// message already holding the full text.
type streamDoneMsg struct {
	Final *model.Message
}

// streamErrMsg signals the send failed. Final still holds the partial or
// fallback reply for display.
type streamErrMsg struct {
	Final *model.Message
	Err   error
}

// =============================================================================
// DATA MESSAGES
// =============================================================================

// conversationsLoadedMsg delivers the refreshed conversation list.
type conversationsLoadedMsg struct {
	List      []*model.Conversation
	FromCache bool
}

// historyLoadedMsg delivers one conversation's message history.
type historyLoadedMsg struct {
	ConversationID string
	Messages       []*model.Message
	FromCache      bool
}

// conversationDeletedMsg confirms a delete and names the next selection.
type conversationDeletedMsg struct {
	DeletedID string
	NextID    string
}

// attachDoneMsg reports one finished upload. On success the attachment is
// staged for the next send.
type attachDoneMsg struct {
	Attachment *model.Attachment
	Err        error
}

// =============================================================================
// USAGE MESSAGES
// =============================================================================

// usageTickMsg refreshes the displayed countdown. Display only: the tick
// never changes allowance.
type usageTickMsg struct {
	View usage.View
}

// =============================================================================
// ERRORS
// =============================================================================

// errMsg carries a user-facing error string for the status line.
type errMsg struct {
	Err error
}
