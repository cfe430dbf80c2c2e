// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"time"
)

// DefaultChannel identifies conversations created by this widget to the
// backend's routing layer.
const DefaultChannel = "widget-web"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds conversation metadata as returned by the backend.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Channel   string    `json:"channel,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// ConversationDetail is a conversation together with its message history.
type ConversationDetail struct {
	Conversation
	Messages []*Message `json:"messages"`
}

// SortMessages orders the history oldest-first by creation time. Backends do
// not guarantee ordering, so callers sort after loading.
func (d *ConversationDetail) SortMessages() {
	sort.SliceStable(d.Messages, func(i, j int) bool {
		return d.Messages[i].CreatedAt.Before(d.Messages[j].CreatedAt)
	})
}

// LastMessage returns the most recent message, or nil if empty.
func (d *ConversationDetail) LastMessage() *Message {
	if len(d.Messages) == 0 {
		return nil
	}
	return d.Messages[len(d.Messages)-1]
}

// =============================================================================
// IN-FLIGHT MESSAGE
// =============================================================================

// InFlightMessage is the mutable accumulator for one assistant reply under
// construction during a send operation. It is owned exclusively by the chat
// controller for the duration of the operation.
type InFlightMessage struct {
	// ConversationID is empty until resolved; once a streamed event carries a
	// different id the newer one supersedes it (last-seen-wins).
	ConversationID string

	// Message is the streaming assistant placeholder accumulating deltas.
	Message *Message
}

// NewInFlightMessage creates an accumulator bound to the given conversation
// id, which may be empty for a not-yet-created conversation.
func NewInFlightMessage(conversationID string) *InFlightMessage {
	msg := NewAssistantMessage()
	msg.ConversationID = conversationID
	return &InFlightMessage{
		ConversationID: conversationID,
		Message:        msg,
	}
}

// Append adds delta text to the accumulated reply.
func (f *InFlightMessage) Append(delta string) {
	f.Message.AppendDelta(delta)
}

// ResolveConversation records a conversation id observed during the
// operation. Last seen wins.
func (f *InFlightMessage) ResolveConversation(id string) {
	if id == "" {
		return
	}
	f.ConversationID = id
	f.Message.ConversationID = id
}

// Finalize completes the reply and returns the terminal message.
func (f *InFlightMessage) Finalize() *Message {
	f.Message.FinalizeStream()
	return f.Message
}

// Fail completes the reply after an error, preserving partial text or
// substituting fallback when nothing was received.
func (f *InFlightMessage) Fail(fallback string) *Message {
	f.Message.FailStream(fallback)
	return f.Message
}
