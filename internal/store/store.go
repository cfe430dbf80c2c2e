// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the widget's presentation state: the ordered message
// list, the conversation list, the selection, and the streaming/error
// flags. It is the boundary between the send pipeline and the UI; it owns
// no protocol logic.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/widgetchat/internal/model"
	"github.com/jeranaias/widgetchat/internal/util"
)

// selectionFile persists which conversation is open across restarts.
const selectionFile = "selection.json"

// =============================================================================
// STORE
// =============================================================================

// Store is safe for concurrent use; the UI reads while the send pipeline
// writes.
type Store struct {
	mu sync.RWMutex

	messages      []*model.Message
	conversations []*model.Conversation
	selectedID    string
	streaming     bool
	lastError     string

	path string
}

type persistedSelection struct {
	SelectedConversationID string `json:"selectedConversationId"`
}

// NewStore creates a store whose selection persists under dir. Empty dir
// keeps the selection in memory only.
func NewStore(dir string) *Store {
	s := &Store{}
	if dir == "" {
		return s
	}
	s.path = filepath.Join(dir, selectionFile)

	data, err := os.ReadFile(s.path)
	if err != nil {
		return s
	}
	var sel persistedSelection
	if json.Unmarshal(data, &sel) == nil {
		s.selectedID = sel.SelectedConversationID
	}
	return s
}

// =============================================================================
// MESSAGES
// =============================================================================

// Messages returns the ordered message list.
func (s *Store) Messages() []*model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// AppendMessage adds a message to the end of the list.
func (s *Store) AppendMessage(msg *model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// SetMessages replaces the list, e.g. after loading a conversation's
// history.
func (s *Store) SetMessages(msgs []*model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = msgs
}

// LastMessage returns the newest message, or nil.
func (s *Store) LastMessage() *model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return nil
	}
	return s.messages[len(s.messages)-1]
}

// =============================================================================
// CONVERSATIONS AND SELECTION
// =============================================================================

// Conversations returns the conversation list.
func (s *Store) Conversations() []*model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// SetConversations replaces the conversation list.
func (s *Store) SetConversations(list []*model.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = list
}

// SelectedID returns the open conversation id, empty when none.
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// Select switches the open conversation and persists the choice.
func (s *Store) Select(id string) {
	s.mu.Lock()
	s.selectedID = id
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return
	}
	data, err := json.MarshalIndent(persistedSelection{SelectedConversationID: id}, "", "  ")
	if err != nil {
		return
	}
	// Selection loss on write failure is cosmetic; not propagated.
	_ = util.AtomicWriteFile(path, data, 0644)
}

// =============================================================================
// FLAGS
// =============================================================================

// SetStreaming flips the in-flight flag; the UI disables input while true.
func (s *Store) SetStreaming(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaming = v
}

// IsStreaming reports whether a send is in flight.
func (s *Store) IsStreaming() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.streaming
}

// SetError records the latest user-facing error string, empty to clear.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// LastError returns the current error string.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
