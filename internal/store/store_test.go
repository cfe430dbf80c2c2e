// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"testing"

	"github.com/jeranaias/widgetchat/internal/model"
)

func TestStore_MessageOrderPreserved(t *testing.T) {
	s := NewStore("")

	first := model.NewUserMessage("hi")
	second := model.NewAssistantMessage()
	s.AppendMessage(first)
	s.AppendMessage(second)

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0] != first || msgs[1] != second {
		t.Errorf("messages out of order: %v", msgs)
	}
	if s.LastMessage() != second {
		t.Error("LastMessage mismatch")
	}
}

func TestStore_SelectionPersistsAcrossRestarts(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	s.Select("c42")

	reloaded := NewStore(dir)
	if got := reloaded.SelectedID(); got != "c42" {
		t.Errorf("SelectedID = %q after reload", got)
	}
}

func TestStore_SelectionInMemoryWithoutDir(t *testing.T) {
	s := NewStore("")
	s.Select("c1")
	if s.SelectedID() != "c1" {
		t.Error("in-memory selection lost")
	}
}

func TestStore_Flags(t *testing.T) {
	s := NewStore("")

	s.SetStreaming(true)
	if !s.IsStreaming() {
		t.Error("streaming flag not set")
	}
	s.SetStreaming(false)

	s.SetError("connection lost")
	if s.LastError() != "connection lost" {
		t.Errorf("LastError = %q", s.LastError())
	}
	s.SetError("")
	if s.LastError() != "" {
		t.Error("error not cleared")
	}
}

func TestStore_SetConversations(t *testing.T) {
	s := NewStore("")
	s.SetConversations([]*model.Conversation{{ID: "a"}, {ID: "b"}})
	if got := s.Conversations(); len(got) != 2 || got[0].ID != "a" {
		t.Errorf("conversations = %v", got)
	}
}
