// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jeranaias/widgetchat/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_ConversationsRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Millisecond)
	list := []*model.Conversation{
		{ID: "c1", Title: "First", Channel: "widget-web", CreatedAt: now, UpdatedAt: now},
		{ID: "c2", Title: "Second", Channel: "widget-web", CreatedAt: now, UpdatedAt: now.Add(time.Minute)},
	}
	if err := c.PutConversations(ctx, list); err != nil {
		t.Fatalf("PutConversations: %v", err)
	}

	got, err := c.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d conversations", len(got))
	}
	// Most recently updated first.
	if got[0].ID != "c2" || got[1].ID != "c1" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Title != "First" {
		t.Errorf("Title = %q", got[1].Title)
	}
}

func TestCache_PutConversationsReplaces(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	now := time.Now()
	c.PutConversations(ctx, []*model.Conversation{{ID: "old", CreatedAt: now, UpdatedAt: now}})
	c.PutConversations(ctx, []*model.Conversation{{ID: "new", CreatedAt: now, UpdatedAt: now}})

	got, err := c.Conversations(ctx)
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("got = %v", got)
	}
}

func TestCache_MessagesRoundTrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	now := time.Now()
	c.PutConversations(ctx, []*model.Conversation{{ID: "c1", CreatedAt: now, UpdatedAt: now}})

	msgs := []*model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "hola", CreatedAt: now},
		{ID: "m2", Role: model.RoleAssistant, Content: "hello", CreatedAt: now.Add(time.Second)},
	}
	if err := c.PutMessages(ctx, "c1", msgs); err != nil {
		t.Fatalf("PutMessages: %v", err)
	}

	got, err := c.Messages(ctx, "c1")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages", len(got))
	}
	if got[0].ID != "m1" || got[1].ID != "m2" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].Role != model.RoleAssistant || got[1].Content != "hello" {
		t.Errorf("message = %+v", got[1])
	}
}

func TestCache_AppendMessage(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	now := time.Now()
	c.PutConversations(ctx, []*model.Conversation{{ID: "c1", CreatedAt: now, UpdatedAt: now}})

	msg := model.NewUserMessage("nuevo")
	msg.ConversationID = "c1"
	if err := c.AppendMessage(ctx, msg); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	got, _ := c.Messages(ctx, "c1")
	if len(got) != 1 || got[0].Content != "nuevo" {
		t.Errorf("got = %v", got)
	}
}

func TestCache_AppendMessageRequiresConversation(t *testing.T) {
	c := openTestCache(t)

	if err := c.AppendMessage(context.Background(), model.NewUserMessage("x")); err == nil {
		t.Error("expected error for message without conversation id")
	}
}

func TestCache_DeleteConversationCascades(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	now := time.Now()
	c.PutConversations(ctx, []*model.Conversation{{ID: "c1", CreatedAt: now, UpdatedAt: now}})
	c.PutMessages(ctx, "c1", []*model.Message{{ID: "m1", Role: model.RoleUser, Content: "x", CreatedAt: now}})

	if err := c.DeleteConversation(ctx, "c1"); err != nil {
		t.Fatalf("DeleteConversation: %v", err)
	}

	msgs, err := c.Messages(ctx, "c1")
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("messages survived cascade: %v", msgs)
	}
}

func TestCache_ClosedReturnsError(t *testing.T) {
	c := openTestCache(t)
	c.Close()

	if _, err := c.Conversations(context.Background()); err != ErrClosed {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}
