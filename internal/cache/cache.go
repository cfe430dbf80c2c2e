// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache keeps a local copy of conversations and messages so the
// panel renders instantly and history survives offline starts. The backend
// stays authoritative; the cache is refreshed after every successful fetch
// and never written back to the server.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/widgetchat/internal/model"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("cache is closed")

const dbFile = "cache.db"

// =============================================================================
// CONVERSATION CACHE
// =============================================================================

// Cache is a sqlite-backed local mirror of conversation data.
type Cache struct {
	db     *sql.DB
	closed bool
}

// Open creates or opens the cache under dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id         TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		channel    TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS messages (
		id              TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
		role            TEXT NOT NULL,
		content         TEXT NOT NULL,
		created_at      INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation
		ON messages(conversation_id, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Close releases the database handle.
func (c *Cache) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// =============================================================================
// WRITES
// =============================================================================

// PutConversations replaces the cached conversation list.
func (c *Cache) PutConversations(ctx context.Context, list []*model.Conversation) error {
	if c.closed {
		return ErrClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM conversations"); err != nil {
		return err
	}
	for _, conv := range list {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO conversations (id, title, channel, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			conv.ID, conv.Title, conv.Channel, conv.CreatedAt.UnixMilli(), conv.UpdatedAt.UnixMilli())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// PutMessages replaces the cached history for one conversation.
func (c *Cache) PutMessages(ctx context.Context, conversationID string, msgs []*model.Message) error {
	if c.closed {
		return ErrClosed
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE conversation_id = ?", conversationID); err != nil {
		return err
	}
	for _, msg := range msgs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
			msg.ID, conversationID, msg.Role.String(), msg.Content, msg.CreatedAt.UnixMilli())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AppendMessage adds one finalized message to a cached conversation.
func (c *Cache) AppendMessage(ctx context.Context, msg *model.Message) error {
	if c.closed {
		return ErrClosed
	}
	if msg.ConversationID == "" {
		return errors.New("message has no conversation id")
	}

	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
		msg.ID, msg.ConversationID, msg.Role.String(), msg.Content, msg.CreatedAt.UnixMilli())
	return err
}

// DeleteConversation removes a conversation and its messages.
func (c *Cache) DeleteConversation(ctx context.Context, id string) error {
	if c.closed {
		return ErrClosed
	}
	_, err := c.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	return err
}

// =============================================================================
// READS
// =============================================================================

// Conversations returns the cached list, most recently updated first.
func (c *Cache) Conversations(ctx context.Context) ([]*model.Conversation, error) {
	if c.closed {
		return nil, ErrClosed
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, title, channel, created_at, updated_at FROM conversations ORDER BY updated_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Conversation
	for rows.Next() {
		var conv model.Conversation
		var createdMS, updatedMS int64
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.Channel, &createdMS, &updatedMS); err != nil {
			return nil, err
		}
		conv.CreatedAt = time.UnixMilli(createdMS)
		conv.UpdatedAt = time.UnixMilli(updatedMS)
		out = append(out, &conv)
	}
	return out, rows.Err()
}

// Messages returns the cached history for one conversation, oldest first.
func (c *Cache) Messages(ctx context.Context, conversationID string) ([]*model.Message, error) {
	if c.closed {
		return nil, ErrClosed
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at ASC",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Message
	for rows.Next() {
		var msg model.Message
		var role string
		var createdMS int64
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &createdMS); err != nil {
			return nil, err
		}
		msg.Role = model.Role(role)
		msg.ConversationID = conversationID
		msg.CreatedAt = time.UnixMilli(createdMS)
		out = append(out, &msg)
	}
	return out, rows.Err()
}
