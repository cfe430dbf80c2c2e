// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversations is the REST client for conversation CRUD. Streaming
// message delivery lives elsewhere; this package only manages the
// conversation list and history.
package conversations

import (
	"context"
	"net/http"

	"github.com/jeranaias/widgetchat/internal/api"
	"github.com/jeranaias/widgetchat/internal/model"
)

// =============================================================================
// CONVERSATIONS CLIENT
// =============================================================================

// Client wraps the transport for the conversations endpoints.
type Client struct {
	api *api.Client
}

// NewClient creates a conversations client over the shared transport.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// GetAll lists the user's conversations, newest first as the backend
// returns them.
func (c *Client) GetAll(ctx context.Context) ([]*model.Conversation, error) {
	var out []*model.Conversation
	if err := c.api.DoJSON(ctx, http.MethodGet, "/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWithMessages fetches one conversation with its full history, sorted
// oldest-first.
func (c *Client) GetWithMessages(ctx context.Context, id string) (*model.ConversationDetail, error) {
	var out model.ConversationDetail
	if err := c.api.DoJSON(ctx, http.MethodGet, "/conversations/"+id, nil, &out); err != nil {
		return nil, err
	}
	out.SortMessages()
	return &out, nil
}

// createRequest is the create-conversation payload. Channel tags the
// conversation so the backend routes it like other widget traffic.
type createRequest struct {
	Title   string `json:"title"`
	Channel string `json:"channel"`
}

// Create starts a new conversation with the given title.
func (c *Client) Create(ctx context.Context, title string) (*model.Conversation, error) {
	req := createRequest{Title: title, Channel: model.DefaultChannel}

	var out model.Conversation
	if err := c.api.DoJSON(ctx, http.MethodPost, "/conversations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a conversation. The backend answers 204.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.api.DoJSON(ctx, http.MethodDelete, "/conversations/"+id, nil, nil)
}

// =============================================================================
// SELECTION HELPER
// =============================================================================

// NextSelection picks which conversation to show after deleting the
// selected one: the previous entry in list order, else the first remaining,
// else none.
func NextSelection(list []*model.Conversation, deletedID string) string {
	idx := -1
	for i, conv := range list {
		if conv.ID == deletedID {
			idx = i
			break
		}
	}
	if idx < 0 {
		if len(list) > 0 {
			return list[0].ID
		}
		return ""
	}

	remaining := make([]*model.Conversation, 0, len(list)-1)
	remaining = append(remaining, list[:idx]...)
	remaining = append(remaining, list[idx+1:]...)

	if len(remaining) == 0 {
		return ""
	}
	if idx-1 >= 0 {
		return remaining[idx-1].ID
	}
	return remaining[0].ID
}
