// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth exchanges credentials for a bearer token. Credential storage
// is the caller's concern; this package only talks to the login endpoint.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/jeranaias/widgetchat/internal/api"
)

// =============================================================================
// AUTH MODES
// =============================================================================

// Mode selects how the widget authenticates.
type Mode string

const (
	// ModeLogin requires an email/password exchange before chatting.
	ModeLogin Mode = "login"

	// ModeNone chats anonymously. No token is attached and conversation
	// history does not persist across sessions.
	ModeNone Mode = "none"
)

// ErrInvalidCredentials is returned for a rejected login so the UI can show
// a specific message instead of a raw HTTP error.
var ErrInvalidCredentials = errors.New("invalid email or password")

// =============================================================================
// AUTH CLIENT
// =============================================================================

// Client wraps the transport for the auth endpoints.
type Client struct {
	api *api.Client
}

// NewClient creates an auth client over the shared transport.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for an access token. A 401 maps to
// ErrInvalidCredentials; other failures pass through the transport
// taxonomy.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req := loginRequest{Email: email, Password: password}

	var out loginResponse
	if err := c.api.DoJSON(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		if api.HTTPStatus(err) == http.StatusUnauthorized {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	return out.AccessToken, nil
}
