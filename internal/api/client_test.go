// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// =============================================================================
// JSON PATH TESTS
// =============================================================================

func TestDoJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want Bearer tok123", got)
		}
		if got := r.Header.Get("X-Tenant-Id"); got != "acme" {
			t.Errorf("X-Tenant-Id = %q, want acme", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","title":"Test"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL).WithToken("tok123").WithTenant("acme")

	var out struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	err := client.DoJSON(context.Background(), http.MethodPost, "/conversations", map[string]string{"title": "Test"}, &out)
	if err != nil {
		t.Fatalf("DoJSON failed: %v", err)
	}
	if out.ID != "c1" || out.Title != "Test" {
		t.Errorf("out = %+v", out)
	}
}

func TestDoJSON_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var out map[string]any
	err := client.DoJSON(context.Background(), http.MethodDelete, "/conversations/c1", nil, &out)
	if err != nil {
		t.Fatalf("DoJSON failed: %v", err)
	}
	if out != nil {
		t.Errorf("out = %v, want untouched nil", out)
	}
}

func TestDoJSON_HTTPError_MessageField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"title is required"}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).DoJSON(context.Background(), http.MethodPost, "/conversations", nil, nil)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if he.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", he.StatusCode)
	}
	if he.Message != "title is required" {
		t.Errorf("Message = %q, want server-provided message", he.Message)
	}
}

func TestDoJSON_HTTPError_ErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer server.Close()

	err := NewClient(server.URL).DoJSON(context.Background(), http.MethodPost, "/auth/login", nil, nil)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %T", err)
	}
	if he.Message != "invalid credentials" {
		t.Errorf("Message = %q", he.Message)
	}
	if HTTPStatus(err) != http.StatusUnauthorized {
		t.Errorf("HTTPStatus = %d", HTTPStatus(err))
	}
}

func TestDoJSON_HTTPError_GenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	err := NewClient(server.URL).DoJSON(context.Background(), http.MethodGet, "/conversations", nil, nil)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if he.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", he.StatusCode)
	}
}

func TestDoJSON_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	var out map[string]any
	err := NewClient(server.URL).DoJSON(context.Background(), http.MethodGet, "/conversations", nil, &out)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if pe.Raw != "this is not json" {
		t.Errorf("Raw = %q, want raw text retained", pe.Raw)
	}
}

func TestDoJSON_NetworkError(t *testing.T) {
	// A closed server makes the connection refuse.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := NewClient(server.URL).DoJSON(context.Background(), http.MethodGet, "/conversations", nil, nil)

	if !IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
	var ne *NetworkError
	errors.As(err, &ne)
	if ne.Status() != 0 {
		t.Errorf("Status = %d, want 0", ne.Status())
	}
}

func TestDoJSON_NotConfigured(t *testing.T) {
	err := NewClient("").DoJSON(context.Background(), http.MethodGet, "/x", nil, nil)
	if !errors.Is(err, ErrNoBaseURL) {
		t.Errorf("expected ErrNoBaseURL, got %v", err)
	}
}

// =============================================================================
// STREAMING PATH TESTS
// =============================================================================

func TestDoStream_ReturnsLiveBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		w.Write([]byte("data: {\"delta\":\"Hi\"}\n\n"))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).DoStream(context.Background(), http.MethodPost, "/chat/message", map[string]string{"message": "hola"})
	if err != nil {
		t.Fatalf("DoStream failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "data: {\"delta\":\"Hi\"}\n\n" {
		t.Errorf("body = %q", body)
	}
}

func TestDoStream_StatusValidatedFirst(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"forbidden"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).DoStream(context.Background(), http.MethodPost, "/chat/message", nil)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if he.Message != "forbidden" {
		t.Errorf("Message = %q", he.Message)
	}
}
