// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the backend API client.
const (
	// DefaultTimeout is the default timeout for non-streaming requests.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed non-streaming response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// requestsPerSecond caps local request pacing. This is courtesy pacing
	// toward the backend, not the usage policy; the usage engine owns send
	// gating.
	requestsPerSecond = 10
	requestBurst      = 20
)

var (
	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	// Shared HTTP client for all JSON requests.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		Timeout: DefaultTimeout,
	}

	// sharedStreamingClient is used for streaming requests. It carries no
	// timeout; lifetime is controlled via the request context.
	sharedStreamingClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
)

// =============================================================================
// CLIENT
// =============================================================================

// Client is the authenticated HTTP client for the widget backend.
type Client struct {
	baseURL      string
	token        string
	tenantID     string
	httpClient   *http.Client
	streamClient *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a client for the given backend base URL.
// The base URL should not carry a trailing slash; one is trimmed if present.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   sharedHTTPClient,
		streamClient: sharedStreamingClient,
		limiter:      rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// WithToken sets the bearer token attached to every request.
func (c *Client) WithToken(token string) *Client {
	c.token = strings.TrimSpace(token)
	return c
}

// WithTenant sets the tenant header attached to every request.
func (c *Client) WithTenant(tenantID string) *Client {
	c.tenantID = tenantID
	return c
}

// WithHTTPClient overrides the underlying HTTP clients. Used by tests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	c.streamClient = client
	return c
}

// SetToken replaces the bearer token, e.g. after a login.
func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsConfigured returns true if the client has a base URL.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// =============================================================================
// REQUEST BUILDING
// =============================================================================

// newRequest builds a request with auth and tenant headers attached.
// contentType is left unset when empty so multipart callers can supply their
// own boundary-bearing value.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	if !c.IsConfigured() {
		return nil, ErrNoBaseURL
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.tenantID != "" {
		req.Header.Set("X-Tenant-Id", c.tenantID)
	}

	return req, nil
}

// =============================================================================
// JSON PATH
// =============================================================================

// DoJSON issues a request with an optional JSON body and decodes the JSON
// response into out. Pass nil body for bodiless methods and nil out to
// discard the response. A 204 response leaves out untouched.
func (c *Client) DoJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, reader, "application/json")
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	// 204 No Content (for example DELETE) short-circuits body handling.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	text, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return &NetworkError{URL: req.URL.String(), Err: err}
	}

	var parsed any
	if len(text) > 0 {
		if err := json.Unmarshal(text, &parsed); err != nil {
			// A non-JSON error page still needs an HTTPError on bad status;
			// a non-JSON success body is a ParseError.
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return newHTTPError(resp.StatusCode, req.URL.String(), nil)
			}
			return &ParseError{URL: req.URL.String(), Raw: string(text), Err: err}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp.StatusCode, req.URL.String(), parsed)
	}

	if out != nil && len(text) > 0 {
		if err := json.Unmarshal(text, out); err != nil {
			return &ParseError{URL: req.URL.String(), Raw: string(text), Err: err}
		}
	}

	return nil
}

// =============================================================================
// STREAMING PATH
// =============================================================================

// DoStream issues a request and returns the live response for incremental
// body reading. The status is validated first; on a non-2xx status the body
// is drained for the error message and closed before returning. The caller
// owns closing the returned response body.
func (c *Client) DoStream(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, reader, "application/json")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		resp.Body.Close()

		var parsed any
		if len(text) > 0 {
			if err := json.Unmarshal(text, &parsed); err != nil {
				parsed = nil
			}
		}
		return nil, newHTTPError(resp.StatusCode, req.URL.String(), parsed)
	}

	if resp.Body == nil {
		return nil, ErrNoStreamBody
	}

	return resp, nil
}

// =============================================================================
// MULTIPART PATH
// =============================================================================

// DoMultipart issues a multipart POST. contentType must be the writer's
// boundary-bearing value; no JSON content type is attached. The response is
// decoded into out like DoJSON.
func (c *Client) DoMultipart(ctx context.Context, path string, body io.Reader, contentType string, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body, contentType)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	text, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return &NetworkError{URL: req.URL.String(), Err: err}
	}

	var parsed any
	if len(text) > 0 {
		if err := json.Unmarshal(text, &parsed); err != nil {
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return newHTTPError(resp.StatusCode, req.URL.String(), nil)
			}
			return &ParseError{URL: req.URL.String(), Raw: string(text), Err: err}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newHTTPError(resp.StatusCode, req.URL.String(), parsed)
	}

	if out != nil && len(text) > 0 {
		if err := json.Unmarshal(text, out); err != nil {
			return &ParseError{URL: req.URL.String(), Raw: string(text), Err: err}
		}
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newHTTPError builds an HTTPError preferring the body's "message" or
// "error" field for the user-facing message.
func newHTTPError(status int, url string, body any) *HTTPError {
	message := ""
	if m, ok := body.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			message = s
		} else if s, ok := m["error"].(string); ok && s != "" {
			message = s
		}
	}
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}

	return &HTTPError{
		StatusCode: status,
		URL:        url,
		Message:    message,
		Body:       body,
	}
}
