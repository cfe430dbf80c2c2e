// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Error variables for common transport failures.
var (
	// ErrNoBaseURL indicates the client was constructed without a backend URL.
	ErrNoBaseURL = errors.New("api base URL not configured")

	// ErrNoStreamBody indicates a streaming response arrived without a body.
	ErrNoStreamBody = errors.New("streaming response has no body")
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// NetworkError indicates the transport was unreachable: connection refused,
// DNS failure, or the request never left. The HTTP status is reported as 0.
type NetworkError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Status returns 0; a NetworkError never saw an HTTP response.
func (e *NetworkError) Status() int {
	return 0
}

// HTTPError indicates a response with a status outside 2xx. Message prefers
// the server-provided "message" or "error" body field; Body retains the
// parsed body (when it was JSON) for callers that need more detail.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
	Body       any
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d calling %s", e.StatusCode, e.URL)
}

// ParseError indicates a response body that was expected to be JSON and was
// not. Raw retains the offending text for diagnostics.
type ParseError struct {
	URL string
	Raw string
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing JSON response from %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsNetworkError reports whether err is (or wraps) a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// HTTPStatus returns the HTTP status carried by err, or 0 when the error is
// not an HTTPError (including network errors, which never had a status).
func HTTPStatus(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}
