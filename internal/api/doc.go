// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package api provides the authenticated HTTP client used by every backend
collaborator of the widget.

The client exposes two request paths:

  - DoJSON: issues a request and parses the JSON response body into a caller
    value. 204 responses short-circuit to a nil result without touching the
    body. Non-2xx statuses become *HTTPError with the message extracted from
    the body's "message" or "error" field when present.

  - DoStream: issues a request and hands back the live *http.Response after
    validating the status, so the caller can read the body incrementally.
    This is the only path the chat controller uses.

Failure taxonomy:

  - *NetworkError: the transport never produced a response (connection
    refused, DNS failure). Reported with status 0.
  - *HTTPError: a response arrived with a non-2xx status.
  - *ParseError: the body was expected to be JSON and was not; the raw text
    is retained for diagnostics and never shown to the end user.

There are no automatic retries anywhere in this client; a failed send is the
user's to repeat.
*/
package api
