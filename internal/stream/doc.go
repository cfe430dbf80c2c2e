// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package stream decodes chunked chat responses into an ordered sequence of
events.

Backends vary in how they frame the response body, so the decoder supports
both conventions in use:

  - FramingLines: one JSON object per newline-terminated line. Lines may
    carry an SSE "data:" prefix, which is stripped before parsing.
  - FramingSSE: blocks separated by a blank line, each holding one or more
    "data:" lines whose payloads are concatenated before parsing.

The decoder is pull-based: callers repeatedly invoke Next until io.EOF. Bytes
are buffered across reads, so a frame (or a multi-byte UTF-8 character) split
across chunk boundaries is reassembled before processing. After the
underlying stream ends, any residual buffered content is processed as a final
frame even without a trailing delimiter.

Frame content never produces an error. A "[DONE]" sentinel ends the stream; a
frame that fails JSON parsing degrades to a plain-text delta carrying the
trimmed raw text; a parsed frame with no recognized payload field is dropped.
Only transport read failures propagate to the caller.

Payload extraction tries a fixed list of shapes in priority order (see
extract.go); supporting a new backend dialect means appending one extractor.
*/
package stream
