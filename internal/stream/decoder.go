// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// FRAMING
// =============================================================================

// Framing selects the delimiter convention of the stream.
type Framing int

const (
	// FramingLines treats each newline-terminated line as a candidate frame.
	FramingLines Framing = iota

	// FramingSSE treats blank-line-separated blocks as frames.
	FramingSSE
)

// doneSentinel is the exact literal that explicitly terminates a stream.
const doneSentinel = "[DONE]"

// readChunkSize is the read buffer size for each pull from the transport.
const readChunkSize = 4096

// =============================================================================
// DECODER
// =============================================================================

// Decoder turns an incremental byte stream into an ordered sequence of
// events. It is a lazy, finite, non-restartable sequence: call Next until it
// returns io.EOF.
type Decoder struct {
	r       io.Reader
	framing Framing

	// pending buffers bytes until a complete frame is available. Frames are
	// delimited by ASCII newlines, which never occur inside a multi-byte
	// UTF-8 sequence, so a character split across reads stays intact here
	// until its frame completes.
	pending []byte
	readBuf []byte

	eof  bool // underlying reader exhausted
	done bool // sentinel seen or residual flushed; Next returns io.EOF
}

// NewDecoder creates a decoder over r using the given framing.
func NewDecoder(r io.Reader, framing Framing) *Decoder {
	return &Decoder{
		r:       r,
		framing: framing,
		readBuf: make([]byte, readChunkSize),
	}
}

// Next returns the next decoded event, or io.EOF when the stream is
// finished. Malformed frames never produce an error: they degrade to
// KindUnparsable or are dropped. Only transport read failures are returned.
func (d *Decoder) Next() (Event, error) {
	for {
		if d.done {
			return Event{}, io.EOF
		}

		// Drain complete frames already buffered.
		for {
			frame, ok := d.nextFrame()
			if !ok {
				break
			}
			ev, ok := d.processFrame(frame)
			if d.done {
				// [DONE]: any buffered partial frame after it is ignored.
				d.pending = nil
				return Event{}, io.EOF
			}
			if ok {
				return ev, nil
			}
		}

		if d.eof {
			return d.flushResidual()
		}

		n, err := d.r.Read(d.readBuf)
		if n > 0 {
			d.pending = append(d.pending, d.readBuf[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				d.eof = true
				continue
			}
			return Event{}, err
		}
	}
}

// nextFrame extracts the next complete frame from the buffer, if any.
// Incomplete content stays buffered.
func (d *Decoder) nextFrame() (string, bool) {
	var delim []byte
	switch d.framing {
	case FramingSSE:
		delim = []byte("\n\n")
	default:
		delim = []byte("\n")
	}

	idx := bytes.Index(d.pending, delim)
	if idx < 0 {
		return "", false
	}

	frame := string(d.pending[:idx])
	d.pending = d.pending[idx+len(delim):]
	return frame, true
}

// flushResidual processes whatever is left in the buffer as a final frame,
// even though it lacks a trailing delimiter, then ends the stream.
func (d *Decoder) flushResidual() (Event, error) {
	residual := strings.TrimSpace(string(d.pending))
	d.pending = nil
	d.done = true

	if residual != "" {
		if ev, ok := d.processFrame(residual); ok {
			return ev, nil
		}
	}
	return Event{}, io.EOF
}

// =============================================================================
// FRAME PROCESSING
// =============================================================================

// processFrame decodes one frame into an event. The bool result is false
// when the frame yields nothing (blank, no data lines, or empty payload).
// The [DONE] sentinel sets d.done instead of producing an event.
func (d *Decoder) processFrame(frame string) (Event, bool) {
	payload := d.framePayload(frame)
	if payload == "" {
		return Event{}, false
	}

	if payload == doneSentinel {
		d.done = true
		return Event{}, false
	}

	return d.decodePayload(payload)
}

// framePayload strips delimiter-specific decoration and returns the text to
// parse, or "" for frames with nothing in them.
func (d *Decoder) framePayload(frame string) string {
	switch d.framing {
	case FramingSSE:
		// Concatenate the payloads of all data: lines in the block.
		var parts []string
		for _, line := range strings.Split(frame, "\n") {
			line = strings.TrimRight(line, "\r")
			if rest, ok := strings.CutPrefix(line, "data:"); ok {
				parts = append(parts, strings.TrimSpace(rest))
			}
		}
		if len(parts) == 0 {
			// A block with only event:/id:/comment lines carries no payload.
			// Fall back to the trimmed block so bare non-SSE text still
			// degrades to a plain delta instead of vanishing.
			trimmed := strings.TrimSpace(frame)
			if trimmed == "" || strings.HasPrefix(trimmed, ":") ||
				strings.HasPrefix(trimmed, "event:") || strings.HasPrefix(trimmed, "id:") ||
				strings.HasPrefix(trimmed, "retry:") {
				return ""
			}
			return trimmed
		}
		return strings.Join(parts, "\n")

	default:
		text := strings.TrimSpace(frame)
		if rest, ok := strings.CutPrefix(text, "data:"); ok {
			text = strings.TrimSpace(rest)
		}
		return text
	}
}

// decodePayload parses the payload and extracts the delta. JSON parse
// failure degrades to an unparsable event carrying the raw text; a parsed
// frame with no recognized payload field is dropped rather than erroring.
func (d *Decoder) decodePayload(payload string) (Event, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		// Not JSON: treat as plain text.
		return Event{Kind: KindUnparsable, Text: payload}, true
	}

	frame, ok := parsed.(map[string]any)
	if !ok {
		// Valid JSON but not an event object (bare string, number, array):
		// nothing to extract, nothing to report.
		return Event{}, false
	}

	conversationID := extractConversationID(frame)
	text, _ := extractText(frame)

	if text == "" {
		// A conversation id can arrive alone, before any text. Surface it as
		// an empty delta so the consumer still learns the identity.
		if conversationID != "" {
			return Event{Kind: KindDelta, ConversationID: conversationID}, true
		}
		return Event{}, false
	}

	return Event{Kind: KindDelta, Text: text, ConversationID: conversationID}, true
}
