// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

// =============================================================================
// EVENT TYPES
// =============================================================================

// EventKind discriminates the variants of a decoded stream event.
type EventKind int

const (
	// KindDelta is an incremental text fragment.
	KindDelta EventKind = iota

	// KindUnparsable is a frame that failed structured parsing. The trimmed
	// raw text is carried in Text and should be treated as a plain delta.
	KindUnparsable
)

// End of stream is not an event: the "[DONE]" sentinel and connection close
// both surface as io.EOF from Decoder.Next.

// Event is one decoded frame of the transport stream.
type Event struct {
	Kind EventKind

	// Text is the extracted delta text (KindDelta) or the trimmed raw frame
	// (KindUnparsable). Empty only for a delta that carries a conversation
	// id without text.
	Text string

	// ConversationID is set when the frame carried one.
	ConversationID string
}

// IsDelta reports whether the event contributes text to the reply.
// Unparsable frames count: their raw text is forwarded as a delta.
func (e Event) IsDelta() bool {
	return e.Kind == KindDelta || e.Kind == KindUnparsable
}
