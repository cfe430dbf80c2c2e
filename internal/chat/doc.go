// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat orchestrates one "send message" operation end to end.

A send moves through a small state machine:

	Idle -> ResolvingConversation -> Streaming -> Finalizing -> Completed
	                              \-> Failed (any transport error)

ResolvingConversation is skipped when the caller already holds a
conversation id; otherwise a conversation is created first. Streaming
drives the decoder over the raw response body, appending each delta to the
in-flight assistant message and invoking the caller's callback with the
text and the latest resolved conversation id. A conversation id observed
in the stream supersedes the one held (last seen wins).

On failure the partial reply already streamed is preserved; if nothing
arrived, a fallback notice is substituted. Prior messages are never rolled
back, and nothing is retried.

The controller handles one send at a time. Blocking input while a send is
in flight is the caller's job; cancellation rides the context.
*/
package chat
