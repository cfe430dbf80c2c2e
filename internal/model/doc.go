// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package model contains the data structures for conversations and messages.

The central types are:
  - Message: a single chat message, with streaming accumulation support for
    assistant replies under construction
  - Conversation: conversation metadata as returned by the backend, plus the
    ordered message history when loaded
  - Attachment: a file attached to a user message

Messages use a strings.Builder internally while streaming so that appending
deltas is O(n) overall instead of quadratic.
*/
package model
