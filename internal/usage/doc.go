// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package usage gates message sending with a rolling window and cooldown.

A fresh send starts a usage window. Sends inside the window are allowed;
the first send after the window has elapsed starts a cooldown, during which
sending is rejected. When the cooldown expires the cycle starts over.

Evaluation is a pure function over (now, state): it performs no I/O and no
clock reads, so the policy is unit-testable at exact instants. Persistence
lives in Store, which the caller invokes around each evaluation. The state
survives restarts as a small JSON file.

A periodic display tick uses ComputeView, which never changes state.
*/
package usage
