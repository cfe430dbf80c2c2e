// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package usage

import (
	"fmt"
	"time"
)

// =============================================================================
// POLICY
// =============================================================================

const (
	// DefaultWindow is how long sending stays open once a window starts.
	DefaultWindow = 5 * time.Minute

	// DefaultCooldown is how long sending is blocked after a window lapses.
	DefaultCooldown = 30 * time.Minute
)

// Policy holds the tunable durations. Zero values fall back to the defaults
// at evaluation time so an empty Policy behaves sensibly.
type Policy struct {
	Window   time.Duration
	Cooldown time.Duration
}

// DefaultPolicy returns the standard 5-minute window / 30-minute cooldown.
func DefaultPolicy() Policy {
	return Policy{Window: DefaultWindow, Cooldown: DefaultCooldown}
}

func (p Policy) window() time.Duration {
	if p.Window > 0 {
		return p.Window
	}
	return DefaultWindow
}

func (p Policy) cooldown() time.Duration {
	if p.Cooldown > 0 {
		return p.Cooldown
	}
	return DefaultCooldown
}

// =============================================================================
// STATE
// =============================================================================

// State is the persisted usage record. Timestamps are epoch milliseconds;
// zero means unset. At most one of window/cooldown is meaningful at any
// evaluated instant.
type State struct {
	WindowStart   int64 `json:"windowStart"`
	CooldownUntil int64 `json:"cooldownUntil"`
}

// IsZero reports whether the state is idle (no window, no cooldown).
func (s State) IsZero() bool {
	return s.WindowStart == 0 && s.CooldownUntil == 0
}

// Evaluation is the outcome of one send-attempt check.
type Evaluation struct {
	// Allowed reports whether the send may proceed.
	Allowed bool

	// Next is the state to persist. Always valid, even when unchanged.
	Next State

	// Remaining is time left in the window when allowed, or time left in
	// the cooldown when not.
	Remaining time.Duration
}

// =============================================================================
// EVALUATION
// =============================================================================

// Evaluate applies the policy rules in order:
//
//  1. An expired cooldown resets to idle before anything else.
//  2. An active cooldown rejects with its remaining time.
//  3. An unexpired window allows with the window's remaining time.
//  4. An expired window rejects and starts a cooldown.
//  5. Idle allows and starts a fresh window.
//
// Pure: no I/O, no clock reads. The caller persists Next.
func (p Policy) Evaluate(now time.Time, s State) Evaluation {
	nowMS := now.UnixMilli()

	// Rule 1: expired cooldown clears everything; evaluation continues as
	// if starting fresh.
	if s.CooldownUntil != 0 && nowMS >= s.CooldownUntil {
		s = State{}
	}

	// Rule 2: active cooldown.
	if s.CooldownUntil != 0 {
		return Evaluation{
			Allowed:   false,
			Next:      s,
			Remaining: time.Duration(s.CooldownUntil-nowMS) * time.Millisecond,
		}
	}

	if s.WindowStart != 0 {
		elapsed := time.Duration(nowMS-s.WindowStart) * time.Millisecond

		// Rule 3: window still open.
		if elapsed <= p.window() {
			return Evaluation{
				Allowed:   true,
				Next:      s,
				Remaining: p.window() - elapsed,
			}
		}

		// Rule 4: window lapsed; cooldown begins now.
		return Evaluation{
			Allowed:   false,
			Next:      State{CooldownUntil: now.Add(p.cooldown()).UnixMilli()},
			Remaining: p.cooldown(),
		}
	}

	// Rule 5: idle; a new window opens.
	return Evaluation{
		Allowed:   true,
		Next:      State{WindowStart: nowMS},
		Remaining: p.window(),
	}
}

// =============================================================================
// DISPLAY VIEW
// =============================================================================

// View is a read-only snapshot for countdown display.
type View struct {
	InCooldown bool
	InWindow   bool
	Remaining  time.Duration
}

// ComputeView derives the countdown from persisted state without changing
// it. The periodic UI tick uses this; only a send attempt goes through
// Evaluate.
func (p Policy) ComputeView(now time.Time, s State) View {
	nowMS := now.UnixMilli()

	if s.CooldownUntil != 0 && nowMS < s.CooldownUntil {
		return View{
			InCooldown: true,
			Remaining:  time.Duration(s.CooldownUntil-nowMS) * time.Millisecond,
		}
	}

	if s.WindowStart != 0 {
		elapsed := time.Duration(nowMS-s.WindowStart) * time.Millisecond
		if elapsed <= p.window() {
			return View{InWindow: true, Remaining: p.window() - elapsed}
		}
	}

	return View{}
}

// =============================================================================
// POLICY REJECTION
// =============================================================================

// ExceededError is a policy rejection, not a transport failure. It carries
// the remaining cooldown so the UI can show a countdown.
type ExceededError struct {
	Remaining time.Duration
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("usage limit reached, try again in %d min", CooldownMinutes(e.Remaining))
}

// CooldownMinutes converts a remaining duration to whole minutes for
// display, rounding up, never below 1.
func CooldownMinutes(remaining time.Duration) int {
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}
