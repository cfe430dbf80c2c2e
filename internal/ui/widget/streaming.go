// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// FLUSH BUFFER
// =============================================================================

// FlushBuffer batches streamed deltas for rendering. Deltas arrive on the
// send goroutine; the Bubble Tea loop drains the buffer on a tick. A flush
// happens when enough deltas accumulate or enough time has passed,
// whichever comes first, capping the redraw rate during fast streams.
type FlushBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	deltaCount int
	lastFlush  time.Time

	batchSize    int
	minFlushWait time.Duration
}

const (
	defaultBatchSize = 15
	defaultMaxFPS    = 30
)

// NewFlushBuffer creates a buffer with the default batch size and frame
// cap.
func NewFlushBuffer() *FlushBuffer {
	return &FlushBuffer{
		batchSize:    defaultBatchSize,
		minFlushWait: time.Second / defaultMaxFPS,
		lastFlush:    time.Now(),
	}
}

// Write adds a delta. Safe to call from the send goroutine.
func (b *FlushBuffer) Write(delta string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.WriteString(delta)
	b.deltaCount++
}

// Flush returns the accumulated text when a flush is due, else ("", false).
func (b *FlushBuffer) Flush() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buffer.Len() == 0 {
		return "", false
	}
	if b.deltaCount < b.batchSize && time.Since(b.lastFlush) < b.minFlushWait {
		return "", false
	}
	return b.drainLocked(), true
}

// ForceFlush drains everything regardless of thresholds. Called when a
// stream finishes so no tail is left behind.
func (b *FlushBuffer) ForceFlush() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.buffer.Len() == 0 {
		return "", false
	}
	return b.drainLocked(), true
}

// Reset discards buffered content, for starting a new message.
func (b *FlushBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffer.Reset()
	b.deltaCount = 0
	b.lastFlush = time.Now()
}

func (b *FlushBuffer) drainLocked() string {
	content := b.buffer.String()
	b.buffer.Reset()
	b.deltaCount = 0
	b.lastFlush = time.Now()
	return content
}

// flushTickCmd drives buffer draining at the frame cap.
func flushTickCmd() tea.Cmd {
	return tea.Tick(time.Second/defaultMaxFPS, func(t time.Time) tea.Msg {
		return flushTickMsg{Time: t}
	})
}
