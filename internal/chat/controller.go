// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/jeranaias/widgetchat/internal/api"
	"github.com/jeranaias/widgetchat/internal/conversations"
	"github.com/jeranaias/widgetchat/internal/model"
	"github.com/jeranaias/widgetchat/internal/stream"
	"github.com/jeranaias/widgetchat/internal/util"
)

// =============================================================================
// SEND STATES
// =============================================================================

// State identifies where a send operation currently is.
type State int32

const (
	StateIdle State = iota
	StateResolvingConversation
	StateStreaming
	StateFinalizing
	StateCompleted
	StateFailed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolvingConversation:
		return "resolving-conversation"
	case StateStreaming:
		return "streaming"
	case StateFinalizing:
		return "finalizing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DefaultFallback replaces the assistant reply when a send fails before any
// text arrived.
const DefaultFallback = "Sorry, something went wrong. Please try again."

// maxGeneratedTitleWidth bounds conversation titles derived from the first
// message.
const maxGeneratedTitleWidth = 40

// =============================================================================
// CONTROLLER
// =============================================================================

// DeltaFunc receives each streamed text fragment together with the latest
// resolved conversation id.
type DeltaFunc func(text, conversationID string)

// SendRequest describes one message to send.
type SendRequest struct {
	// ConversationID is empty for a new conversation.
	ConversationID string

	// Content is the user's message text.
	Content string

	// Title names a newly created conversation. Empty derives it from
	// Content.
	Title string

	// Attachments were uploaded ahead of the send.
	Attachments []model.Attachment
}

// Controller drives send operations over the shared transport.
type Controller struct {
	api           *api.Client
	conversations *conversations.Client
	fallback      string

	// framing is atomic: the config watcher may switch it from its own
	// goroutine while a Send is streaming on another.
	framing atomic.Int32
	state   atomic.Int32
}

// NewController creates a controller. The backend streams SSE blocks by
// default; WithFraming switches to line-delimited decoding.
func NewController(apiClient *api.Client) *Controller {
	c := &Controller{
		api:           apiClient,
		conversations: conversations.NewClient(apiClient),
		fallback:      DefaultFallback,
	}
	c.framing.Store(int32(stream.FramingSSE))
	return c
}

// WithFraming sets the stream framing convention. Safe to call while a send
// is in flight: the live stream keeps the framing it started with, the next
// send picks up the new one.
func (c *Controller) WithFraming(f stream.Framing) *Controller {
	c.framing.Store(int32(f))
	return c
}

// Framing returns the framing the next send will decode with.
func (c *Controller) Framing() stream.Framing {
	return stream.Framing(c.framing.Load())
}

// WithFallback sets the localized failure notice.
func (c *Controller) WithFallback(text string) *Controller {
	if text != "" {
		c.fallback = text
	}
	return c
}

// State returns the current send state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
}

// =============================================================================
// SEND
// =============================================================================

// streamRequest is the streamed-send payload.
type streamRequest struct {
	Message        string             `json:"message"`
	ConversationID string             `json:"conversationId,omitempty"`
	Attachments    []model.Attachment `json:"attachments,omitempty"`
}

// Send performs one complete send operation and returns the finalized
// assistant message. On error the returned message is still valid: it holds
// whatever partial text was streamed, or the fallback notice, and is safe
// to display alongside the error.
func (c *Controller) Send(ctx context.Context, req SendRequest, onDelta DeltaFunc) (*model.Message, error) {
	inflight := model.NewInFlightMessage(req.ConversationID)

	// Resolve the conversation identity first when the caller holds none.
	if req.ConversationID == "" {
		c.setState(StateResolvingConversation)
		conv, err := c.conversations.Create(ctx, c.conversationTitle(req))
		if err != nil {
			c.setState(StateFailed)
			return inflight.Fail(c.fallback), err
		}
		inflight.ResolveConversation(conv.ID)
	}

	c.setState(StateStreaming)
	resp, err := c.api.DoStream(ctx, http.MethodPost, "/chat/message", streamRequest{
		Message:        req.Content,
		ConversationID: inflight.ConversationID,
		Attachments:    req.Attachments,
	})
	if err != nil {
		c.setState(StateFailed)
		return inflight.Fail(c.fallback), err
	}
	defer resp.Body.Close()

	decoder := stream.NewDecoder(resp.Body, c.Framing())
	for {
		ev, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Transport died mid-stream. Partial text is kept.
			c.setState(StateFailed)
			return inflight.Fail(c.fallback), err
		}

		if id := ev.ConversationID; id != "" && id != inflight.ConversationID {
			if inflight.ConversationID != "" {
				// A backend should not reassign identity mid-response.
				// Tolerated (last seen wins) but worth noticing.
				log.Printf("[chat] conversation id redeclared mid-stream: %s -> %s", inflight.ConversationID, id)
			}
			inflight.ResolveConversation(id)
		}

		if ev.IsDelta() && ev.Text != "" {
			inflight.Append(ev.Text)
			if onDelta != nil {
				onDelta(ev.Text, inflight.ConversationID)
			}
		}
	}

	c.setState(StateFinalizing)
	msg := inflight.Finalize()
	c.setState(StateCompleted)
	return msg, nil
}

// conversationTitle picks the title for a conversation created on first
// send.
func (c *Controller) conversationTitle(req SendRequest) string {
	if req.Title != "" {
		return req.Title
	}
	title := util.TruncateWidth(req.Content, maxGeneratedTitleWidth)
	if title == "" {
		title = "New Conversation"
	}
	return title
}
