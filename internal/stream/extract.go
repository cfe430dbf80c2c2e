// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

// Payload extraction strategies, evaluated in priority order. Each is a pure
// function from a parsed frame to an optional text payload; the first match
// wins. Adding a backend dialect means appending one entry here.

// extractor attempts to pull the delta text out of a parsed frame.
type extractor func(frame map[string]any) (string, bool)

// extractors lists the supported event shapes, highest priority first:
//
//	{"delta": "text"}
//	{"delta": {"text": "text"}}
//	{"delta": {"content": "text"}}
//	{"content": "text"}
//	{"message": "text"}
//	{"choices": [{"delta": {"content": "text"}}]}  (chat-completion style)
var extractors = []extractor{
	extractDeltaString,
	extractDeltaText,
	extractDeltaContent,
	extractContent,
	extractMessage,
	extractChoicesDelta,
}

// extractText runs the strategies in order and returns the first match.
// No match yields ("", false): an empty delta, dropped by the decoder.
func extractText(frame map[string]any) (string, bool) {
	for _, ex := range extractors {
		if text, ok := ex(frame); ok {
			return text, true
		}
	}
	return "", false
}

func extractDeltaString(frame map[string]any) (string, bool) {
	s, ok := frame["delta"].(string)
	return s, ok
}

func extractDeltaText(frame map[string]any) (string, bool) {
	delta, ok := frame["delta"].(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := delta["text"].(string)
	return s, ok
}

func extractDeltaContent(frame map[string]any) (string, bool) {
	delta, ok := frame["delta"].(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := delta["content"].(string)
	return s, ok
}

func extractContent(frame map[string]any) (string, bool) {
	s, ok := frame["content"].(string)
	return s, ok
}

func extractMessage(frame map[string]any) (string, bool) {
	s, ok := frame["message"].(string)
	return s, ok
}

func extractChoicesDelta(frame map[string]any) (string, bool) {
	choices, ok := frame["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	delta, ok := first["delta"].(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := delta["content"].(string)
	return s, ok
}

// extractConversationID pulls the conversation identity when the frame
// carries one.
func extractConversationID(frame map[string]any) string {
	s, _ := frame["conversationId"].(string)
	return s
}
