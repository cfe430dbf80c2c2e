// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the user-facing strings in Spanish and English. The
// catalog is static; picking a language is a match against the configured
// or environment locale.
package i18n

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

// supported lists the shipped languages; the first is the fallback.
var supported = []language.Tag{
	language.Spanish,
	language.English,
}

var matcher = language.NewMatcher(supported)

// =============================================================================
// CATALOG
// =============================================================================

// Key identifies one translatable string.
type Key string

const (
	KeyFallbackReply      Key = "fallback_reply"
	KeyCooldownNotice     Key = "cooldown_notice"
	KeyNetworkError       Key = "network_error"
	KeyInvalidCredentials Key = "invalid_credentials"
	KeyNewConversation    Key = "new_conversation"
	KeyInputPlaceholder   Key = "input_placeholder"
	KeyEmptyConversation  Key = "empty_conversation"
	KeySending            Key = "sending"
	KeyAttachPrompt       Key = "attach_prompt"
	KeyAttachedFiles      Key = "attached_files"
	KeyAttachLimit        Key = "attach_limit"
)

var messages = map[language.Tag]map[Key]string{
	language.Spanish: {
		KeyFallbackReply:      "Lo siento, ha ocurrido un error. Inténtalo de nuevo.",
		KeyCooldownNotice:     "Has alcanzado el límite de uso. Inténtalo de nuevo en %d min.",
		KeyNetworkError:       "No se pudo conectar con el servidor.",
		KeyInvalidCredentials: "Correo o contraseña incorrectos.",
		KeyNewConversation:    "Nueva conversación",
		KeyInputPlaceholder:   "Escribe un mensaje...",
		KeyEmptyConversation:  "Sin mensajes todavía.",
		KeySending:            "Enviando...",
		KeyAttachPrompt:       "Ruta del archivo a adjuntar...",
		KeyAttachedFiles:      "%d adjunto(s)",
		KeyAttachLimit:        "Máximo %d archivos por mensaje.",
	},
	language.English: {
		KeyFallbackReply:      "Sorry, something went wrong. Please try again.",
		KeyCooldownNotice:     "You have reached the usage limit. Try again in %d min.",
		KeyNetworkError:       "Could not reach the server.",
		KeyInvalidCredentials: "Invalid email or password.",
		KeyNewConversation:    "New conversation",
		KeyInputPlaceholder:   "Type a message...",
		KeyEmptyConversation:  "No messages yet.",
		KeySending:            "Sending...",
		KeyAttachPrompt:       "Path of the file to attach...",
		KeyAttachedFiles:      "%d attachment(s)",
		KeyAttachLimit:        "At most %d files per message.",
	},
}

// =============================================================================
// TRANSLATOR
// =============================================================================

// Translator resolves keys against one matched language.
type Translator struct {
	tag language.Tag
}

// New matches pref (e.g. "es", "en-US") against the shipped languages.
// Empty pref falls back to the process locale, then Spanish.
func New(pref string) *Translator {
	if pref == "" {
		pref = envLocale()
	}
	// The matcher returns close variants (es-419, en-GB); the index maps
	// back to the shipped tag so catalog lookup hits.
	_, idx := language.MatchStrings(matcher, pref)
	return &Translator{tag: supported[idx]}
}

func envLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			// "es_ES.UTF-8" -> "es-ES"
			v = strings.SplitN(v, ".", 2)[0]
			return strings.ReplaceAll(v, "_", "-")
		}
	}
	return ""
}

// Language returns the matched tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T returns the string for key, falling back to Spanish then the key name.
func (t *Translator) T(key Key) string {
	if msg, ok := messages[t.tag][key]; ok {
		return msg
	}
	if msg, ok := messages[supported[0]][key]; ok {
		return msg
	}
	return string(key)
}

// CooldownNotice formats the usage-limit message for a remaining-minutes
// estimate.
func (t *Translator) CooldownNotice(minutes int) string {
	return fmt.Sprintf(t.T(KeyCooldownNotice), minutes)
}
