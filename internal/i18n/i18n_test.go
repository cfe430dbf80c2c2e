// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestNew_MatchesRegionalVariants(t *testing.T) {
	cases := []struct {
		pref string
		want language.Tag
	}{
		{"es", language.Spanish},
		{"es-419", language.Spanish},
		{"en", language.English},
		{"en-GB", language.English},
		{"fr", language.Spanish}, // unsupported falls back to first
	}
	for _, tc := range cases {
		if got := New(tc.pref).Language(); got != tc.want {
			t.Errorf("New(%q).Language() = %v, want %v", tc.pref, got, tc.want)
		}
	}
}

func TestT_ReturnsLocalizedString(t *testing.T) {
	es := New("es")
	en := New("en")

	if got := es.T(KeyNewConversation); got != "Nueva conversación" {
		t.Errorf("es = %q", got)
	}
	if got := en.T(KeyNewConversation); got != "New conversation" {
		t.Errorf("en = %q", got)
	}
}

func TestCooldownNotice_EmbedsMinutes(t *testing.T) {
	got := New("en").CooldownNotice(16)
	if !strings.Contains(got, "16 min") {
		t.Errorf("notice = %q", got)
	}
}

func TestT_UnknownKeyFallsBack(t *testing.T) {
	if got := New("en").T(Key("missing_key")); got != "missing_key" {
		t.Errorf("got %q", got)
	}
}

func TestNew_EnvLocale(t *testing.T) {
	t.Setenv("LC_ALL", "en_US.UTF-8")
	if got := New("").Language(); got != language.English {
		t.Errorf("Language = %v", got)
	}
}
