// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"strings"
	"testing"
)

func TestT_TranslatesAndFormats(t *testing.T) {
	Init("en")

	if got := T("shell.goodbye"); got != "Thank you for using GoBBS!" {
		t.Fatalf("unexpected translation: %q", got)
	}
	if got := T("shell.switched", "retro"); !strings.Contains(got, "retro") {
		t.Fatalf("expected formatted argument in %q", got)
	}
}

func TestT_UnknownKeyReturnsID(t *testing.T) {
	Init("en")

	if got := T("no.such.key"); got != "no.such.key" {
		t.Fatalf("expected message ID fallback, got %q", got)
	}
}

func TestT_GermanLocale(t *testing.T) {
	SetLang("de")
	defer SetLang("en")

	if got := T("shell.goodbye"); got != "Danke, dass du GoBBS benutzt hast!" {
		t.Fatalf("unexpected German translation: %q", got)
	}
}

func TestT_UninitializedFallsBackToEnglish(t *testing.T) {
	localizer = nil
	bundle = nil

	if got := T("shell.logged_out"); got != "Logged out." {
		t.Fatalf("expected lazy English init, got %q", got)
	}
}
