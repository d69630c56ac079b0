// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/retroterm/gobbs/internal/bbs"
	"github.com/retroterm/gobbs/internal/config"
	"github.com/retroterm/gobbs/internal/db"
)

func newTestShell(t *testing.T) *shell {
	t.Helper()
	dsn := "file:cli_" + t.Name() + "?mode=memory&cache=shared"
	if err := db.InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	var cfg config.Config
	cfg.Timezone = "UTC"
	return newShell(cfg)
}

func TestShellPrompt(t *testing.T) {
	sh := newTestShell(t)

	if got := sh.prompt(); got != "GoBBS$ " {
		t.Fatalf("unexpected anonymous prompt: %q", got)
	}

	// First registrant is admin and gets the root-style '#' marker.
	if _, err := bbs.Register("alice", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := sh.session.Login("alice", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if got := sh.prompt(); got != "alice@GoBBS:main# " {
		t.Fatalf("unexpected admin prompt: %q", got)
	}

	// Later registrants are plain users with '$'.
	if err := sh.session.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := bbs.Register("bob", "secret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := sh.session.Login("bob", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := sh.session.Switch("retro"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if got := sh.prompt(); got != "bob@GoBBS:retro$ " {
		t.Fatalf("unexpected user prompt: %q", got)
	}
}

func TestShellFormatTime(t *testing.T) {
	dsn := "file:cli_" + t.Name() + "?mode=memory&cache=shared"
	if err := db.InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	var cfg config.Config
	cfg.Timezone = "Europe/Vienna"
	sh := newShell(cfg)

	// 12:00 UTC in winter is 13:00 in Vienna.
	ts := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := sh.formatTime(ts); got != "2025-01-15 13:00:00" {
		t.Fatalf("unexpected formatted time: %q", got)
	}

	// An unknown timezone falls back to UTC instead of failing.
	cfg.Timezone = "Not/AZone"
	sh = newShell(cfg)
	if got := sh.formatTime(ts); got != "2025-01-15 12:00:00" {
		t.Fatalf("expected UTC fallback, got %q", got)
	}
}

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	want := map[string]bool{"notify": false, "backup": false, "restore": false, "maintenance": false}
	for _, sub := range cmd.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected subcommand %q to be registered", name)
		}
	}
}
