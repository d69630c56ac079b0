// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package bbs

import (
	"errors"
	"testing"

	"github.com/retroterm/gobbs/internal/db"
	"github.com/retroterm/gobbs/internal/model"
)

// newTestDB points the shared db package at a fresh in-memory sqlite store.
// The DSN is keyed by test name so parallel packages cannot collide.
func newTestDB(t *testing.T) {
	t.Helper()
	dsn := "file:bbs_" + t.Name() + "?mode=memory&cache=shared"
	if err := db.InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
}

func TestRegister_FirstIsAdminAndDuplicateRejected(t *testing.T) {
	newTestDB(t)

	alice, err := Register("alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error registering alice: %v", err)
	}
	if !alice.IsAdmin {
		t.Fatalf("expected first registrant to be admin")
	}

	bob, err := Register("bob", "secret")
	if err != nil {
		t.Fatalf("unexpected error registering bob: %v", err)
	}
	if bob.IsAdmin {
		t.Fatalf("expected second registrant not to be admin")
	}

	if _, err := Register("alice", "other"); !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got: %v", err)
	}
}

func TestAuthenticate_SuccessTracksLastLogin(t *testing.T) {
	newTestDB(t)

	if _, err := Register("alice", "secret"); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}

	ident, prev, err := Authenticate("alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error on first login: %v", err)
	}
	if ident.Name != "alice" {
		t.Fatalf("expected identity alice, got %q", ident.Name)
	}
	if prev != nil {
		t.Fatalf("expected nil previous login on first login, got %v", prev)
	}

	_, prev, err = Authenticate("alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error on second login: %v", err)
	}
	if prev == nil {
		t.Fatalf("expected previous login timestamp on second login")
	}
}

func TestAuthenticate_FailureDoesNotTouchLastLogin(t *testing.T) {
	newTestDB(t)

	if _, err := Register("alice", "secret"); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}

	if _, _, err := Authenticate("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got: %v", err)
	}
	if _, _, err := Authenticate("nobody", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown name, got: %v", err)
	}

	// The failed attempts above must not have stamped last_login.
	_, prev, err := Authenticate("alice", "secret")
	if err != nil {
		t.Fatalf("unexpected error on valid login: %v", err)
	}
	if prev != nil {
		t.Fatalf("expected failed attempts to leave last_login unset, got %v", prev)
	}
}

func TestAuthenticate_SystemCanNeverLogIn(t *testing.T) {
	newTestDB(t)

	for _, pw := range []string{"", "SYSTEM", "anything"} {
		if _, _, err := Authenticate(model.SystemName, pw); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected SYSTEM login with %q to fail with ErrInvalidCredentials, got: %v", pw, err)
		}
	}
}
