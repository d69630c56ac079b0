// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

// Package bbs is the core of GoBBS: identity registration and login, the
// sub-board post store, private mail, the @mention notification pipeline
// and the session state machine that gates which commands are reachable.
// The presentation layer owns all I/O; this package returns plain data.
package bbs

import (
	"errors"
	"fmt"
	"time"

	"github.com/retroterm/gobbs/internal/db"
	"github.com/retroterm/gobbs/internal/model"
)

// DefaultSubboard is the sub-board a fresh login lands on and the fallback
// when a post names no sub-board.
const DefaultSubboard = "main"

// State is the session's position in the command state machine.
type State int

const (
	// StateAnonymous is the initial state: no identity bound, no active
	// sub-board yet.
	StateAnonymous State = iota
	// StateAuthenticated binds an identity and an active sub-board.
	StateAuthenticated
)

// commandStates maps every known verb to the states it is valid in.
// quit/exit/help work everywhere; everything else belongs to exactly one
// state. A verb used in the wrong state is an unknown command there, not a
// silently ignored one.
var commandStates = map[string][]State{
	"register": {StateAnonymous},
	"login":    {StateAnonymous},
	"post":     {StateAuthenticated},
	"read":     {StateAuthenticated},
	"switch":   {StateAuthenticated},
	"send":     {StateAuthenticated},
	"inbox":    {StateAuthenticated},
	"logout":   {StateAuthenticated},
	"help":     {StateAnonymous, StateAuthenticated},
	"quit":     {StateAnonymous, StateAuthenticated},
	"exit":     {StateAnonymous, StateAuthenticated},
}

// Session tracks the authenticated identity and the active sub-board, and
// dispatches commands to the stores. One Session serves one interactive
// connection; it is not safe for concurrent use.
type Session struct {
	state    State
	identity *model.Identity
	subboard string
}

// NewSession returns a session in the Anonymous state.
func NewSession() *Session {
	return &Session{state: StateAnonymous}
}

// State returns the current machine state.
func (s *Session) State() State { return s.state }

// Identity returns the bound identity, or nil while anonymous.
func (s *Session) Identity() *model.Identity { return s.identity }

// Subboard returns the active sub-board, or "" while anonymous.
func (s *Session) Subboard() string { return s.subboard }

// Check validates a verb against the current state. Verbs that do not exist
// and verbs that only exist in the other state both come back
// ErrUnknownCommand.
func (s *Session) Check(verb string) error {
	states, ok := commandStates[verb]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
	}
	for _, st := range states {
		if st == s.state {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
}

// Register creates a new identity. Valid only while anonymous; the session
// stays anonymous afterwards since registration does not imply login.
func (s *Session) Register(name, credential string) (*model.Identity, error) {
	if s.state != StateAnonymous {
		return nil, ErrInvalidState
	}
	return Register(name, credential)
}

// Login authenticates and, on success, moves to Authenticated with the
// default sub-board active. Returns the identity and the previous
// last_login for display. On failure the session stays anonymous.
func (s *Session) Login(name, credential string) (*model.Identity, *time.Time, error) {
	if s.state != StateAnonymous {
		return nil, nil, ErrInvalidState
	}
	ident, prev, err := Authenticate(name, credential)
	if err != nil {
		return nil, nil, err
	}
	s.state = StateAuthenticated
	s.identity = ident
	s.subboard = DefaultSubboard
	return ident, prev, nil
}

// Logout drops back to Anonymous.
func (s *Session) Logout() error {
	if s.state != StateAuthenticated {
		return ErrInvalidState
	}
	s.state = StateAnonymous
	s.identity = nil
	s.subboard = ""
	return nil
}

// Switch changes the active sub-board. Any name is valid; sub-boards exist
// implicitly and are created lazily by the first post.
func (s *Session) Switch(subboard string) error {
	if s.state != StateAuthenticated {
		return ErrInvalidState
	}
	if subboard == "" {
		subboard = DefaultSubboard
	}
	s.subboard = subboard
	return nil
}

// Post stores content on the active sub-board, then runs the mention
// fan-out. The returned misses are mention names that did not resolve;
// they are diagnostics, not failures — the post is durably stored before
// mention resolution runs and is never rolled back by it.
func (s *Session) Post(content string) (*model.Post, []string, error) {
	if s.state != StateAuthenticated {
		return nil, nil, ErrInvalidState
	}
	post, err := db.AddPost(s.identity.ID, s.subboard, content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	misses, err := NotifyMentions(content)
	if err != nil {
		// The post already exists; a broken fan-out is reported as a miss
		// of nothing rather than a command failure.
		return post, nil, nil
	}
	return post, misses, nil
}

// Read lists the active sub-board's posts, most recent first. A sub-board
// nobody has posted to yields an empty slice.
func (s *Session) Read() ([]model.Post, error) {
	if s.state != StateAuthenticated {
		return nil, ErrInvalidState
	}
	posts, err := db.GetPostsForSubboard(s.subboard)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return posts, nil
}

// Send resolves a recipient by name and stores a private message. Self-mail
// is permitted; an unresolvable name is ErrUnknownRecipient.
func (s *Session) Send(recipientName, body string) (*model.MailboxEntry, error) {
	if s.state != StateAuthenticated {
		return nil, ErrInvalidState
	}
	recipient, err := db.GetIdentityByName(recipientName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if recipient == nil {
		return nil, ErrUnknownRecipient
	}
	entry, err := db.AddMailboxEntry(s.identity.ID, recipient.ID, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return entry, nil
}

// Inbox lists all mail addressed to the bound identity, oldest first.
// Reading is non-destructive.
func (s *Session) Inbox() ([]model.MailboxEntry, error) {
	if s.state != StateAuthenticated {
		return nil, ErrInvalidState
	}
	entries, err := db.GetMailboxEntries(s.identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return entries, nil
}

// IsUnknownCommand reports whether err is the unknown-command condition.
func IsUnknownCommand(err error) bool {
	return errors.Is(err, ErrUnknownCommand)
}
