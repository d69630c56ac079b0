// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package bbs

import "errors"

// The error taxonomy surfaced to the presentation layer. All of these are
// recoverable: the shell reports them and goes back to the prompt.
var (
	// ErrDuplicateIdentity is returned when registering a name that exists.
	ErrDuplicateIdentity = errors.New("identity already exists")
	// ErrInvalidCredentials is returned when no identity matches the
	// submitted name and credential.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrUnknownRecipient is returned when a mail recipient name does not
	// resolve to an identity.
	ErrUnknownRecipient = errors.New("unknown recipient")
	// ErrUnknownCommand is returned for verbs that do not exist in the
	// current session state. A verb valid only in the other state is
	// deliberately reported the same way, not silently ignored.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidState guards session methods called in the wrong state.
	ErrInvalidState = errors.New("command not valid in this state")
	// ErrStoreUnavailable wraps storage-layer failures; it aborts only the
	// in-progress command.
	ErrStoreUnavailable = errors.New("store unavailable")
)
