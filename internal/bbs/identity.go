// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package bbs

import (
	"errors"
	"fmt"
	"time"

	"github.com/retroterm/gobbs/internal/auth"
	"github.com/retroterm/gobbs/internal/db"
	"github.com/retroterm/gobbs/internal/model"
)

// Register creates a new identity. Registration does not log the user in.
// The first non-SYSTEM identity ever registered gets the admin flag; the
// claim is atomic with the insert, so two racing registrations cannot both
// become admin.
func Register(name, credential string) (*model.Identity, error) {
	hash, err := auth.HashCredential(credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	ident, err := db.RegisterIdentity(name, hash)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ident, nil
}

// Authenticate verifies a name/credential pair. On success it stamps
// last_login with the current time and returns the identity together with
// the previous last_login so the caller can show "Last login: ...". A
// failed attempt never touches last_login. The SYSTEM identity's empty
// credential can never verify, so SYSTEM can never log in.
func Authenticate(name, credential string) (*model.Identity, *time.Time, error) {
	stored, ok, err := db.GetCredential(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok || !auth.VerifyCredential(stored, credential) {
		return nil, nil, ErrInvalidCredentials
	}

	ident, err := db.GetIdentityByName(name)
	if err != nil || ident == nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	prev, err := db.TouchLastLogin(ident.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return ident, prev, nil
}

// LookupByName resolves an identity by its exact, case-sensitive name.
// Returns (nil, nil) when no identity matches.
func LookupByName(name string) (*model.Identity, error) {
	return db.GetIdentityByName(name)
}

// LookupByID resolves an identity by ID. Returns (nil, nil) when absent.
func LookupByID(id int) (*model.Identity, error) {
	return db.GetIdentityByID(id)
}
