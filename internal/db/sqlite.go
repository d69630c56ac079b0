// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for GoBBS.
// This file contains the SQLite implementation of the database store.
package db

import (
	"time"

	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/retroterm/gobbs/internal/model"
)

// SqliteStore is the SQLite implementation of the Store interface. SQLite is
// the default backend and the one the original deployment ran on.
type SqliteStore struct {
	bun *bun.DB
}

// RegisterIdentity creates a new identity, atomically claiming the admin
// flag when it is the first non-SYSTEM registration.
func (s *SqliteStore) RegisterIdentity(name, credential string) (*model.Identity, error) {
	return RegisterIdentityBun(s.bun, name, credential)
}

// GetIdentityByName retrieves an identity by exact name.
func (s *SqliteStore) GetIdentityByName(name string) (*model.Identity, error) {
	return GetIdentityByNameBun(s.bun, name)
}

// GetIdentityByID retrieves an identity by ID.
func (s *SqliteStore) GetIdentityByID(id int) (*model.Identity, error) {
	return GetIdentityByIDBun(s.bun, id)
}

// GetAllIdentities retrieves all identities, including SYSTEM.
func (s *SqliteStore) GetAllIdentities() ([]model.Identity, error) {
	return GetAllIdentitiesBun(s.bun)
}

// GetCredential returns the stored credential for a name.
func (s *SqliteStore) GetCredential(name string) (string, bool, error) {
	return GetCredentialBun(s.bun, name)
}

// TouchLastLogin updates last_login and returns the previous value.
func (s *SqliteStore) TouchLastLogin(id int) (*time.Time, error) {
	return TouchLastLoginBun(s.bun, id)
}

// EnsureSystemIdentity creates the reserved SYSTEM identity if absent.
func (s *SqliteStore) EnsureSystemIdentity() error {
	return EnsureSystemIdentityBun(s.bun)
}

// AddPost appends a post to a sub-board.
func (s *SqliteStore) AddPost(authorID int, subboard, content string) (*model.Post, error) {
	return AddPostBun(s.bun, authorID, subboard, content)
}

// GetPostsForSubboard returns a sub-board's posts, most recent first.
func (s *SqliteStore) GetPostsForSubboard(subboard string) ([]model.Post, error) {
	return GetPostsForSubboardBun(s.bun, subboard)
}

// AddMailboxEntry stores a private message.
func (s *SqliteStore) AddMailboxEntry(senderID, recipientID int, body string) (*model.MailboxEntry, error) {
	return AddMailboxEntryBun(s.bun, senderID, recipientID, body)
}

// GetMailboxEntries returns all mail for a recipient in insertion order.
func (s *SqliteStore) GetMailboxEntries(recipientID int) ([]model.MailboxEntry, error) {
	return GetMailboxEntriesBun(s.bun, recipientID)
}

// ExportDataForBackup retrieves all data from the database for a backup.
func (s *SqliteStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

// ImportDataFromBackup restores the database from a backup data structure.
func (s *SqliteStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}
