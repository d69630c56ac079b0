// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for GoBBS.
// This file contains the PostgreSQL implementation of the database store.
package db

import (
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/uptrace/bun"

	"github.com/retroterm/gobbs/internal/model"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
// The Bun adapters are dialect-agnostic, so the store is a thin shell; the
// Postgres-specific parts live in the migrations.
type PostgresStore struct {
	bun *bun.DB
}

func (s *PostgresStore) RegisterIdentity(name, credential string) (*model.Identity, error) {
	return RegisterIdentityBun(s.bun, name, credential)
}

func (s *PostgresStore) GetIdentityByName(name string) (*model.Identity, error) {
	return GetIdentityByNameBun(s.bun, name)
}

func (s *PostgresStore) GetIdentityByID(id int) (*model.Identity, error) {
	return GetIdentityByIDBun(s.bun, id)
}

func (s *PostgresStore) GetAllIdentities() ([]model.Identity, error) {
	return GetAllIdentitiesBun(s.bun)
}

func (s *PostgresStore) GetCredential(name string) (string, bool, error) {
	return GetCredentialBun(s.bun, name)
}

func (s *PostgresStore) TouchLastLogin(id int) (*time.Time, error) {
	return TouchLastLoginBun(s.bun, id)
}

func (s *PostgresStore) EnsureSystemIdentity() error {
	return EnsureSystemIdentityBun(s.bun)
}

func (s *PostgresStore) AddPost(authorID int, subboard, content string) (*model.Post, error) {
	return AddPostBun(s.bun, authorID, subboard, content)
}

func (s *PostgresStore) GetPostsForSubboard(subboard string) ([]model.Post, error) {
	return GetPostsForSubboardBun(s.bun, subboard)
}

func (s *PostgresStore) AddMailboxEntry(senderID, recipientID int, body string) (*model.MailboxEntry, error) {
	return AddMailboxEntryBun(s.bun, senderID, recipientID, body)
}

func (s *PostgresStore) GetMailboxEntries(recipientID int) ([]model.MailboxEntry, error) {
	return GetMailboxEntriesBun(s.bun, recipientID)
}

func (s *PostgresStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *PostgresStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}
