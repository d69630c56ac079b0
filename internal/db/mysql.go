// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for GoBBS.
// This file contains the MySQL implementation of the database store.
package db

import (
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/uptrace/bun"

	"github.com/retroterm/gobbs/internal/model"
)

// MySQLStore is the MySQL implementation of the Store interface. DSNs should
// include `?parseTime=true` so DATETIME columns scan into time.Time. The
// identities.name column uses utf8mb4_bin so name matching stays
// case-sensitive like the other backends.
type MySQLStore struct {
	bun *bun.DB
}

func (s *MySQLStore) RegisterIdentity(name, credential string) (*model.Identity, error) {
	return RegisterIdentityBun(s.bun, name, credential)
}

func (s *MySQLStore) GetIdentityByName(name string) (*model.Identity, error) {
	return GetIdentityByNameBun(s.bun, name)
}

func (s *MySQLStore) GetIdentityByID(id int) (*model.Identity, error) {
	return GetIdentityByIDBun(s.bun, id)
}

func (s *MySQLStore) GetAllIdentities() ([]model.Identity, error) {
	return GetAllIdentitiesBun(s.bun)
}

func (s *MySQLStore) GetCredential(name string) (string, bool, error) {
	return GetCredentialBun(s.bun, name)
}

func (s *MySQLStore) TouchLastLogin(id int) (*time.Time, error) {
	return TouchLastLoginBun(s.bun, id)
}

func (s *MySQLStore) EnsureSystemIdentity() error {
	return EnsureSystemIdentityBun(s.bun)
}

func (s *MySQLStore) AddPost(authorID int, subboard, content string) (*model.Post, error) {
	return AddPostBun(s.bun, authorID, subboard, content)
}

func (s *MySQLStore) GetPostsForSubboard(subboard string) ([]model.Post, error) {
	return GetPostsForSubboardBun(s.bun, subboard)
}

func (s *MySQLStore) AddMailboxEntry(senderID, recipientID int, body string) (*model.MailboxEntry, error) {
	return AddMailboxEntryBun(s.bun, senderID, recipientID, body)
}

func (s *MySQLStore) GetMailboxEntries(recipientID int) ([]model.MailboxEntry, error) {
	return GetMailboxEntriesBun(s.bun, recipientID)
}

func (s *MySQLStore) ExportDataForBackup() (*model.BackupData, error) {
	return ExportDataForBackupBun(s.bun)
}

func (s *MySQLStore) ImportDataFromBackup(backup *model.BackupData) error {
	return ImportDataFromBackupBun(s.bun, backup)
}
