// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/retroterm/gobbs/internal/model"
)

// Store defines the interface for all database operations in GoBBS.
// This allows for multiple database backends to be implemented.
//
// Lookup methods return (nil, nil) when no record matches; callers decide
// whether "not found" is an error.
type Store interface {
	// Identity methods
	RegisterIdentity(name, credential string) (*model.Identity, error)
	GetIdentityByName(name string) (*model.Identity, error)
	GetIdentityByID(id int) (*model.Identity, error)
	GetAllIdentities() ([]model.Identity, error)
	GetCredential(name string) (string, bool, error)
	TouchLastLogin(id int) (*time.Time, error)
	EnsureSystemIdentity() error

	// Board methods
	AddPost(authorID int, subboard, content string) (*model.Post, error)
	GetPostsForSubboard(subboard string) ([]model.Post, error)

	// Mailbox methods
	AddMailboxEntry(senderID, recipientID int, body string) (*model.MailboxEntry, error)
	GetMailboxEntries(recipientID int) ([]model.MailboxEntry, error)

	// Backup methods
	ExportDataForBackup() (*model.BackupData, error)
	ImportDataFromBackup(backup *model.BackupData) error
}
