// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/retroterm/gobbs/internal/model"
)

func TestCompressedBackupRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	data := &model.BackupData{
		Identities: []model.BackupIdentity{
			{ID: 1, Name: model.SystemName, Credential: ""},
			{ID: 2, Name: "alice", Credential: "hash", IsAdmin: true, LastLogin: &now},
		},
		Posts: []model.BackupPost{
			{ID: 1, AuthorID: 2, Subboard: "main", Content: "hello", CreatedAt: now},
		},
		Mailbox: []model.BackupMail{
			{ID: 1, SenderID: 1, RecipientID: 2, Body: "welcome", CreatedAt: now},
		},
	}

	path := filepath.Join(t.TempDir(), "backup.json.zst")
	if err := writeCompressedBackup(path, data); err != nil {
		t.Fatalf("writeCompressedBackup failed: %v", err)
	}

	got, err := readCompressedBackup(path)
	if err != nil {
		t.Fatalf("readCompressedBackup failed: %v", err)
	}
	if len(got.Identities) != 2 || len(got.Posts) != 1 || len(got.Mailbox) != 1 {
		t.Fatalf("unexpected backup shape: %d identities, %d posts, %d mailbox",
			len(got.Identities), len(got.Posts), len(got.Mailbox))
	}
	if got.Identities[1].Name != "alice" || !got.Identities[1].IsAdmin {
		t.Fatalf("unexpected identity data: %+v", got.Identities[1])
	}
	if got.Identities[1].LastLogin == nil || !got.Identities[1].LastLogin.Equal(now) {
		t.Fatalf("expected last_login %v to survive the round trip, got %v", now, got.Identities[1].LastLogin)
	}
	if got.Posts[0].Content != "hello" || got.Mailbox[0].Body != "welcome" {
		t.Fatalf("unexpected payload data: %+v / %+v", got.Posts[0], got.Mailbox[0])
	}
}

func TestReadCompressedBackup_MissingFile(t *testing.T) {
	if _, err := readCompressedBackup(filepath.Join(t.TempDir(), "nope.zst")); err == nil {
		t.Fatalf("expected error for missing backup file")
	}
}
