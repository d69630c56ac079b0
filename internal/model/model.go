package model

import (
	"fmt"
	"time"
)

// SystemName is the reserved identity that authors automatic notifications.
// It is created at startup, carries an empty credential and can never log in.
const SystemName = "SYSTEM"

// Identity is a registered user of the board.
type Identity struct {
	ID        int
	Name      string
	IsAdmin   bool
	LastLogin *time.Time
}

// IsSystem reports whether this is the reserved SYSTEM identity.
func (i Identity) IsSystem() bool {
	return i.Name == SystemName
}

// Post is a single message on a sub-board. Posts are append-only.
type Post struct {
	ID         int
	AuthorID   int
	AuthorName string
	Subboard   string
	Content    string
	CreatedAt  time.Time
}

// String returns the classic teletype rendering of a post.
func (p Post) String() string {
	return fmt.Sprintf("[%s] %s: %s", p.CreatedAt.UTC().Format("2006-01-02 15:04:05"), p.AuthorName, p.Content)
}

// MailboxEntry is a private message between two identities. The sender may
// be the reserved SYSTEM identity for mention and broadcast notifications.
type MailboxEntry struct {
	ID          int
	SenderID    int
	SenderName  string
	RecipientID int
	Body        string
	CreatedAt   time.Time
}

// BackupData is a full snapshot of the store, used by the backup and
// restore commands.
type BackupData struct {
	Identities []BackupIdentity `json:"identities"`
	Posts      []BackupPost     `json:"posts"`
	Mailbox    []BackupMail     `json:"mailbox"`
}

// BackupIdentity carries the stored credential hash so a restore is able to
// reproduce logins. The hash is opaque to everything outside internal/auth.
type BackupIdentity struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Credential string     `json:"credential"`
	IsAdmin    bool       `json:"is_admin"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

type BackupPost struct {
	ID        int       `json:"id"`
	AuthorID  int       `json:"author_id"`
	Subboard  string    `json:"subboard"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type BackupMail struct {
	ID          int       `json:"id"`
	SenderID    int       `json:"sender_id"`
	RecipientID int       `json:"recipient_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}
