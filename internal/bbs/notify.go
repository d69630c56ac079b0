// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package bbs

import (
	"fmt"

	"github.com/retroterm/gobbs/internal/db"
	"github.com/retroterm/gobbs/internal/logging"
	"github.com/retroterm/gobbs/internal/model"
)

// mentionNotice prefixes every mention notification; the original content
// is appended verbatim.
const mentionNotice = "You were mentioned in a message: "

// NotifyMentions scans a stored post's content and delivers a SYSTEM-authored
// mailbox entry to every mentioned identity that resolves. Tokens are
// processed in order of appearance; duplicates get duplicate notifications.
// Names that do not resolve are returned as misses for the caller to report.
// A miss or a failed delivery never aborts the remaining mentions and never
// turns the already-stored post into a failure.
func NotifyMentions(content string) ([]string, error) {
	names := ParseMentions(content)
	if len(names) == 0 {
		return nil, nil
	}

	system, err := db.GetIdentityByName(model.SystemName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if system == nil {
		return nil, fmt.Errorf("%w: reserved identity %q missing", ErrStoreUnavailable, model.SystemName)
	}

	var misses []string
	for _, name := range names {
		recipient, err := db.GetIdentityByName(name)
		if err != nil {
			logging.Errorf("mention lookup for %q failed: %v", name, err)
			misses = append(misses, name)
			continue
		}
		if recipient == nil {
			misses = append(misses, name)
			continue
		}
		if _, err := db.AddMailboxEntry(system.ID, recipient.ID, mentionNotice+content); err != nil {
			// Delivery is best-effort per mention; keep going.
			logging.Errorf("mention delivery to %q failed: %v", name, err)
		}
	}
	return misses, nil
}

// Broadcast delivers a SYSTEM-authored message. With a nil recipient it goes
// to every identity except SYSTEM itself; with a recipient it goes to that
// identity only. SYSTEM is never a recipient under either path. Returns the
// number of mailbox entries written.
func Broadcast(message string, recipientID *int) (int, error) {
	system, err := db.GetIdentityByName(model.SystemName)
	if err != nil || system == nil {
		return 0, fmt.Errorf("%w: reserved identity %q missing", ErrStoreUnavailable, model.SystemName)
	}

	if recipientID != nil {
		recipient, err := db.GetIdentityByID(*recipientID)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if recipient == nil || recipient.IsSystem() {
			return 0, ErrUnknownRecipient
		}
		if _, err := db.AddMailboxEntry(system.ID, recipient.ID, message); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return 1, nil
	}

	identities, err := db.GetAllIdentities()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	sent := 0
	for _, ident := range identities {
		if ident.IsSystem() {
			continue
		}
		if _, err := db.AddMailboxEntry(system.ID, ident.ID, message); err != nil {
			return sent, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		sent++
	}
	return sent, nil
}
