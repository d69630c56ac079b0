package db

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/retroterm/gobbs/internal/model"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) string {
	t.Helper()
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	return dsn
}

func tableColumns(t *testing.T, dsn, table string) map[string]bool {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB for inspection: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	rows, err := sqlDB.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to query table info for %s: %v", table, err)
	}
	defer func() { _ = rows.Close() }()

	cols := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name string
		var typ string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("failed scanning pragma row: %v", err)
		}
		cols[name] = true
	}
	return cols
}

func TestInitDB_Migrations_Applied(t *testing.T) {
	dsn := newTestDB(t)

	// The later migrations add is_admin and last_login on top of the base
	// schema; all three versions must have run.
	cols := tableColumns(t, dsn, "identities")
	for _, want := range []string{"id", "name", "credential", "is_admin", "last_login"} {
		if !cols[want] {
			t.Fatalf("expected identities.%s column to exist after migrations", want)
		}
	}
	if cols := tableColumns(t, dsn, "schema_migrations"); !cols["applied_at"] {
		t.Fatalf("expected schema_migrations.applied_at column to exist")
	}
}

func TestInitDB_CreatesSystemIdentity(t *testing.T) {
	_ = newTestDB(t)

	system, err := GetIdentityByName(model.SystemName)
	if err != nil {
		t.Fatalf("unexpected error looking up SYSTEM: %v", err)
	}
	if system == nil {
		t.Fatalf("expected SYSTEM identity to exist after InitDB")
	}

	// SYSTEM has no credential, so it must never be able to authenticate.
	cred, ok, err := GetCredential(model.SystemName)
	if err != nil || !ok {
		t.Fatalf("expected SYSTEM credential row, got ok=%v err=%v", ok, err)
	}
	if cred != "" {
		t.Fatalf("expected SYSTEM credential to be empty, got %q", cred)
	}
}

func TestRegisterIdentity_FirstRegistrantIsAdmin(t *testing.T) {
	_ = newTestDB(t)

	// SYSTEM exists already but is excluded from the admin count.
	alice, err := RegisterIdentity("alice", "hash-a")
	if err != nil {
		t.Fatalf("unexpected error registering alice: %v", err)
	}
	if !alice.IsAdmin {
		t.Fatalf("expected first registered identity to be admin")
	}

	bob, err := RegisterIdentity("bob", "hash-b")
	if err != nil {
		t.Fatalf("unexpected error registering bob: %v", err)
	}
	if bob.IsAdmin {
		t.Fatalf("expected second registered identity not to be admin")
	}
}

func TestRegisterIdentity_Duplicate(t *testing.T) {
	_ = newTestDB(t)

	if _, err := RegisterIdentity("alice", "hash-a"); err != nil {
		t.Fatalf("unexpected error on first register: %v", err)
	}
	_, err := RegisterIdentity("alice", "hash-other")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on duplicate register, got: %v", err)
	}
}

func TestGetIdentityByName_MissingAndCaseSensitive(t *testing.T) {
	_ = newTestDB(t)

	if _, err := RegisterIdentity("Alice", "hash"); err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}

	ident, err := GetIdentityByName("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident != nil {
		t.Fatalf("expected nil for unknown name, got %+v", ident)
	}

	// Exact-match lookups: "alice" must not find "Alice".
	ident, err = GetIdentityByName("alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident != nil {
		t.Fatalf("expected case-sensitive lookup to miss, got %+v", ident)
	}
}

func TestTouchLastLogin_ReturnsPrevious(t *testing.T) {
	_ = newTestDB(t)

	alice, err := RegisterIdentity("alice", "hash")
	if err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}

	prev, err := TouchLastLogin(alice.ID)
	if err != nil {
		t.Fatalf("unexpected error on first touch: %v", err)
	}
	if prev != nil {
		t.Fatalf("expected nil previous last_login on first touch, got %v", prev)
	}

	prev, err = TouchLastLogin(alice.ID)
	if err != nil {
		t.Fatalf("unexpected error on second touch: %v", err)
	}
	if prev == nil {
		t.Fatalf("expected non-nil previous last_login on second touch")
	}
}

func TestEnsureSystemIdentity_Idempotent(t *testing.T) {
	_ = newTestDB(t)

	if err := EnsureSystemIdentity(); err != nil {
		t.Fatalf("unexpected error on repeated EnsureSystemIdentity: %v", err)
	}

	idents, err := GetAllIdentities()
	if err != nil {
		t.Fatalf("unexpected error listing identities: %v", err)
	}
	count := 0
	for _, i := range idents {
		if i.Name == model.SystemName {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one SYSTEM identity, got %d", count)
	}
}

func TestPosts_NewestFirstAndLazySubboards(t *testing.T) {
	_ = newTestDB(t)

	alice, err := RegisterIdentity("alice", "hash")
	if err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}

	// Reading a sub-board nobody posted to is an empty result, not an error.
	posts, err := GetPostsForSubboard("ghosts")
	if err != nil {
		t.Fatalf("unexpected error reading empty sub-board: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty sub-board, got %d posts", len(posts))
	}

	for _, content := range []string{"first", "second", "third"} {
		if _, err := AddPost(alice.ID, "main", content); err != nil {
			t.Fatalf("unexpected error posting %q: %v", content, err)
		}
	}
	if _, err := AddPost(alice.ID, "other", "elsewhere"); err != nil {
		t.Fatalf("unexpected error posting to other sub-board: %v", err)
	}

	posts, err = GetPostsForSubboard("main")
	if err != nil {
		t.Fatalf("unexpected error reading sub-board: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts on main, got %d", len(posts))
	}
	if posts[0].Content != "third" || posts[2].Content != "first" {
		t.Fatalf("expected newest-first order, got %q .. %q", posts[0].Content, posts[2].Content)
	}
	if posts[0].AuthorName != "alice" {
		t.Fatalf("expected author name to be joined in, got %q", posts[0].AuthorName)
	}
}

func TestMailbox_InsertionOrderAndNonDestructiveRead(t *testing.T) {
	_ = newTestDB(t)

	alice, err := RegisterIdentity("alice", "hash")
	if err != nil {
		t.Fatalf("unexpected error registering alice: %v", err)
	}
	bob, err := RegisterIdentity("bob", "hash")
	if err != nil {
		t.Fatalf("unexpected error registering bob: %v", err)
	}

	for _, body := range []string{"one", "two", "three"} {
		if _, err := AddMailboxEntry(alice.ID, bob.ID, body); err != nil {
			t.Fatalf("unexpected error sending %q: %v", body, err)
		}
	}

	entries, err := GetMailboxEntries(bob.ID)
	if err != nil {
		t.Fatalf("unexpected error reading mailbox: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 mailbox entries, got %d", len(entries))
	}
	if entries[0].Body != "one" || entries[2].Body != "three" {
		t.Fatalf("expected insertion order, got %q .. %q", entries[0].Body, entries[2].Body)
	}
	if entries[0].SenderName != "alice" {
		t.Fatalf("expected sender name to be joined in, got %q", entries[0].SenderName)
	}

	// Reading must not consume anything.
	again, err := GetMailboxEntries(bob.ID)
	if err != nil {
		t.Fatalf("unexpected error re-reading mailbox: %v", err)
	}
	if len(again) != 3 {
		t.Fatalf("expected mailbox read to be non-destructive, got %d entries on re-read", len(again))
	}

	// Sender's own mailbox stays empty.
	sent, err := GetMailboxEntries(alice.ID)
	if err != nil {
		t.Fatalf("unexpected error reading alice's mailbox: %v", err)
	}
	if len(sent) != 0 {
		t.Fatalf("expected alice's mailbox empty, got %d entries", len(sent))
	}
}

func TestBackupRoundTrip(t *testing.T) {
	_ = newTestDB(t)

	alice, err := RegisterIdentity("alice", "hash")
	if err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}
	if _, err := AddPost(alice.ID, "main", "hello"); err != nil {
		t.Fatalf("unexpected error posting: %v", err)
	}
	if _, err := AddMailboxEntry(alice.ID, alice.ID, "note to self"); err != nil {
		t.Fatalf("unexpected error sending: %v", err)
	}

	backup, err := ExportDataForBackup()
	if err != nil {
		t.Fatalf("unexpected error exporting: %v", err)
	}
	if len(backup.Identities) != 2 { // SYSTEM + alice
		t.Fatalf("expected 2 identities in backup, got %d", len(backup.Identities))
	}

	// Wipe by restoring, then verify everything came back.
	if err := ImportDataFromBackup(backup); err != nil {
		t.Fatalf("unexpected error importing: %v", err)
	}

	restored, err := GetIdentityByName("alice")
	if err != nil || restored == nil {
		t.Fatalf("expected alice restored, got ident=%v err=%v", restored, err)
	}
	if restored.ID != alice.ID {
		t.Fatalf("expected alice to keep id %d, got %d", alice.ID, restored.ID)
	}
	posts, err := GetPostsForSubboard("main")
	if err != nil || len(posts) != 1 {
		t.Fatalf("expected 1 restored post, got %d (err=%v)", len(posts), err)
	}
	mail, err := GetMailboxEntries(alice.ID)
	if err != nil || len(mail) != 1 {
		t.Fatalf("expected 1 restored mailbox entry, got %d (err=%v)", len(mail), err)
	}
}
