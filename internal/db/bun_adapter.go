// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/retroterm/gobbs/internal/model"
)

// IdentityModel maps the `identities` table for Bun queries.
type IdentityModel struct {
	bun.BaseModel `bun:"table:identities"`
	ID            int        `bun:"id,pk,autoincrement"`
	Name          string     `bun:"name"`
	Credential    string     `bun:"credential"`
	IsAdmin       bool       `bun:"is_admin"`
	LastLogin     *time.Time `bun:"last_login"`
}

// PostModel maps the `posts` table.
type PostModel struct {
	bun.BaseModel `bun:"table:posts"`
	ID            int       `bun:"id,pk,autoincrement"`
	AuthorID      int       `bun:"author_id"`
	Subboard      string    `bun:"subboard"`
	Content       string    `bun:"content"`
	CreatedAt     time.Time `bun:"created_at"`
}

// MailboxModel maps the `mailbox` table.
type MailboxModel struct {
	bun.BaseModel `bun:"table:mailbox"`
	ID            int       `bun:"id,pk,autoincrement"`
	SenderID      int       `bun:"sender_id"`
	RecipientID   int       `bun:"recipient_id"`
	Body          string    `bun:"body"`
	CreatedAt     time.Time `bun:"created_at"`
}

// --- Mapping helpers (centralized conversions) ---

func identityModelToModel(im IdentityModel) model.Identity {
	return model.Identity{
		ID:        im.ID,
		Name:      im.Name,
		IsAdmin:   im.IsAdmin,
		LastLogin: im.LastLogin,
	}
}

// RegisterIdentityBun inserts a new identity. The "first registrant becomes
// admin" decision and the insert happen in one transaction so two concurrent
// registrations can never both claim the admin flag.
func RegisterIdentityBun(bdb *bun.DB, name, credential string) (*model.Identity, error) {
	ctx := context.Background()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	count, err := tx.NewSelect().
		Model((*IdentityModel)(nil)).
		Where("name != ?", model.SystemName).
		Count(ctx)
	if err != nil {
		return nil, err
	}

	im := &IdentityModel{
		Name:       name,
		Credential: credential,
		IsAdmin:    count == 0,
	}
	if _, err := tx.NewInsert().Model(im).
		Column("name", "credential", "is_admin").
		Returning("id").
		Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := identityModelToModel(*im)
	return &out, nil
}

// GetIdentityByNameBun returns the identity with the exact given name, or
// (nil, nil) when absent. Name matching is case-sensitive; the MySQL schema
// uses a binary collation to keep that true across backends.
func GetIdentityByNameBun(bdb *bun.DB, name string) (*model.Identity, error) {
	ctx := context.Background()

	var im IdentityModel
	err := bdb.NewSelect().Model(&im).Where("name = ?", name).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	out := identityModelToModel(im)
	return &out, nil
}

// GetIdentityByIDBun returns the identity with the given ID, or (nil, nil).
func GetIdentityByIDBun(bdb *bun.DB, id int) (*model.Identity, error) {
	ctx := context.Background()

	var im IdentityModel
	err := bdb.NewSelect().Model(&im).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	out := identityModelToModel(im)
	return &out, nil
}

// GetAllIdentitiesBun returns all identities ordered by id.
func GetAllIdentitiesBun(bdb *bun.DB) ([]model.Identity, error) {
	ctx := context.Background()

	var ims []IdentityModel
	if err := bdb.NewSelect().Model(&ims).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Identity, 0, len(ims))
	for _, im := range ims {
		out = append(out, identityModelToModel(im))
	}
	return out, nil
}

// GetCredentialBun returns the stored credential for a name and whether the
// identity exists at all.
func GetCredentialBun(bdb *bun.DB, name string) (string, bool, error) {
	ctx := context.Background()

	var im IdentityModel
	err := bdb.NewSelect().Model(&im).
		Column("credential").
		Where("name = ?", name).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return im.Credential, true, nil
}

// TouchLastLoginBun sets last_login to the current UTC time and returns the
// previous value. Read and update share one transaction so the "previous
// login" shown to the user is exact.
func TouchLastLoginBun(bdb *bun.DB, id int) (*time.Time, error) {
	ctx := context.Background()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var im IdentityModel
	if err := tx.NewSelect().Model(&im).Column("last_login").Where("id = ?", id).Limit(1).Scan(ctx); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("identity %d not found", id)
		}
		return nil, err
	}
	prev := im.LastLogin

	now := time.Now().UTC()
	if _, err := tx.NewUpdate().Model((*IdentityModel)(nil)).
		Set("last_login = ?", now).
		Where("id = ?", id).
		Exec(ctx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return prev, nil
}

// EnsureSystemIdentityBun creates the SYSTEM identity with an empty
// credential if it does not exist. Idempotent; a concurrent creator losing
// the race is not an error.
func EnsureSystemIdentityBun(bdb *bun.DB) error {
	ctx := context.Background()

	exists, err := bdb.NewSelect().
		Model((*IdentityModel)(nil)).
		Where("name = ?", model.SystemName).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	im := &IdentityModel{Name: model.SystemName, Credential: ""}
	_, err = bdb.NewInsert().Model(im).
		Column("name", "credential", "is_admin").
		Exec(ctx)
	if err := MapDBError(err); err != nil && err != ErrDuplicate {
		return err
	}
	return nil
}

// AddPostBun appends a post with a server-assigned UTC timestamp.
func AddPostBun(bdb *bun.DB, authorID int, subboard, content string) (*model.Post, error) {
	ctx := context.Background()

	pm := &PostModel{
		AuthorID:  authorID,
		Subboard:  subboard,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := bdb.NewInsert().Model(pm).Returning("id").Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	return &model.Post{
		ID:        pm.ID,
		AuthorID:  pm.AuthorID,
		Subboard:  pm.Subboard,
		Content:   pm.Content,
		CreatedAt: pm.CreatedAt,
	}, nil
}

// postRow is a join row of posts with the author's name.
type postRow struct {
	ID         int       `bun:"id"`
	AuthorID   int       `bun:"author_id"`
	AuthorName string    `bun:"author_name"`
	Subboard   string    `bun:"subboard"`
	Content    string    `bun:"content"`
	CreatedAt  time.Time `bun:"created_at"`
}

// GetPostsForSubboardBun returns a sub-board's posts most recent first.
// Unknown sub-boards yield an empty slice; any string is a valid sub-board.
func GetPostsForSubboardBun(bdb *bun.DB, subboard string) ([]model.Post, error) {
	ctx := context.Background()

	var rows []postRow
	err := bdb.NewSelect().
		TableExpr("posts AS p").
		Join("JOIN identities AS i ON i.id = p.author_id").
		ColumnExpr("p.id, p.author_id, p.subboard, p.content, p.created_at").
		ColumnExpr("i.name AS author_name").
		Where("p.subboard = ?", subboard).
		OrderExpr("p.created_at DESC, p.id DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Post{
			ID:         r.ID,
			AuthorID:   r.AuthorID,
			AuthorName: r.AuthorName,
			Subboard:   r.Subboard,
			Content:    r.Content,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}

// AddMailboxEntryBun stores a private message. Both IDs must already be
// resolved; name resolution lives a layer up.
func AddMailboxEntryBun(bdb *bun.DB, senderID, recipientID int, body string) (*model.MailboxEntry, error) {
	ctx := context.Background()

	mm := &MailboxModel{
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := bdb.NewInsert().Model(mm).Returning("id").Exec(ctx); err != nil {
		return nil, MapDBError(err)
	}
	return &model.MailboxEntry{
		ID:          mm.ID,
		SenderID:    mm.SenderID,
		RecipientID: mm.RecipientID,
		Body:        mm.Body,
		CreatedAt:   mm.CreatedAt,
	}, nil
}

// mailRow is a join row of mailbox entries with the sender's name.
type mailRow struct {
	ID          int       `bun:"id"`
	SenderID    int       `bun:"sender_id"`
	SenderName  string    `bun:"sender_name"`
	RecipientID int       `bun:"recipient_id"`
	Body        string    `bun:"body"`
	CreatedAt   time.Time `bun:"created_at"`
}

// GetMailboxEntriesBun returns all mail for a recipient in insertion order.
func GetMailboxEntriesBun(bdb *bun.DB, recipientID int) ([]model.MailboxEntry, error) {
	ctx := context.Background()

	var rows []mailRow
	err := bdb.NewSelect().
		TableExpr("mailbox AS m").
		Join("JOIN identities AS i ON i.id = m.sender_id").
		ColumnExpr("m.id, m.sender_id, m.recipient_id, m.body, m.created_at").
		ColumnExpr("i.name AS sender_name").
		Where("m.recipient_id = ?", recipientID).
		OrderExpr("m.id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make([]model.MailboxEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.MailboxEntry{
			ID:          r.ID,
			SenderID:    r.SenderID,
			SenderName:  r.SenderName,
			RecipientID: r.RecipientID,
			Body:        r.Body,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out, nil
}

// ExportDataForBackupBun snapshots the full store inside one transaction.
func ExportDataForBackupBun(bdb *bun.DB) (*model.BackupData, error) {
	ctx := context.Background()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	backup := &model.BackupData{}

	var ims []IdentityModel
	if err := tx.NewSelect().Model(&ims).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	for _, im := range ims {
		backup.Identities = append(backup.Identities, model.BackupIdentity{
			ID:         im.ID,
			Name:       im.Name,
			Credential: im.Credential,
			IsAdmin:    im.IsAdmin,
			LastLogin:  im.LastLogin,
		})
	}

	var pms []PostModel
	if err := tx.NewSelect().Model(&pms).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	for _, pm := range pms {
		backup.Posts = append(backup.Posts, model.BackupPost{
			ID:        pm.ID,
			AuthorID:  pm.AuthorID,
			Subboard:  pm.Subboard,
			Content:   pm.Content,
			CreatedAt: pm.CreatedAt,
		})
	}

	var mms []MailboxModel
	if err := tx.NewSelect().Model(&mms).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	for _, mm := range mms {
		backup.Mailbox = append(backup.Mailbox, model.BackupMail{
			ID:          mm.ID,
			SenderID:    mm.SenderID,
			RecipientID: mm.RecipientID,
			Body:        mm.Body,
			CreatedAt:   mm.CreatedAt,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return backup, nil
}

// ImportDataFromBackupBun restores a snapshot with a full wipe-and-replace
// inside a single transaction.
func ImportDataFromBackupBun(bdb *bun.DB, backup *model.BackupData) error {
	ctx := context.Background()

	tx, err := bdb.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Children first to satisfy foreign keys.
	for _, table := range []any{(*MailboxModel)(nil), (*PostModel)(nil), (*IdentityModel)(nil)} {
		if _, err := tx.NewDelete().Model(table).Where("1 = 1").Exec(ctx); err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}

	for _, bi := range backup.Identities {
		im := &IdentityModel{
			ID:         bi.ID,
			Name:       bi.Name,
			Credential: bi.Credential,
			IsAdmin:    bi.IsAdmin,
			LastLogin:  bi.LastLogin,
		}
		if _, err := tx.NewInsert().Model(im).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore identity %q: %w", bi.Name, err)
		}
	}
	for _, bp := range backup.Posts {
		pm := &PostModel{
			ID:        bp.ID,
			AuthorID:  bp.AuthorID,
			Subboard:  bp.Subboard,
			Content:   bp.Content,
			CreatedAt: bp.CreatedAt,
		}
		if _, err := tx.NewInsert().Model(pm).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore post %d: %w", bp.ID, err)
		}
	}
	for _, bm := range backup.Mailbox {
		mm := &MailboxModel{
			ID:          bm.ID,
			SenderID:    bm.SenderID,
			RecipientID: bm.RecipientID,
			Body:        bm.Body,
			CreatedAt:   bm.CreatedAt,
		}
		if _, err := tx.NewInsert().Model(mm).Exec(ctx); err != nil {
			return fmt.Errorf("failed to restore mailbox entry %d: %w", bm.ID, err)
		}
	}

	return tx.Commit()
}
