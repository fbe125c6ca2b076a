// This file implements the link directory: persistence for the shareable
// API links that expose a match's live-score data under a view type. All
// owner-scoped queries filter by owner_id in SQL so that a foreign token
// behaves exactly like a missing one.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/livescore-api-links/internal/model"
)

// LinkRepo encapsulates all database queries related to API links.
type LinkRepo struct {
	db *sql.DB // underlying connection pool
}

// NewLinkRepo constructs a LinkRepo with the provided DB handle.
func NewLinkRepo(db *sql.DB) *LinkRepo {
	return &LinkRepo{db: db}
}

const linkColumns = "id, owner_id, token, match_id, view_type, enabled, access_count, last_accessed_at, created_at, updated_at"

func scanLink(row interface{ Scan(...interface{}) error }) (*model.Link, error) {
	var (
		l       model.Link
		lastAcc sql.NullTime
	)
	if err := row.Scan(&l.ID, &l.OwnerID, &l.Token, &l.MatchID, &l.ViewType,
		&l.Enabled, &l.AccessCount, &lastAcc, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if lastAcc.Valid {
		t := lastAcc.Time
		l.LastAccessedAt = &t
	}
	return &l, nil
}

// Create inserts a new link. The match identifier is stored trimmed of
// surrounding whitespace. A token collision maps to ErrTokenExists so the
// caller can regenerate and retry. On success the link's ID and timestamp
// fields are populated.
func (r *LinkRepo) Create(ctx context.Context, l *model.Link) error {
	l.MatchID = strings.TrimSpace(l.MatchID)
	const qInsert = "INSERT INTO api_links (owner_id, token, match_id, view_type, enabled) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, l.OwnerID, l.Token, l.MatchID, l.ViewType, l.Enabled)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrTokenExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	// Follow-up SELECT to populate default timestamp and counter fields.
	const qSelect = "SELECT access_count, created_at, updated_at FROM api_links WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, l.ID).Scan(&l.AccessCount, &l.CreatedAt, &l.UpdatedAt)
}

// TokenExists reports whether any link already uses the given token.
// The link manager consults this before inserting to keep the bounded
// collision-retry loop cheap.
func (r *LinkRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM api_links WHERE token = ? LIMIT 1", token).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByOwner returns all links belonging to an owner ordered by id.
func (r *LinkRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Link, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+linkColumns+" FROM api_links WHERE owner_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*model.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// FindByTokenAndOwner fetches a link by token but only if it belongs to
// the given owner. Foreign and missing tokens both return ErrLinkNotFound.
func (r *LinkRepo) FindByTokenAndOwner(ctx context.Context, token string, ownerID uint64) (*model.Link, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM api_links WHERE token = ? AND owner_id = ? LIMIT 1", token, ownerID)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	return l, err
}

// FindActiveByToken fetches an enabled link by exact token match. Disabled
// links and unknown tokens are indistinguishable: both return
// ErrLinkNotFound.
func (r *LinkRepo) FindActiveByToken(ctx context.Context, token string) (*model.Link, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM api_links WHERE token = ? AND enabled = 1 LIMIT 1", token)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	return l, err
}

// Update changes a link's match identifier and view type. Ownership is
// enforced inside the UPDATE itself, so a link deleted or reassigned
// between request and statement can never be mutated. The row is reloaded
// afterwards: MySQL reports zero affected rows when the new values equal
// the old ones, so existence is decided by the reload, not RowsAffected.
func (r *LinkRepo) Update(ctx context.Context, token string, ownerID uint64, matchID, viewType string) (*model.Link, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE api_links SET match_id = ?, view_type = ? WHERE token = ? AND owner_id = ?",
		strings.TrimSpace(matchID), viewType, token, ownerID)
	if err != nil {
		return nil, err
	}
	return r.FindByTokenAndOwner(ctx, token, ownerID)
}

// Toggle flips the enabled flag in a single owner-scoped statement and
// returns the resulting link. Foreign and missing tokens return
// ErrLinkNotFound.
func (r *LinkRepo) Toggle(ctx context.Context, token string, ownerID uint64) (*model.Link, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE api_links SET enabled = NOT enabled WHERE token = ? AND owner_id = ?",
		token, ownerID)
	if err != nil {
		return nil, err
	}
	return r.FindByTokenAndOwner(ctx, token, ownerID)
}

// SetEnabled sets the enabled flag to an explicit value, owner-scoped like
// Update and Toggle.
func (r *LinkRepo) SetEnabled(ctx context.Context, token string, ownerID uint64, enabled bool) (*model.Link, error) {
	_, err := r.db.ExecContext(ctx,
		"UPDATE api_links SET enabled = ? WHERE token = ? AND owner_id = ?",
		enabled, token, ownerID)
	if err != nil {
		return nil, err
	}
	return r.FindByTokenAndOwner(ctx, token, ownerID)
}

// Delete removes a link owned by the given user. Deleting a foreign or
// missing link returns ErrLinkNotFound.
func (r *LinkRepo) Delete(ctx context.Context, token string, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM api_links WHERE token = ? AND owner_id = ?", token, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// RecordAccess bumps the access counter and stamps the last access time in
// a single UPDATE. The statement is atomic at the database, so concurrent
// redemptions of the same token each count: the final counter equals the
// number of accepted accesses.
func (r *LinkRepo) RecordAccess(ctx context.Context, id uint64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE api_links SET access_count = access_count + 1, last_accessed_at = ? WHERE id = ?",
		at, id)
	return err
}
