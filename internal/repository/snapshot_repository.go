// This file implements the match snapshot store. Snapshots arrive from an
// external scoring feed and land in dynamically named containers, one per
// match. Container rows exist independently of snapshot rows so that
// "match never seen" and "match seen but no data yet" remain distinct
// failures on the read path.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/livescore-api-links/internal/model"
)

// containerPrefix marks every snapshot container name.
const containerPrefix = "match_"

// ContainerForMatch derives the snapshot container name for a match
// identifier: trim, lowercase, hyphens become underscores, and the fixed
// prefix is prepended. The transform is deterministic so the read path and
// the feed consumer always agree on the container a match maps to.
func ContainerForMatch(matchID string) string {
	id := strings.ToLower(strings.TrimSpace(matchID))
	return containerPrefix + strings.ReplaceAll(id, "-", "_")
}

// SnapshotRepo encapsulates all database queries for snapshot containers
// and their documents.
type SnapshotRepo struct {
	db *sql.DB // underlying connection pool
}

// NewSnapshotRepo constructs a SnapshotRepo with the provided DB handle.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// ContainerExists reports whether a snapshot container has been created
// for the given name.
func (r *SnapshotRepo) ContainerExists(ctx context.Context, container string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM snapshot_containers WHERE name = ? LIMIT 1", container).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Latest returns the most recently recorded snapshot in a container, or
// ErrNoSnapshot when the container holds no documents.
func (r *SnapshotRepo) Latest(ctx context.Context, container string) (*model.MatchSnapshot, error) {
	var (
		s   model.MatchSnapshot
		raw []byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, container, match_id, doc, recorded_at FROM match_snapshots WHERE container = ? ORDER BY recorded_at DESC, id DESC LIMIT 1",
		container).Scan(&s.ID, &s.Container, &s.MatchID, &raw, &s.RecordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Doc); err != nil {
			return nil, err
		}
	}
	if s.Doc == nil {
		s.Doc = map[string]interface{}{}
	}
	return &s, nil
}

// Insert stores a snapshot document delivered by the scoring feed,
// creating the container row on first sight of the match. Only the feed
// consumer calls this; the HTTP surface never writes snapshots.
func (r *SnapshotRepo) Insert(ctx context.Context, matchID string, doc map[string]interface{}, recordedAt time.Time) error {
	container := ContainerForMatch(matchID)
	if _, err := r.db.ExecContext(ctx,
		"INSERT IGNORE INTO snapshot_containers (name) VALUES (?)", container); err != nil {
		return err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO match_snapshots (container, match_id, doc, recorded_at) VALUES (?, ?, ?, ?)",
		container, strings.TrimSpace(matchID), raw, recordedAt)
	return err
}
