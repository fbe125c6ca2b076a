package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockLinkRepo(t *testing.T) (*LinkRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewLinkRepo(db), mock
}

func linkRow(token string, ownerID uint64, matchID, viewType string, enabled bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "token", "match_id", "view_type",
		"enabled", "access_count", "last_accessed_at", "created_at", "updated_at",
	}).AddRow(1, ownerID, token, matchID, viewType, enabled, 0, nil, now, now)
}

// The UPDATE itself carries the owner scope, so a foreign caller can never
// change the row even if it appears between lookup and statement.
func TestUpdateEnforcesOwnerInStatement(t *testing.T) {
	repo, mock := newMockLinkRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE api_links SET match_id = ?, view_type = ? WHERE token = ? AND owner_id = ?")).
		WithArgs("m-2", "FULL", "tok16", uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+linkColumns+" FROM api_links WHERE token = ? AND owner_id = ? LIMIT 1")).
		WithArgs("tok16", uint64(1)).
		WillReturnRows(linkRow("tok16", 1, "m-2", "FULL", true))

	l, err := repo.Update(context.Background(), "tok16", 1, " m-2 ", "FULL")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if l.MatchID != "m-2" {
		t.Fatalf("match_id = %q, want m-2", l.MatchID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleMissingLinkNotFound(t *testing.T) {
	repo, mock := newMockLinkRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE api_links SET enabled = NOT enabled WHERE token = ? AND owner_id = ?")).
		WithArgs("gone", uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// The reload sees no row, which must surface as the not-found sentinel.
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+linkColumns+" FROM api_links WHERE token = ? AND owner_id = ? LIMIT 1")).
		WithArgs("gone", uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "owner_id", "token", "match_id", "view_type",
			"enabled", "access_count", "last_accessed_at", "created_at", "updated_at",
		}))

	_, err := repo.Toggle(context.Background(), "gone", 1)
	if !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("Toggle error = %v, want ErrLinkNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
