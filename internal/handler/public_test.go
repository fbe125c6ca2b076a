package handler

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func newPublicContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func resolveToken(t *testing.T, h *PublicHandler, token string) *httptest.ResponseRecorder {
	t.Helper()
	c, rec := newPublicContext(t, "/api/public/"+token)
	c.SetParamNames("token")
	c.SetParamValues(token)
	if err := h.Resolve(c); err != nil {
		t.Fatalf("resolve handler error: %v", err)
	}
	return rec
}

func TestResolveProjectsPointsTable(t *testing.T) {
	dir := newFakeDirectory()
	snaps := newFakeSnapshots()
	lh := NewLinkHandler(dir)
	h := NewPublicHandler(dir, snaps)

	token := createLink(t, lh, 1, "cb5ffa72-1a2b", "POINTS_TABLE")
	snaps.add("cb5ffa72-1a2b", map[string]interface{}{
		"standings":  []interface{}{map[string]interface{}{"team": "A", "pts": float64(10)}},
		"teamStatus": []interface{}{map[string]interface{}{"team": "A", "alive": true}},
		"summary":    map[string]interface{}{"over": float64(12)},
	}, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	rec := resolveToken(t, h, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env["success"] != true {
		t.Fatal("success = false, want true")
	}
	data := env["data"].(map[string]interface{})

	wantStandings := []interface{}{map[string]interface{}{"team": "A", "pts": float64(10)}}
	if !reflect.DeepEqual(data["standings"], wantStandings) {
		t.Fatalf("standings = %#v, want %#v", data["standings"], wantStandings)
	}
	if !reflect.DeepEqual(data["summary"], map[string]interface{}{"over": float64(12)}) {
		t.Fatalf("summary = %#v", data["summary"])
	}
	// POINTS_TABLE must not leak the team status structure.
	if _, ok := data["teamStatus"]; ok {
		t.Fatal("points table view leaked teamStatus")
	}
	if data["match_id"] != "cb5ffa72-1a2b" {
		t.Fatalf("match_id = %v", data["match_id"])
	}
	if _, ok := data["timestamp"]; !ok {
		t.Fatal("missing snapshot timestamp")
	}

	// Telemetry reflects the successful redemption.
	stored := dir.links[token]
	if stored.AccessCount != 1 || stored.LastAccessedAt == nil {
		t.Fatalf("telemetry not recorded: count=%d last=%v", stored.AccessCount, stored.LastAccessedAt)
	}
}

func TestResolveDisabledAndMissingAreIndistinguishable(t *testing.T) {
	dir := newFakeDirectory()
	snaps := newFakeSnapshots()
	lh := NewLinkHandler(dir)
	h := NewPublicHandler(dir, snaps)

	token := createLink(t, lh, 1, "m-1", "FULL")
	l := dir.links[token]
	l.Enabled = false
	dir.links[token] = l

	recDisabled := resolveToken(t, h, token)
	recMissing := resolveToken(t, h, "nosuchtoken12345")

	if recDisabled.Code != http.StatusNotFound || recMissing.Code != http.StatusNotFound {
		t.Fatalf("got %d/%d, want 404/404", recDisabled.Code, recMissing.Code)
	}
	if recDisabled.Body.String() != recMissing.Body.String() {
		t.Fatalf("response shapes differ:\n disabled: %s\n missing:  %s",
			recDisabled.Body.String(), recMissing.Body.String())
	}
	// A rejected redemption must not count as an access.
	if dir.links[token].AccessCount != 0 {
		t.Fatalf("disabled link access count = %d, want 0", dir.links[token].AccessCount)
	}
}

func TestResolveCountsAccessEvenWithoutMatchData(t *testing.T) {
	dir := newFakeDirectory()
	snaps := newFakeSnapshots() // no containers at all
	lh := NewLinkHandler(dir)
	h := NewPublicHandler(dir, snaps)

	token := createLink(t, lh, 1, "ghost-match", "FULL")

	rec := resolveToken(t, h, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
	stored := dir.links[token]
	if stored.AccessCount != 1 {
		t.Fatalf("access count = %d, want 1 (token accepted counts as access)", stored.AccessCount)
	}
	if stored.LastAccessedAt == nil {
		t.Fatal("last_accessed_at not stamped")
	}
}

func TestResolveEmptyContainerIsNoData(t *testing.T) {
	dir := newFakeDirectory()
	snaps := newFakeSnapshots()
	lh := NewLinkHandler(dir)
	h := NewPublicHandler(dir, snaps)

	token := createLink(t, lh, 1, "m-1", "FULL")
	snaps.add("m-1", nil, time.Time{}) // container exists, no documents

	rec := resolveToken(t, h, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
	if dir.links[token].AccessCount != 1 {
		t.Fatalf("access count = %d, want 1", dir.links[token].AccessCount)
	}
}

func TestResolveTrimmedMatchIDRoundTrip(t *testing.T) {
	dir := newFakeDirectory()
	snaps := newFakeSnapshots()
	lh := NewLinkHandler(dir)
	h := NewPublicHandler(dir, snaps)

	// Created with surrounding whitespace; the feed knows the match as "m-1".
	token := createLink(t, lh, 1, " m-1 ", "FULL")
	snaps.add("m-1", map[string]interface{}{"summary": map[string]interface{}{}}, time.Now().UTC())

	rec := resolveToken(t, h, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
}

func TestLivescoreTypeValidation(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.add("m-1", map[string]interface{}{"summary": map[string]interface{}{}}, time.Now().UTC())
	h := NewPublicHandler(newFakeDirectory(), snaps)

	tests := []struct {
		query      string
		wantStatus int
	}{
		{"?type=points_table", http.StatusOK},
		{"?type=alive_status", http.StatusOK},
		{"?type=full", http.StatusBadRequest},
		{"", http.StatusBadRequest},
	}
	for _, tt := range tests {
		c, rec := newPublicContext(t, "/api/livescore/m-1"+tt.query)
		c.SetParamNames("matchId")
		c.SetParamValues("m-1")
		if err := h.Livescore(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != tt.wantStatus {
			t.Fatalf("query %q: got status %d, want %d", tt.query, rec.Code, tt.wantStatus)
		}
	}
}

func TestLivescoreFullBypassesDirectory(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.add("m-1", map[string]interface{}{
		"standings": []interface{}{},
		"extra":     "kept",
	}, time.Now().UTC())
	h := NewPublicHandler(newFakeDirectory(), snaps) // empty directory on purpose

	c, rec := newPublicContext(t, "/api/livescore/m-1/full")
	c.SetParamNames("matchId")
	c.SetParamValues("m-1")
	if err := h.LivescoreFull(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	data := env["data"].(map[string]interface{})
	if data["extra"] != "kept" {
		t.Fatal("full view filtered the document")
	}

	// Unknown match stays a 404 on the direct path too.
	c, rec = newPublicContext(t, "/api/livescore/nope/full")
	c.SetParamNames("matchId")
	c.SetParamValues("nope")
	if err := h.LivescoreFull(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}
