// This file implements the public read paths: token resolution (the only
// access route for link consumers) and the direct livescore reads that
// bypass the link directory entirely and reuse the projector alone.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/livescore-api-links/internal/model"
	"github.com/iliyamo/livescore-api-links/internal/queue"
	"github.com/iliyamo/livescore-api-links/internal/repository"
	"github.com/iliyamo/livescore-api-links/internal/view"
)

// SnapshotStore is the read capability of the match snapshot store. The
// MySQL SnapshotRepo satisfies it; tests substitute an in-memory fake.
type SnapshotStore interface {
	ContainerExists(ctx context.Context, container string) (bool, error)
	Latest(ctx context.Context, container string) (*model.MatchSnapshot, error)
}

// PublicHandler bundles dependencies for the unauthenticated read
// endpoints. Publish, when set, is called after each successful token
// resolution; failures there are logged and never affect the response.
type PublicHandler struct {
	Links     LinkDirectory
	Snapshots SnapshotStore
	Publish   func(ctx context.Context, ev queue.LinkAccessedEvent) error
}

func NewPublicHandler(links LinkDirectory, snaps SnapshotStore) *PublicHandler {
	return &PublicHandler{Links: links, Snapshots: snaps}
}

// Resolve handles GET /api/public/:token. The steps are ordered so that
// telemetry counts every redemption of a valid enabled token, whether or
// not match data turns out to exist:
//
//  1. enabled-link lookup (missing and disabled are indistinguishable)
//  2. access counter + last-access stamp, persisted now
//  3. container existence check
//  4. newest snapshot fetch
//  5. projection under the link's view type
func (h *PublicHandler) Resolve(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Links.FindActiveByToken(ctx, c.Param("token"))
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return respondError(c, http.StatusNotFound, "link not found")
		}
		return respondError(c, http.StatusInternalServerError, "resolve failed")
	}

	now := time.Now().UTC()
	if err := h.Links.RecordAccess(ctx, l.ID, now); err != nil {
		return respondError(c, http.StatusInternalServerError, "resolve failed")
	}

	container := repository.ContainerForMatch(l.MatchID)
	exists, err := h.Snapshots.ContainerExists(ctx, container)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "resolve failed")
	}
	if !exists {
		return respondError(c, http.StatusNotFound, "match not found")
	}

	snap, err := h.Snapshots.Latest(ctx, container)
	if err != nil {
		if errors.Is(err, repository.ErrNoSnapshot) {
			return respondError(c, http.StatusNotFound, "no data for match")
		}
		return respondError(c, http.StatusInternalServerError, "resolve failed")
	}

	if h.Publish != nil {
		ev := queue.LinkAccessedEvent{
			Token:       l.Token,
			MatchID:     l.MatchID,
			ViewType:    l.ViewType,
			AccessCount: l.AccessCount + 1,
			AccessedAt:  now.Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			c.Logger().Warnf("publish link.accessed failed: %v", err)
		}
	}

	return respondData(c, http.StatusOK, projectedPayload(snap, l.ViewType))
}

// Livescore handles GET /api/livescore/:matchId. The type query parameter
// selects the filtered view: points_table or alive_status.
func (h *PublicHandler) Livescore(c echo.Context) error {
	var viewType string
	switch c.QueryParam("type") {
	case "points_table":
		viewType = model.ViewTypePointsTable
	case "alive_status":
		viewType = model.ViewTypeAliveStatus
	default:
		return respondError(c, http.StatusBadRequest, "type must be points_table or alive_status")
	}
	return h.readMatch(c, c.Param("matchId"), viewType)
}

// LivescoreFull handles GET /api/livescore/:matchId/full: the whole
// snapshot, unfiltered.
func (h *PublicHandler) LivescoreFull(c echo.Context) error {
	return h.readMatch(c, c.Param("matchId"), model.ViewTypeFull)
}

// readMatch is the directory-free read path shared by the livescore
// endpoints. It performs no telemetry: only token resolutions count.
func (h *PublicHandler) readMatch(c echo.Context, matchID, viewType string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	container := repository.ContainerForMatch(matchID)
	exists, err := h.Snapshots.ContainerExists(ctx, container)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "read failed")
	}
	if !exists {
		return respondError(c, http.StatusNotFound, "match not found")
	}

	snap, err := h.Snapshots.Latest(ctx, container)
	if err != nil {
		if errors.Is(err, repository.ErrNoSnapshot) {
			return respondError(c, http.StatusNotFound, "no data for match")
		}
		return respondError(c, http.StatusInternalServerError, "read failed")
	}
	return respondData(c, http.StatusOK, projectedPayload(snap, viewType))
}

// projectedPayload merges the projection with the snapshot's own match
// identifier and timestamp. The snapshot is authoritative for what was
// actually returned, so its fields win over anything in the document.
func projectedPayload(snap *model.MatchSnapshot, viewType string) map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range view.Project(snap, viewType) {
		out[k] = v
	}
	out["match_id"] = snap.MatchID
	out["timestamp"] = snap.RecordedAt
	return out
}
