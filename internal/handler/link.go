// This file implements the authenticated link manager: the owner-facing
// CRUD surface over the link directory. Every operation resolves the
// caller's identity first and scopes queries by owner, so a foreign token
// is reported as not found rather than forbidden.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/livescore-api-links/internal/model"
	"github.com/iliyamo/livescore-api-links/internal/repository"
	"github.com/iliyamo/livescore-api-links/internal/utils"
)

// tokenGenAttempts bounds the collision-retry loop for link token
// generation. Collisions are astronomically unlikely at 16 alphanumeric
// characters; the cap only bounds worst-case latency.
const tokenGenAttempts = 10

// LinkDirectory is the storage capability the link manager and the public
// resolver need. The MySQL LinkRepo satisfies it; tests substitute an
// in-memory fake.
type LinkDirectory interface {
	Create(ctx context.Context, l *model.Link) error
	TokenExists(ctx context.Context, token string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Link, error)
	FindActiveByToken(ctx context.Context, token string) (*model.Link, error)
	Update(ctx context.Context, token string, ownerID uint64, matchID, viewType string) (*model.Link, error)
	Toggle(ctx context.Context, token string, ownerID uint64) (*model.Link, error)
	SetEnabled(ctx context.Context, token string, ownerID uint64, enabled bool) (*model.Link, error)
	Delete(ctx context.Context, token string, ownerID uint64) error
	RecordAccess(ctx context.Context, id uint64, at time.Time) error
}

// LinkHandler bundles dependencies for the /api/apilinks endpoints.
type LinkHandler struct {
	Links LinkDirectory
}

func NewLinkHandler(links LinkDirectory) *LinkHandler {
	return &LinkHandler{Links: links}
}

// ----- DTOs -----

type createLinkReq struct {
	MatchID  string `json:"match_id"`
	ViewType string `json:"view_type"`
}
type updateLinkReq struct {
	MatchID  string `json:"match_id"`
	ViewType string `json:"view_type"`
}
type statusReq struct {
	Enabled *bool `json:"enabled"`
}

type linkPart struct {
	Token          string     `json:"token"`
	MatchID        string     `json:"match_id"`
	ViewType       string     `json:"view_type"`
	Enabled        bool       `json:"enabled"`
	AccessCount    uint64     `json:"access_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toLinkPart(l *model.Link) linkPart {
	return linkPart{
		Token:          l.Token,
		MatchID:        l.MatchID,
		ViewType:       l.ViewType,
		Enabled:        l.Enabled,
		AccessCount:    l.AccessCount,
		LastAccessedAt: l.LastAccessedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// Create mints a new link for the caller. The token is generated fresh
// and checked against the directory; on collision generation retries up
// to tokenGenAttempts times before the whole operation fails.
func (h *LinkHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req createLinkReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.MatchID = strings.TrimSpace(req.MatchID)
	if req.MatchID == "" {
		return respondError(c, http.StatusBadRequest, "match_id is required")
	}
	if !model.ValidViewType(req.ViewType) {
		return respondError(c, http.StatusBadRequest, "view_type must be FULL, ALIVE_STATUS or POINTS_TABLE")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	for attempt := 0; attempt < tokenGenAttempts; attempt++ {
		token, err := utils.NewLinkToken()
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "token generation failed")
		}
		taken, err := h.Links.TokenExists(ctx, token)
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "create link failed")
		}
		if taken {
			continue
		}
		l := &model.Link{
			OwnerID:  uid,
			Token:    token,
			MatchID:  req.MatchID,
			ViewType: req.ViewType,
			Enabled:  true,
		}
		err = h.Links.Create(ctx, l)
		if errors.Is(err, repository.ErrTokenExists) {
			// Lost a race on the unique index; try a fresh token.
			continue
		}
		if err != nil {
			return respondError(c, http.StatusInternalServerError, "create link failed")
		}
		return respondData(c, http.StatusCreated, toLinkPart(l))
	}
	return respondError(c, http.StatusInternalServerError, "could not generate a unique token")
}

// List returns all of the caller's links.
func (h *LinkHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	links, err := h.Links.ListByOwner(ctx, uid)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "list links failed")
	}
	out := make([]linkPart, 0, len(links))
	for _, l := range links {
		out = append(out, toLinkPart(l))
	}
	return respondData(c, http.StatusOK, out)
}

// Update changes a link's match identifier and view type. Both fields are
// required.
func (h *LinkHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req updateLinkReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.MatchID = strings.TrimSpace(req.MatchID)
	if req.MatchID == "" {
		return respondError(c, http.StatusBadRequest, "match_id is required")
	}
	if !model.ValidViewType(req.ViewType) {
		return respondError(c, http.StatusBadRequest, "view_type must be FULL, ALIVE_STATUS or POINTS_TABLE")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Links.Update(ctx, c.Param("token"), uid, req.MatchID, req.ViewType)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return respondError(c, http.StatusNotFound, "link not found")
		}
		return respondError(c, http.StatusInternalServerError, "update link failed")
	}
	return respondData(c, http.StatusOK, toLinkPart(l))
}

// Toggle flips the enabled flag unconditionally. No body is required.
func (h *LinkHandler) Toggle(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Links.Toggle(ctx, c.Param("token"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return respondError(c, http.StatusNotFound, "link not found")
		}
		return respondError(c, http.StatusInternalServerError, "toggle link failed")
	}
	return respondData(c, http.StatusOK, toLinkPart(l))
}

// SetStatus sets the enabled flag to an explicit boolean from the body.
// A missing or non-boolean enabled field is a validation error.
func (h *LinkHandler) SetStatus(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return respondError(c, http.StatusBadRequest, "enabled must be a boolean")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Links.SetEnabled(ctx, c.Param("token"), uid, *req.Enabled)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return respondError(c, http.StatusNotFound, "link not found")
		}
		return respondError(c, http.StatusInternalServerError, "update status failed")
	}
	return respondData(c, http.StatusOK, toLinkPart(l))
}

// Delete removes the caller's link. Deleting a foreign or missing link
// reports not found.
func (h *LinkHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Links.Delete(ctx, c.Param("token"), uid); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return respondError(c, http.StatusNotFound, "link not found")
		}
		return respondError(c, http.StatusInternalServerError, "delete link failed")
	}
	return respondMessage(c, http.StatusOK, "link deleted")
}
