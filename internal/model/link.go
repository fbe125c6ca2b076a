package model

import "time"

// View types a link (or a direct livescore query) can expose.  The set is
// closed; any other value is rejected at the boundary with a validation
// error.
const (
	ViewTypeFull        = "FULL"         // entire snapshot document, unfiltered
	ViewTypeAliveStatus = "ALIVE_STATUS" // team status + summary
	ViewTypePointsTable = "POINTS_TABLE" // standings + summary
)

// ValidViewType reports whether v is one of the recognized view types.
func ValidViewType(v string) bool {
	switch v {
	case ViewTypeFull, ViewTypeAliveStatus, ViewTypePointsTable:
		return true
	}
	return false
}

// Link represents a shareable API link as stored in the `api_links` table.
// The token is an opaque random 16‑character alphanumeric string, unique
// system‑wide, and is the sole credential for public access: it carries no
// signature and never expires, so possession of the token grants read
// access until the link is disabled or deleted.  MatchID is a free‑form
// identifier stored whitespace‑trimmed; it is not validated against any
// existing match at creation time.  AccessCount and LastAccessedAt are
// usage telemetry mutated only by the public resolution path.
//
// Fields:
//  ID             – primary key identifier.
//  OwnerID        – user who created the link; all mutations require it.
//  Token          – unique public credential.
//  MatchID        – identifier of the externally fed match.
//  ViewType       – one of FULL, ALIVE_STATUS, POINTS_TABLE.
//  Enabled        – disabled links resolve as not found.
//  AccessCount    – number of successful token redemptions.
//  LastAccessedAt – time of the most recent redemption (null if never).
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Link struct {
	ID             uint64     // api_links.id
	OwnerID        uint64     // api_links.owner_id
	Token          string     // api_links.token
	MatchID        string     // api_links.match_id
	ViewType       string     // api_links.view_type
	Enabled        bool       // api_links.enabled
	AccessCount    uint64     // api_links.access_count
	LastAccessedAt *time.Time // api_links.last_accessed_at (nullable)
	CreatedAt      time.Time  // api_links.created_at
	UpdatedAt      time.Time  // api_links.updated_at
}
