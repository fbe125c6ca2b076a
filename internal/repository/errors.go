// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors. Ownership mismatches deliberately surface as
// ErrLinkNotFound rather than a dedicated forbidden error so that the
// existence of another owner's link never leaks through the API.
package repository

import "errors"

// ErrLinkNotFound is returned when a link does not exist, is disabled on
// the public path, or belongs to a different owner. Handlers translate it
// into an HTTP 404 response.
var ErrLinkNotFound = errors.New("link not found")

// ErrMatchNotFound is returned when no snapshot container exists for a
// match identifier.
var ErrMatchNotFound = errors.New("match not found")

// ErrNoSnapshot is returned when a snapshot container exists but holds no
// documents yet.
var ErrNoSnapshot = errors.New("no snapshot data")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailExists is returned when signup collides with an existing email.
var ErrEmailExists = errors.New("email already exists")

// ErrTokenExists is returned when inserting a link whose token is already
// taken. The link manager retries generation a bounded number of times
// before giving up.
var ErrTokenExists = errors.New("token already exists")
