package middleware

// identity.go defines helper functions shared across middleware files. It
// provides a userID extraction function that reads the identity placed in
// the Echo context by JWTAuth. When no user is authenticated (public
// routes, missing token), "guest" is returned so rate-limit keys still
// partition sensibly.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID extracts a user identifier from context as a string. JWTAuth
// stores the raw `sub` claim, which arrives as a float64 for JSON numbers.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "guest"
}
