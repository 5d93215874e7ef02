package middleware

// identity.go extracts who is calling for rate-limit keys.  JWTAuth stores
// the admin id; unauthenticated callers (login) are "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

func currentAdminID(c echo.Context) string {
	if id, ok := c.Get(AdminIDKey).(uint64); ok && id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
