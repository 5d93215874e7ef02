package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ozaiithejava/portfolio-api/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ClaimsKey  = "admin"    // utils.AdminClaims
	AdminIDKey = "admin_id" // uint64, for rate-limit keys and logs
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// before the wrapped handler runs.
//
//   - no usable "Authorization: Bearer <token>" header: 401
//   - token present but malformed, badly signed or expired: 403
//   - otherwise the claims are stored under ClaimsKey and the chain continues
//
// Verification needs only the secret; no session is looked up.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			claims, err := utils.ParseAccessToken(secret, raw, time.Now())
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid token"})
			}

			c.Set(ClaimsKey, claims)
			c.Set(AdminIDKey, claims.AdminID)
			return next(c)
		}
	}
}

// bearerToken splits "Bearer <token>".  The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AdminFromContext returns the claims stored by JWTAuth.
func AdminFromContext(c echo.Context) (utils.AdminClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(utils.AdminClaims)
	return claims, ok
}
