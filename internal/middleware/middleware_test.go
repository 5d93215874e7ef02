package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ozaiithejava/portfolio-api/internal/config"
	"github.com/ozaiithejava/portfolio-api/internal/utils"
)

const testSecret = "middleware-secret"

func protectedEcho() *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		claims, ok := AdminFromContext(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, echo.Map{"username": claims.Username, "id": claims.AdminID, "rl": currentAdminID(c)})
	}, JWTAuth(testSecret))
	return e
}

func doGet(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := protectedEcho()
	good, err := utils.NewAccessToken(testSecret, 7, "admin", time.Hour, time.Now())
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(e, "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(e, "Basic "+good.Token).Code)
	})

	t.Run("empty token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(e, "Bearer ").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doGet(e, "Bearer nope").Code)
	})

	t.Run("foreign secret", func(t *testing.T) {
		other, err := utils.NewAccessToken("other-secret", 7, "admin", time.Hour, time.Now())
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, doGet(e, "Bearer "+other.Token).Code)
	})

	t.Run("expired", func(t *testing.T) {
		old, err := utils.NewAccessToken(testSecret, 7, "admin", 24*time.Hour, time.Now().Add(-25*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, doGet(e, "Bearer "+old.Token).Code)
	})

	t.Run("tampered", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"id": 7, "username": "admin", "exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("guess"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, doGet(e, "Bearer "+forged).Code)
	})

	t.Run("valid", func(t *testing.T) {
		rec := doGet(e, "bearer "+good.Token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"username":"admin","id":7,"rl":"7"}`, rec.Body.String())
	})
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	tok, ok = bearerToken("  BEARER   abc  ")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Token abc", "abc"} {
		_, ok := bearerToken(h)
		assert.False(t, ok, h)
	}
}

func TestCurrentAdminIDAnon(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), httptest.NewRecorder())
	assert.Equal(t, "anon", currentAdminID(c))
}

func TestCacheKeyUsesPrefix(t *testing.T) {
	e := echo.New()

	c1 := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/projects", nil), httptest.NewRecorder())
	c1.SetPath("/api/projects")
	c2 := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/projects?x=1", nil), httptest.NewRecorder())
	c2.SetPath("/api/projects")

	k1, k2 := cacheKey("cache", c1), cacheKey("cache", c2)
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, k1)
	assert.NotEqual(t, k1, k2)
}

func TestBodyRecorderLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	br := &bodyRecorder{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = br.Write([]byte("abc"))
	assert.False(t, br.overflow)
	_, _ = br.Write([]byte("defg"))

	assert.True(t, br.overflow)
	assert.Zero(t, br.buf.Len())
	assert.Equal(t, "abcdefg", rec.Body.String(), "client still gets the full body")

	unbounded := &bodyRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, _ = unbounded.Write([]byte("abcdefg"))
	assert.Equal(t, "abcdefg", unbounded.buf.String())
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(300*time.Millisecond))
	assert.Equal(t, 6, retryAfterSeconds(5001*time.Millisecond))
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/auth/login")

	assert.Equal(t, "rl:203.0.113.9:anon:POST /api/auth/login", rateKey("rl", c))
}

func TestRedisMiddlewaresPassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	cacheCfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, Prefix: "cache"}
	rlCfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Hour, TTL: time.Hour, Prefix: "rl"}
	logger := zap.NewNop()

	e.GET("/r", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewRedisCache(cacheCfg, nil), NewTokenBucket(rlCfg, nil, logger))
	e.POST("/w", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		InvalidateOnWrite(cacheCfg, nil, logger))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/r", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/w", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
}
