package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/config"
)

// cachedResponse is what a cache entry holds.  Only the content type is kept
// from the headers; JSON encodes Body as base64.
type cachedResponse struct {
	Status      int    `json:"s"`
	ContentType string `json:"ct,omitempty"`
	Body        []byte `json:"b"`
}

// bodyRecorder tees the response body into buf, up to limit bytes (0 means
// unbounded).  overflow is set once the handler writes past the limit.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// cacheKey is "<prefix>:<sha1(path?query)>" so PurgeCache can find every
// entry with a single pattern.
func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// NewRedisCache serves cached 200 responses for the configured methods.  A
// miss is recorded and stored for cfg.TTL unless the body exceeded
// cfg.MaxBodyBytes.  X-Cache reports HIT or MISS.  Redis errors degrade to a
// miss.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedResponse
				if json.Unmarshal(raw, &hit) == nil && hit.Status != 0 {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(hit.Status, hit.ContentType, hit.Body)
				}
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}

			entry, err := json.Marshal(cachedResponse{
				Status:      rec.status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        rec.buf.Bytes(),
			})
			if err == nil {
				_ = rdb.Set(context.WithoutCancel(ctx), key, entry, ttl).Err()
			}
			return nil
		}
	}
}

// PurgeCache deletes every key under prefix and returns how many went.
func PurgeCache(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	const batch = 100
	var (
		n    int
		keys []string
	)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			return err
		}
		n += len(keys)
		keys = keys[:0]
		return nil
	}

	iter := rdb.Scan(ctx, 0, prefix+":*", batch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == batch {
			if err := flush(); err != nil {
				return n, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return n, err
	}
	return n, flush()
}

// InvalidateOnWrite purges the read cache after every successful (2xx)
// request that is not a GET, HEAD or OPTIONS.  Purge failures are only
// logged; stale entries expire with the TTL.
func InvalidateOnWrite(cfg config.CacheConfig, rdb *redis.Client, logger *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return err
			}
			if status := c.Response().Status; err != nil || status < 200 || status > 299 {
				return err
			}
			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 2*time.Second)
			defer cancel()
			if n, perr := PurgeCache(ctx, rdb, cfg.Prefix); perr != nil {
				logger.Warn("cache purge failed", zap.Error(perr))
			} else {
				logger.Debug("cache purged", zap.Int("keys", n))
			}
			return nil
		}
	}
}
