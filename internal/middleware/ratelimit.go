package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/config"
)

// takeToken refills the bucket in proportion to the time since the last call
// and takes one token if available.
//
//	KEYS[1]  bucket hash
//	ARGV     now_ms, capacity, tokens_per_ms, ttl_s
//	returns  {allowed 0|1, remaining, wait_ms}
var takeToken = redis.NewScript(`
local now      = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate     = tonumber(ARGV[3])
local ttl      = tonumber(ARGV[4])

local b = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(b[1]) or capacity
local ts     = tonumber(b[2]) or now

if now > ts and rate > 0 then
  tokens = math.min(capacity, tokens + (now - ts) * rate)
end

local allowed, wait = 0, 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
elseif rate > 0 then
  wait = math.ceil((1 - tokens) / rate)
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', now)
redis.call('EXPIRE', KEYS[1], ttl)
return {allowed, math.floor(tokens), wait}
`)

// bucketResult is one decision of the limiter.
type bucketResult struct {
	Allowed   bool
	Remaining int64
	Wait      time.Duration
}

// take runs the bucket script for key.
func take(ctx context.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string, now time.Time) (bucketResult, error) {
	var perMs float64
	if cfg.RefillInterval > 0 {
		perMs = float64(cfg.RefillTokens) / float64(cfg.RefillInterval.Milliseconds())
	}
	ttl := int64(cfg.TTL / time.Second)
	if ttl < 1 {
		ttl = 1
	}

	vals, err := takeToken.Run(ctx, rdb, []string{key}, now.UnixMilli(), cfg.Capacity, perMs, ttl).Int64Slice()
	if err != nil {
		return bucketResult{}, err
	}
	if len(vals) != 3 {
		return bucketResult{}, fmt.Errorf("ratelimit script returned %d values", len(vals))
	}
	return bucketResult{
		Allowed:   vals[0] == 1,
		Remaining: vals[1],
		Wait:      time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// retryAfterSeconds rounds a wait up to whole seconds, at least 1.
func retryAfterSeconds(wait time.Duration) int {
	secs := int((wait + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// NewTokenBucket limits requests per client with a token bucket held in
// Redis.  Redis errors fail open so an outage never locks the admin out.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, logger *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg.Prefix, c)
			res, err := take(c.Request().Context(), rdb, cfg, key, time.Now())
			if err != nil {
				logger.Warn("ratelimit: redis error, allowing request", zap.String("key", key), zap.Error(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if res.Allowed {
				return next(c)
			}

			secs := retryAfterSeconds(res.Wait)
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				logger.Info("ratelimit: blocked", zap.String("key", key), zap.Duration("wait", res.Wait))
			}
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too many requests",
				"retry_after": secs,
			})
		}
	}
}

// rateKey buckets by client IP, caller identity and route.
func rateKey(prefix string, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{prefix, ip, currentAdminID(c), c.Request().Method + " " + c.Path()}, ":")
}
