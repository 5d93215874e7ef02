package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the public read cache.  When Enabled is
// false or no Redis client is configured, caching is disabled.  Methods lists
// the HTTP methods to cache, TTL the lifetime of entries, Prefix the key
// namespace (also used for invalidation) and MaxBodyBytes the largest body
// that will be stored.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  All methods are upper-cased.
func LoadCacheConfig() (CacheConfig, error) {
	ttl, err := envDur("CACHE_TTL", 30*time.Second)
	if err != nil {
		return CacheConfig{}, err
	}
	maxBody, err := envInt("CACHE_MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
		TTL:          ttl,
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: maxBody,
	}, nil
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range splitList(s) {
		m[strings.ToUpper(p)] = true
	}
	return m
}
