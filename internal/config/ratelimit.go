package config

import "time"

// RateLimitConfig parameterises the Redis token bucket in front of login.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
	Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and clamps them to sane
// minimums.  The default allows a burst of 10 login attempts, then one every
// six seconds.
func LoadRateLimitConfig() (RateLimitConfig, error) {
	def := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Prefix:  envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:   envBool("RATE_LIMIT_DEBUG", false),
	}
	var err error
	if def.Capacity, err = envInt("RATE_LIMIT_CAPACITY", 10); err != nil {
		return RateLimitConfig{}, err
	}
	if def.RefillTokens, err = envInt("RATE_LIMIT_REFILL_TOKENS", 1); err != nil {
		return RateLimitConfig{}, err
	}
	if def.RefillInterval, err = envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second); err != nil {
		return RateLimitConfig{}, err
	}
	if def.TTL, err = envDur("RATE_LIMIT_TTL", 10*time.Minute); err != nil {
		return RateLimitConfig{}, err
	}
	if def.Capacity < 1 {
		def.Capacity = 1
	}
	if def.RefillTokens < 1 {
		def.RefillTokens = 1
	}
	if def.RefillInterval <= 0 {
		def.RefillInterval = time.Second
	}
	if minTTL := 5 * def.RefillInterval; def.TTL < minTTL {
		def.TTL = minTTL
	}
	return def, nil
}
