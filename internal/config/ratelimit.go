package config

import "time"

type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

func LoadRateLimitConfig() RateLimitConfig {
    def := RateLimitConfig{
        Enabled:        envBool("RATE_LIMIT_ENABLED", true),
        Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
        RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
        RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:    getenv("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
        Prefix:         getenv("RATE_LIMIT_PREFIX", "fpw:rl"),
        Debug:          envBool("RATE_LIMIT_DEBUG", false),
    }
    return def.normalize()
}

// normalize clamps values so the limiter script never divides by zero and
// buckets outlive a few refill intervals.
func (r RateLimitConfig) normalize() RateLimitConfig {
    if r.Capacity < 1 { r.Capacity = 1 }
    if r.RefillTokens < 1 { r.RefillTokens = 1 }
    if r.RefillInterval <= 0 { r.RefillInterval = time.Second }
    if minTTL := 5 * r.RefillInterval; r.TTL < minTTL { r.TTL = minTTL }
    return r
}
