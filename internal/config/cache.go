package config

import "time"

// CacheConfig defines settings for the Redis read-through cache placed in
// front of the resource source.  When Enabled is false or no Redis client
// is configured, caching is disabled.  TTL applies to showtimes and seat
// maps; AvailabilityTTL to availability snapshots, which are volatile and
// therefore not cached unless a positive value is set.
type CacheConfig struct {
	Enabled         bool
	TTL             time.Duration
	AvailabilityTTL time.Duration
	Prefix          string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
	c := CacheConfig{
		Enabled:         envBool("CACHE_ENABLED", true),
		TTL:             envDur("CACHE_TTL", 5*time.Minute),
		AvailabilityTTL: envDur("CACHE_AVAILABILITY_TTL", 0),
		Prefix:          envStr("CACHE_PREFIX", "seatsel"),
	}
	if c.TTL <= 0 { c.TTL = time.Minute }
	if c.AvailabilityTTL < 0 { c.AvailabilityTTL = 0 }
	return c
}
