package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/cinema-seat-selection/internal/pricing"
)

func TestLoadSelectionConfigDefaults(t *testing.T) {
	c := LoadSelectionConfig()
	assert.Equal(t, 18.00, c.PriceTable["RECLINER"])
	assert.Equal(t, 12.50, c.PriceTable[pricing.DefaultKey])
	assert.Equal(t, 2.00, c.ServiceFee)
	assert.Equal(t, 10, c.MaxTickets)
	assert.Equal(t, 5*time.Second, c.FetchTimeout)
}

func TestLoadSelectionConfigFromEnv(t *testing.T) {
	t.Setenv("PRICE_TABLE", "standard=9,default=8")
	t.Setenv("SERVICE_FEE", "-1")
	t.Setenv("MAX_TICKETS", "0")
	t.Setenv("AVAILABILITY_REFRESH", "0s")

	c := LoadSelectionConfig()
	assert.Equal(t, pricing.Table{"STANDARD": 9, "DEFAULT": 8}, c.PriceTable)
	assert.Equal(t, 0.0, c.ServiceFee)
	assert.Equal(t, 1, c.MaxTickets)
	assert.Equal(t, time.Duration(0), c.AvailabilityRefresh)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "250ms")
	assert.False(t, envBool("X_BOOL", true))
	assert.Equal(t, 3, envInt("X_INT", 3))
	assert.Equal(t, 250*time.Millisecond, envDur("X_DUR", time.Second))
	assert.Equal(t, "fallback", envStr("X_MISSING", "fallback"))
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	c := LoadRateLimitConfig()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 10*time.Second, c.TTL)
}
