package config

import (
	"log"
	"time"

	"github.com/iliyamo/cinema-seat-selection/internal/pricing"
)

// SelectionConfig tunes seat selection sessions and pricing.
type SelectionConfig struct {
	PriceTable          pricing.Table // PRICE_TABLE, e.g. "STANDARD=12.50,RECLINER=18,DEFAULT=12.50"
	ServiceFee          float64       // SERVICE_FEE added once per booking
	MaxTickets          int           // MAX_TICKETS upper bound for an inbound ticket quota
	FetchTimeout        time.Duration // FETCH_TIMEOUT per remote fetch
	AvailabilityRefresh time.Duration // AVAILABILITY_REFRESH background reload interval; 0 disables
	IdleTTL             time.Duration // SESSION_IDLE_TTL before an untouched session is closed
}

const defaultPriceTable = "STANDARD=12.50,RECLINER=18.00,VIP=20.00,DEFAULT=12.50"

// LoadSelectionConfig reads selection settings.  A malformed price
// table is fatal.
func LoadSelectionConfig() SelectionConfig {
	table, err := pricing.ParseTable(envStr("PRICE_TABLE", defaultPriceTable))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	c := SelectionConfig{
		PriceTable:          table,
		ServiceFee:          envFloat("SERVICE_FEE", 2.00),
		MaxTickets:          envInt("MAX_TICKETS", 10),
		FetchTimeout:        envDur("FETCH_TIMEOUT", 5*time.Second),
		AvailabilityRefresh: envDur("AVAILABILITY_REFRESH", 30*time.Second),
		IdleTTL:             envDur("SESSION_IDLE_TTL", 15*time.Minute),
	}
	if c.ServiceFee < 0 { c.ServiceFee = 0 }
	if c.MaxTickets < 1 { c.MaxTickets = 1 }
	if c.FetchTimeout <= 0 { c.FetchTimeout = 5 * time.Second }
	if c.IdleTTL <= 0 { c.IdleTTL = 15 * time.Minute }
	return c
}
