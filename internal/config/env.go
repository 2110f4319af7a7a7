package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" { return d }
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON": return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF": return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k); if v == "" { return d }
	if n, err := strconv.Atoi(v); err == nil { return n }
	return d
}

func envFloat(k string, d float64) float64 {
	v := os.Getenv(k); if v == "" { return d }
	if f, err := strconv.ParseFloat(v, 64); err == nil { return f }
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k); if v == "" { return d }
	if dur, err := time.ParseDuration(v); err == nil { return dur }
	return d
}
