package config // package config loads application configuration from environment variables

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// Resource sources understood by RESOURCE_SOURCE.
const (
	SourceHTTP  = "http"
	SourceMySQL = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Nested groups are loaded by their own helpers.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	JWTSecret      string // secret used to verify access tokens issued by the auth service
	ResourceSource string // where showtimes, seat maps and availability come from: http | mysql
	UpstreamURL    string // base URL of the cinema CRUD API when ResourceSource is http
	UpstreamToken  string // optional bearer token for the CRUD API
	DBUser         string // database username (mysql source)
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name

	Selection SelectionConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Queue     QueueConfig
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is applied first when
// present; real environment variables win over it.  Required variables
// are enforced by must() and missing values cause the program to exit.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("config: loaded .env")
	}
	cfg := Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		JWTSecret:      must("JWT_SECRET"),
		ResourceSource: strings.ToLower(envStr("RESOURCE_SOURCE", SourceHTTP)),
		UpstreamURL:    strings.TrimRight(envStr("UPSTREAM_API_URL", "http://localhost:8000/api"), "/"),
		UpstreamToken:  envStr("UPSTREAM_API_TOKEN", ""),
		Selection:      LoadSelectionConfig(),
		Cache:          LoadCacheConfig(),
		RateLimit:      LoadRateLimitConfig(),
		Redis:          LoadRedisConfig(),
		Queue:          LoadQueueConfig(),
	}
	switch cfg.ResourceSource {
	case SourceMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = envStr("DB_PASS", "")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	case SourceHTTP:
	default:
		log.Fatalf("invalid RESOURCE_SOURCE: %q", cfg.ResourceSource)
	}
	return cfg
}

// IsProd reports whether the service runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}
