// Package config loads service configuration from environment variables and an
// optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything main needs to wire the service.
type Config struct {
	Addr string

	// AdminToken gates the HTTP admin subtree. AdminWallet is the
	// administrator identity the registry authorizes against.
	AdminToken  string
	AdminWallet string

	// JWTSigningKey signs wallet identity tokens. DevAuth enables the local
	// token-issuance endpoint; never turn it on outside development.
	JWTSigningKey string
	DevAuth       bool

	// StorageDriver selects the store backend: "memory" or "postgres".
	StorageDriver string
	PostgresURL   string

	// RedisURL enables the pass read cache when non-empty.
	RedisURL string
	CacheTTL time.Duration

	// KafkaBrokers enables event publishing when non-empty.
	KafkaBrokers []string
	EventsTopic  string
	EventBusSize int
}

// FromEnv builds a Config from the environment so main stays lean. A .env file
// in the working directory is honored when present.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:          envOr("MINTPASS_ADDR", ":8080"),
		AdminToken:    envOr("MINTPASS_ADMIN_TOKEN", ""),
		AdminWallet:   envOr("MINTPASS_ADMIN_WALLET", ""),
		JWTSigningKey: envOr("MINTPASS_JWT_SIGNING_KEY", "dev-secret-change-in-production"),
		DevAuth:       os.Getenv("MINTPASS_DEV_AUTH") == "true",
		StorageDriver: envOr("MINTPASS_STORAGE", "memory"),
		PostgresURL:   envOr("MINTPASS_POSTGRES_URL", ""),
		RedisURL:      envOr("MINTPASS_REDIS_URL", ""),
		CacheTTL:      envDuration("MINTPASS_CACHE_TTL", 5*time.Minute),
		KafkaBrokers:  envList("MINTPASS_KAFKA_BROKERS"),
		EventsTopic:   envOr("MINTPASS_EVENTS_TOPIC", "mintpass.events"),
		EventBusSize:  envInt("MINTPASS_EVENT_BUS_SIZE", 256),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
