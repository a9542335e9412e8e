package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/voucher/pkg/cryptox"
)

// clientTokenPrefix names the env vars that register client tokens, e.g.
// VOUCHER_CLIENT_TOKEN_POS=... registers client "pos".
const clientTokenPrefix = "VOUCHER_CLIENT_TOKEN_"

type Config struct {
	StoreDriver  string // Optional: dataset store driver (file, sqlite) (default: file)
	DataFile     string // Optional: path to JSON dataset file for the file driver (default: ./vouchers.json)
	DatabaseFile string // Optional: path to SQLite database file for the sqlite driver (default: ./vouchers.db)

	ClientTokens      map[string]string // Client token registry: SHA-256 fingerprint -> client name
	AdminPasswordHash string            // Optional: Argon2id hash gating admin endpoints; empty disables them

	ReportTTL        time.Duration // Optional: freshness window for cached reports (default: 30s)
	ReportAllowStale bool          // Optional: serve expired reports while refreshing (default: true)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 15m)
}

func LoadConfig() Config {
	cfg := Config{
		StoreDriver:  getEnvOrDefault("VOUCHER_STORE_DRIVER", "file"),
		DataFile:     getEnvOrDefault("VOUCHER_DATA_FILE", "vouchers.json"),
		DatabaseFile: getEnvOrDefault("VOUCHER_DATABASE_FILE", "vouchers.db"),

		ClientTokens:      loadClientTokens(),
		AdminPasswordHash: os.Getenv("VOUCHER_ADMIN_PASSWORD_HASH"),

		ReportTTL:        getEnvDurationOrDefault("VOUCHER_REPORT_TTL", 30*time.Second),
		ReportAllowStale: getEnvBoolOrDefault("VOUCHER_REPORT_ALLOW_STALE", true),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
	}

	return cfg
}

// loadClientTokens builds the client registry from VOUCHER_CLIENT_TOKEN_*
// environment variables. Only the token fingerprints are kept; raw tokens are
// not held after config load.
func loadClientTokens() map[string]string {
	registry := make(map[string]string)

	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, clientTokenPrefix) {
			continue
		}

		name := strings.ToLower(strings.TrimPrefix(key, clientTokenPrefix))
		if name == "" || value == "" {
			continue
		}

		registry[cryptox.FingerprintToken(value)] = name
	}

	return registry
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
