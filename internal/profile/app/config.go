package app

import (
	"os"
	"strconv"
	"time"

	"github.com/midhaven/profiled/pkg/jwtx"
)

type Config struct {
	SigningSecret string // Required: HMAC secret for signing tokens

	Issuer              string        // Optional: issuer claim for tokens (default: profiled)
	TokenTTL            time.Duration // Optional: token lifetime (default: 7 days)
	DatabaseFile        string        // Optional: path to SQLite database file (default: ./profiled.db)
	PepperFile          string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		SigningSecret:       os.Getenv("PROFILED_SIGNING_SECRET"),
		Issuer:              getEnvOrDefault("PROFILED_ISSUER", "profiled"),
		TokenTTL:            getEnvDurationOrDefault("PROFILED_TOKEN_TTL", jwtx.DefaultTokenTTL),
		DatabaseFile:        getEnvOrDefault("PROFILED_DATABASE_FILE", "profiled.db"),
		PepperFile:          getEnvOrDefault("PROFILED_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
