package networth

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries the few knobs of the valuation core. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	// DatabasePath is the SQLite file holding the balance cache records.
	DatabasePath string
	// ReferenceFiat is the pivot currency of the rate series.
	ReferenceFiat string
	// LogLevel controls the slog level.
	LogLevel slog.Level
}

// LoadConfig reads the configuration from the environment. A missing .env
// file is not an error.
func LoadConfig() Config {
	_ = godotenv.Load()
	return Config{
		DatabasePath:  envOr("NETWORTH_DB_PATH", "networth.db"),
		ReferenceFiat: envOr("NETWORTH_REFERENCE_FIAT", "EUR"),
		LogLevel:      parseLevel(envOr("NETWORTH_LOG_LEVEL", "info")),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
