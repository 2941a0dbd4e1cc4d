package config

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"briscola-game/internal/policy"
)

// Config holds the harness settings read from the environment (and .env).
type Config struct {
	Port            string
	DBDriver        string
	DBDSN           string
	RedisAddr       string
	DefaultOpponent policy.Level
	InferenceURL    string
	StaticDir       string
	LogLevel        log.Level
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Load reads the configuration, applying defaults for unset variables.
func Load() (Config, error) {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		DBDriver:     getenv("DB_DRIVER", "sqlite3"),
		DBDSN:        getenv("DB_DSN", "./briscola.db"),
		RedisAddr:    getenv("REDIS_ADDR", ""),
		InferenceURL: getenv("INFERENCE_URL", ""),
		StaticDir:    getenv("STATIC_DIR", "web/static"),
	}

	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "pgx" {
		return Config{}, fmt.Errorf("DB_DRIVER must be sqlite3 or pgx, got %q", cfg.DBDriver)
	}

	level, err := policy.ParseLevel(getenv("DEFAULT_OPPONENT", string(policy.LevelTier3)))
	if err != nil {
		return Config{}, fmt.Errorf("DEFAULT_OPPONENT: %w", err)
	}
	cfg.DefaultOpponent = level

	logLevel, err := log.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = logLevel

	return cfg, nil
}
