package config

import (
	"testing"

	"briscola-game/internal/policy"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_DSN", "REDIS_ADDR", "INFERENCE_URL", "STATIC_DIR", "DEFAULT_OPPONENT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "./briscola.db", cfg.DBDSN)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.InferenceURL)
	assert.Equal(t, "web/static", cfg.StaticDir)
	assert.Equal(t, policy.LevelTier3, cfg.DefaultOpponent)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_DSN", "postgres://localhost/briscola")
	t.Setenv("DEFAULT_OPPONENT", "random")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("INFERENCE_URL", "http://localhost:5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, policy.LevelRandom, cfg.DefaultOpponent)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "http://localhost:5000", cfg.InferenceURL)
}

func TestInvalidValues(t *testing.T) {
	tests := map[string]string{
		"DB_DRIVER":        "mysql",
		"DEFAULT_OPPONENT": "grandmaster",
		"LOG_LEVEL":        "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
