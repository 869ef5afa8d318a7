package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("GESTAO_TEST_EMPTY", "")
	assert.Equal(t, "fallback", GetEnv("GESTAO_TEST_EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("GESTAO_TEST_MISSING", "fallback"))
	assert.Equal(t, "", GetEnv("GESTAO_TEST_MISSING"))

	t.Setenv("GESTAO_TEST_SET", "value")
	assert.Equal(t, "value", GetEnv("GESTAO_TEST_SET", "fallback"))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("PAGE_SIZE", "25")

	cfg := FromEnv()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, 25, cfg.DefaultPageSize)
}
