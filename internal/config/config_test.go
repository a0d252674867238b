package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, time.Second, cfg.PageCacheTTL)
	assert.Equal(t, 10, cfg.BooksPerPage)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsDevelopment())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PAGE_CACHE_TTL", "5s")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("GO_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 5*time.Second, cfg.PageCacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_InvalidInteger(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("BOOKS_PER_PAGE", "ten")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "BOOKS_PER_PAGE")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{
		HTTPPort:        0,
		DatabaseURL:     "",
		BooksPerPage:    0,
		RateLimitRPS:    1,
		RateLimitBurst:  1,
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		LogLevel:        "verbose",
		LogFormat:       "text",
		JWTSecret:       "short",
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"HTTP_PORT", "DATABASE_URL", "BOOKS_PER_PAGE", "LOG_LEVEL", "LOG_FORMAT", "JWT_SECRET"} {
		assert.Contains(t, err.Error(), want)
	}
}
