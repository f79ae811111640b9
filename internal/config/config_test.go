package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MONGO_ATLAS_URI", "MONGO_LOCAL_URI", "PORT", "APP_ENV",
		"JWT_SECRET", "ADMIN_EMAILS", "CORS_ORIGIN", "LOG_LEVEL",
	} {
		// t.Setenv registers the restore; Unsetenv makes the variable
		// properly absent rather than empty.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.True(t, cfg.Development())
	assert.Equal(t, devJWTSecret, cfg.JWTSecret, "development falls back to the insecure default")
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8000"}, cfg.CORSOrigins)
	assert.Equal(t, 2, cfg.MinPoolSize)
	assert.Equal(t, 10, cfg.MaxPoolSize)
	assert.Equal(t, 3, cfg.ConnectRetries)
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-real-secret", cfg.JWTSecret)
	assert.True(t, cfg.Production())
}

func TestLoadAdminEmails(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_EMAILS", "boss@shop.com,ops@shop.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"boss@shop.com", "ops@shop.com"}, cfg.AdminEmails)
}
