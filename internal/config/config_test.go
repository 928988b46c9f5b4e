package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.CookieMaxAge)
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, time.Hour, cfg.DBConnMaxLifetime)
	assert.Equal(t, []string{"SignIn"}, cfg.AuthBypassOperations)
	assert.Equal(t, []string{"http://localhost:3000", "https://sign-app-one.vercel.app"}, cfg.AllowedOrigins)
	assert.Equal(t, "Asia/Seoul", cfg.SurveyTimezone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TOKEN_TTL", "168h")
	t.Setenv("AUTH_BYPASS_OPERATIONS", " SignIn, SignUp ")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_LOG_MODE", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("NOTIFICATION_CHANNEL_ID", "123456")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"SignIn", "SignUp"}, cfg.AuthBypassOperations)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.DBLogMode)
	assert.Equal(t, 7, cfg.DBMaxOpenConns)
	assert.Equal(t, "123456", cfg.NotificationChannelID)
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nPORT=9999\n"), 0o600))
	// godotenv sets process env; make sure it is restored afterwards.
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	require.NoError(t, os.Unsetenv("PORT"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "9999", cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "x", "TOKEN_TTL": "one day"}},
		{name: "non-positive duration", env: map[string]string{"JWT_SECRET": "x", "DB_QUERY_TIMEOUT": "0s"}},
		{name: "unknown timezone", env: map[string]string{"JWT_SECRET": "x", "SURVEY_TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(noEnvFile(t))
			assert.Error(t, err)
		})
	}
}
