package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "ENV", "PORT", "DATABASE_URL", "JWT_SECRET", "JWT_TTL",
		"DEFAULT_ADMIN_EMAIL", "DEFAULT_ADMIN_PASSWORD", "CORS_ALLOWED_ORIGINS",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM_NAME", "SMTP_FROM_EMAIL",
		"SWEEP_INTERVAL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "boattours.db", cfg.DatabaseURL)
	assert.Equal(t, 168*time.Hour, cfg.JWTTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.Enabled())
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DEFAULT_ADMIN_EMAIL", " Boss@Example.COM ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM_EMAIL", "tours@example.com")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "boss@example.com", cfg.DefaultAdminEmail)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestFromEnv_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad ttl":       {"JWT_TTL": "soon"},
		"zero ttl":      {"JWT_TTL": "0s"},
		"bad smtp port": {"SMTP_PORT": "smtp"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_ADMIN_PASSWORD")

	t.Setenv("DEFAULT_ADMIN_PASSWORD", "a-real-password")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
