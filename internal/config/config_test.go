package config_test

import (
	"testing"
	"time"

	"rental/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test_jwt_secret")

	cfg, err := config.Load(config.NewViper())
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "None", cfg.CookieSameSite)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "http://127.0.0.1:5173", cfg.CORSOrigin)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "Memory")
	t.Setenv("TOKEN_TTL", "0s")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("COOKIE_SAMESITE", "Lax")

	cfg, err := config.Load(config.NewViper())
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Zero(t, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "Lax", cfg.CookieSameSite)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"bad cost", map[string]string{"JWT_SECRET": "s", "BCRYPT_COST": "99"}, "BCRYPT_COST"},
		{"wildcard origin", map[string]string{"JWT_SECRET": "s", "CORS_ORIGIN": "*"}, "CORS_ORIGIN"},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "mongo"}, "DB_DRIVER"},
		{"negative ttl", map[string]string{"JWT_SECRET": "s", "TOKEN_TTL": "-1h"}, "TOKEN_TTL"},
		{"bad samesite", map[string]string{"JWT_SECRET": "s", "COOKIE_SAMESITE": "sometimes"}, "COOKIE_SAMESITE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(config.NewViper())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
