package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults for the memory driver", func(t *testing.T) {
		req := require.New(t)
		t.Setenv("STORE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "s3cret")

		cfg, err := LoadConfig()
		req.NoError(err)
		req.Equal("8080", cfg.HTTPPort)
		req.Equal(DriverMemory, cfg.StoreDriver)
		req.Equal(time.Hour, cfg.TokenExpiration)
		req.Equal(4000, cfg.MaxMessageLength)
		req.Equal([]string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.AllowedOrigins)
	})

	t.Run("should read overrides", func(t *testing.T) {
		req := require.New(t)
		t.Setenv("STORE_DRIVER", "POSTGRES")
		t.Setenv("DATABASE_URL", "postgres://localhost/tutorhub")
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("JWT_EXPIRATION_HOURS", "24")
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
		t.Setenv("SEND_RATE_LIMIT_RPM", "5")

		cfg, err := LoadConfig()
		req.NoError(err)
		req.Equal(DriverPostgres, cfg.StoreDriver)
		req.Equal(24*time.Hour, cfg.TokenExpiration)
		req.Equal([]string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
		req.Equal(5, cfg.SendRateLimitPerMin)
	})

	t.Run("should report every invalid setting", func(t *testing.T) {
		req := require.New(t)
		t.Setenv("STORE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "")
		t.Setenv("MAX_MESSAGE_LENGTH", "lots")

		_, err := LoadConfig()
		req.Error(err)
		req.ErrorContains(err, "DATABASE_URL")
		req.ErrorContains(err, "JWT_SECRET")
		req.ErrorContains(err, "MAX_MESSAGE_LENGTH")
	})

	t.Run("should reject an unknown driver", func(t *testing.T) {
		req := require.New(t)
		t.Setenv("STORE_DRIVER", "mysql")
		t.Setenv("JWT_SECRET", "s3cret")

		_, err := LoadConfig()
		req.ErrorContains(err, "STORE_DRIVER")
	})
}
