package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values of STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort        string
	DatabaseURL     string
	StoreDriver     string
	JWTSecret       string
	TokenExpiration time.Duration
	AllowedOrigins  []string

	MaxMessageLength    int // In runes
	SendRateLimitPerMin int
	AuthRateLimitPerMin int
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not fatal: production injects real environment variables.
		log.Println("Warning: Could not load .env file. Using environment variables only.")
	}

	var errs []error
	intEnv := func(key, fallback string) int {
		raw := getEnv(key, fallback)
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive integer, got %q", key, raw))
			return 0
		}
		return n
	}

	cfg := &Config{
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		StoreDriver:         strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenExpiration:     time.Hour * time.Duration(intEnv("JWT_EXPIRATION_HOURS", "1")),
		AllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		MaxMessageLength:    intEnv("MAX_MESSAGE_LENGTH", "4000"),
		SendRateLimitPerMin: intEnv("SEND_RATE_LIMIT_RPM", "60"),
		AuthRateLimitPerMin: intEnv("AUTH_RATE_LIMIT_RPM", "10"),
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL environment variable is not set"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, cfg.StoreDriver))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is not set"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	log.Printf("Loaded config: Port=%s, Store=%s, DB_URL=***, TokenExp=%s, Origins=%v", cfg.HTTPPort, cfg.StoreDriver, cfg.TokenExpiration, cfg.AllowedOrigins)
	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
