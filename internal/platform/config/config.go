package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageBolt     = "bolt"
)

const (
	defaultRateLimit       = "30-M"
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StorageDriver string
	DatabaseURL   string
	BoltPath      string
	EnableDBCheck bool

	JWTSecret string
	JWTIssuer string

	GeminiAPIKey      string
	GeminiAccessToken string
	GeminiModel       string

	PosthogAPIKey   string
	PosthogEndpoint string

	CORSAllowedOrigins []string
	RateLimit          string
	ShutdownTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and a .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("BOLT_PATH", "tallybeam.db")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_ACCESS_TOKEN", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("SHUTDOWN_TIMEOUT", defaultShutdownTimeout.String())
	v.AutomaticEnv()

	cfg := &Config{
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		StorageDriver:     strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:       v.GetString("PGSQL_URL"),
		BoltPath:          v.GetString("BOLT_PATH"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		GeminiAccessToken: v.GetString("GEMINI_ACCESS_TOKEN"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),
		PosthogAPIKey:     v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:   v.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT not set, using default", slog.String("port", cfg.Port))
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageBolt:
		if cfg.BoltPath == "" {
			return nil, fmt.Errorf("BOLT_PATH is required when STORAGE_DRIVER is %q", StorageBolt)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", cfg.StorageDriver, StoragePostgres, StorageBolt)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "insecure-development-secret-change-me"
		slog.Warn("JWT_SECRET not set. Using an insecure development secret.")
	}

	if cfg.GeminiAPIKey == "" && cfg.GeminiAccessToken == "" {
		slog.Warn("Neither GEMINI_API_KEY nor GEMINI_ACCESS_TOKEN set. Invoice text parsing is disabled.")
	}

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.RateLimit = v.GetString("RATE_LIMIT")
	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		slog.Warn("Invalid RATE_LIMIT, using default", slog.String("value", cfg.RateLimit), slog.String("default", defaultRateLimit))
		cfg.RateLimit = defaultRateLimit
	}

	shutdownStr := v.GetString("SHUTDOWN_TIMEOUT")
	shutdown, err := time.ParseDuration(shutdownStr)
	if err != nil || shutdown <= 0 {
		slog.Warn("Invalid SHUTDOWN_TIMEOUT, using default", slog.String("value", shutdownStr), slog.String("default", defaultShutdownTimeout.String()))
		shutdown = defaultShutdownTimeout
	}
	cfg.ShutdownTimeout = shutdown

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
