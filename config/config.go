// institution-portal/config/config.go
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the application needs. It is built once
// in main and passed by reference into the components that use it.
type Config struct {
	Port        string
	Env         string // development | production
	DatabaseURL string
	RedisAddr   string

	JWTSecret []byte
	TokenTTL  time.Duration
	OTPTTL    time.Duration

	SendgridAPIKey string
	FromEmail      string
	AppName        string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present so local development needs no exports.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded configuration from .env file")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		Env:            getEnv("APP_ENV", "development"),
		DatabaseURL:    getEnv("DB_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		JWTSecret:      []byte(getEnv("SECRET_KEY", "")),
		TokenTTL:       getDuration("ACCESS_TOKEN_EXPIRE_MINUTES", 30) * time.Minute,
		OTPTTL:         getDuration("OTP_EXPIRE_MINUTES", 10) * time.Minute,
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		FromEmail:      getEnv("FROM_EMAIL", "onboarding@institution-portal.dev"),
		AppName:        getEnv("APP_NAME", "Institution Portal"),
	}

	if len(cfg.JWTSecret) == 0 {
		slog.Error("SECRET_KEY environment variable is not set")
		os.Exit(1)
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n)
		}
		slog.Warn("Invalid numeric value in environment, using default", "key", key, "value", v)
	}
	return time.Duration(def)
}
