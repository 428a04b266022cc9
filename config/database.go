// institution-portal/config/database.go
package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the postgres connection described by the config. Startup
// cannot proceed without a database, so failures terminate the process.
func ConnectDB(cfg *Config) *gorm.DB {
	if cfg.DatabaseURL == "" {
		slog.Error("DB_URL environment variable is not set")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Connected to database")
	return db
}
