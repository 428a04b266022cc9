// institution-portal/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"institution-portal/config"
	"institution-portal/internal/handlers"
	"institution-portal/internal/ledger"
	"institution-portal/internal/middleware"
	"institution-portal/internal/routes"
	"institution-portal/models"
	"institution-portal/services/mailer"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db := config.ConnectDB(cfg)
	if err := models.Migrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	rdb := config.ConnectRedis(cfg)

	var mail mailer.Mailer
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.FromEmail, cfg.AppName)
	} else {
		slog.Warn("SENDGRID_API_KEY not set, OTP emails will be logged to stdout")
		mail = mailer.NewConsoleMailer()
	}

	hub := handlers.NewChatHub(db)
	go hub.Run()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	routes.Register(r, routes.Deps{
		Auth:        handlers.NewAuthHandler(db, cfg, mail),
		Institution: handlers.NewInstitutionHandler(db, rdb),
		Dashboard:   handlers.NewDashboardHandler(db),
		Staff:       handlers.NewStaffHandler(db),
		Pay:         handlers.NewPayHandler(ledger.NewEngine(db)),
		Vault:       handlers.NewVaultHandler(db),
		Attendance:  handlers.NewAttendanceHandler(db),
		Profile:     handlers.NewProfileHandler(db),
		Chat:        hub,
		AuthMW:      middleware.Auth(db, rdb, cfg.JWTSecret),
	})

	slog.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
