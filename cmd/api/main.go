package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/assetflow/assetflow/internal/config"
	"github.com/assetflow/assetflow/internal/db"
	"github.com/assetflow/assetflow/internal/repo"
	"github.com/assetflow/assetflow/internal/scheduler"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		slog.Error("JWT_SECRET must be set in prod")
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
	if err != nil {
		slog.Error("connect to database", "err", err)
		os.Exit(1)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	databaseURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err := db.Run(databaseURL); err != nil {
		slog.Error("run migrations", "err", err)
		os.Exit(1)
	}
	slog.Info("database ready")

	go scheduler.Run(repo.NewRequestRepo(database), time.Duration(cfg.StaleRequestHours)*time.Hour)

	r := newRouter(database, cfg)

	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server (https)", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// setupLogger configures the default slog logger: text for dev, json for
// aggregation pipelines.
func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
