package main

import (
	"context"
	"log/slog"
	"os"

	"mycarts/internal/config"
	"mycarts/internal/db"
	"mycarts/internal/logger"
	"mycarts/internal/migrate"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "mycarts-migrate", Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		log.Error("apply migrations", "err", err)
		os.Exit(1)
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		log.Error("read schema version", "err", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "version", version, "dirty", dirty)
}
