package main

import (
	"context"
	"log/slog"
	"os"

	"mycarts/internal/config"
	"mycarts/internal/db"
	"mycarts/internal/logger"
	activityrepo "mycarts/internal/repository/activity"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"
	"mycarts/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "mycarts-seed", Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	stores := seed.Stores{
		Carts:    cartrepo.NewPostgres(pool),
		Activity: activityrepo.NewPostgres(pool),
		Users:    userrepo.NewPostgres(pool, log),
	}
	if err := seed.Reset(ctx, stores, seed.DemoUsername); err != nil {
		log.Error("reset fixtures", "err", err)
		os.Exit(1)
	}
	demo, err := seed.Apply(ctx, stores)
	if err != nil {
		log.Error("seed apply", "err", err)
		os.Exit(1)
	}

	log.Info("seed applied", "user", demo.Username, "user_id", demo.ID)
}
