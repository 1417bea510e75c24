package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"mycarts/internal/config"
	"mycarts/internal/db"
	"mycarts/internal/importer"
	"mycarts/internal/logger"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a users/carts CSV file (username,guest,cart.<attr>...)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "mycarts-importer", Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		log.Error("connect db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Error("open file", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, userrepo.NewPostgres(pool, log), cartrepo.NewPostgres(pool))

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		log.Error("import failed", "err", err, "users", res.Users, "carts", res.Carts)
		os.Exit(1)
	}

	fmt.Printf("Imported %d users and %d carts in %s\n", res.Users, res.Carts, time.Since(start).Truncate(time.Millisecond))
}
