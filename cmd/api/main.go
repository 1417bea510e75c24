package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mycarts/internal/config"
	"mycarts/internal/db"
	"mycarts/internal/httpserver"
	"mycarts/internal/intent"
	"mycarts/internal/logger"
	"mycarts/internal/migrate"
	activityrepo "mycarts/internal/repository/activity"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"
	cartsvc "mycarts/internal/service/cart"
	usersvc "mycarts/internal/service/user"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		Service: "mycarts-api",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	slog.SetDefault(log)
	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		pinger   httpserver.Pinger
		carts    cartrepo.Repository
		users    userrepo.Repository
		activity activityrepo.Repository
	)
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on exit")
		carts = cartrepo.NewMemory()
		users = userrepo.NewMemory()
		activity = activityrepo.NewMemory()
	default:
		pool, err := db.Connect(ctx, cfg.DBConnString, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		version, dirty, err := migrate.Version(ctx, pool)
		if err != nil {
			return err
		}
		if version == 0 || dirty {
			log.Warn("schema not migrated, run cmd/migrate", "version", version, "dirty", dirty)
		}
		pinger = pool
		carts = cartrepo.NewPostgres(pool)
		users = userrepo.NewPostgres(pool, log)
		activity = activityrepo.NewPostgres(pool)
	}

	if cfg.TokenSecret == "" {
		log.Warn("TOKEN_SECRET is empty, issued tokens will not survive a restart")
	}
	policy := intent.NewRegistry()
	userService := usersvc.New(users, []byte(cfg.TokenSecret), cfg.TokenTTL)
	cartService := cartsvc.New(carts, policy, activity, log)
	reaper := usersvc.NewReaper(userService, cfg.GuestMaxAge, cfg.ReapInterval, log)

	srv, err := httpserver.New(cfg.HTTPAddr, log, pinger, httpserver.Deps{
		CartSvc:  cartService,
		UserSvc:  userService,
		Activity: activity,
	}, httpserver.Options{
		AdminKey:       cfg.AdminKey,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		GuestMaxAge:    cfg.GuestMaxAge,
	})
	if err != nil {
		return err
	}
	if cfg.AdminKey == "" {
		log.Info("ADMIN_KEY is empty, admin routes are disabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reaper.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			return err
		}
		log.Info("server stopped")
		return nil
	})

	return g.Wait()
}
