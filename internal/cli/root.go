// Package cli implements cartctl, the operator CLI for users, guests and fixtures.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"mycarts/internal/config"
	"mycarts/internal/db"
	"mycarts/internal/logger"
	activityrepo "mycarts/internal/repository/activity"
	cartrepo "mycarts/internal/repository/cart"
	userrepo "mycarts/internal/repository/user"
	"mycarts/internal/seed"
	usersvc "mycarts/internal/service/user"

	"github.com/spf13/cobra"
)

// Backend is what the commands operate on.
type Backend struct {
	Users  *usersvc.Service
	Stores seed.Stores
	Close  func()
}

// Opener builds a Backend for the loaded configuration.
type Opener func(ctx context.Context, cfg config.Config, log *slog.Logger) (*Backend, error)

type app struct {
	load    func() (config.Config, error)
	open    Opener
	cfg     config.Config
	log     *slog.Logger
	backend *Backend
}

var errNoTokenSecret = errors.New("TOKEN_SECRET is empty; tokens signed with a per-process key would be rejected by the API")

// newRootCmd wires the command tree. load and open are injectable for tests; the returned app
// must be closed after execution.
func newRootCmd(load func() (config.Config, error), open Opener) (*cobra.Command, *app) {
	a := &app{load: load, open: open}

	root := &cobra.Command{
		Use:               "cartctl",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Short:             "Operator CLI for the mycarts service",
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a.cfg, err = a.load()
			if err != nil {
				return err
			}
			a.log = logger.New(logger.Options{
				Service: "cartctl",
				Env:     a.cfg.AppEnv,
				Level:   a.cfg.LogLevel,
				Format:  a.cfg.LogFormat,
				Writer:  cmd.ErrOrStderr(),
			})
			a.backend, err = a.open(cmd.Context(), a.cfg, a.log)
			return err
		},
	}

	root.AddCommand(a.usersCmd(), a.guestsCmd(), a.resetCmd())
	return root, a
}

// close releases the backend whether or not the command succeeded.
func (a *app) close() {
	if a.backend != nil && a.backend.Close != nil {
		a.backend.Close()
	}
	a.backend = nil
}

// checkTokenSecret refuses to issue tokens that only this process could verify.
func (a *app) checkTokenSecret() error {
	if a.cfg.TokenSecret == "" && a.cfg.Storage == config.StoragePostgres {
		return errNoTokenSecret
	}
	return nil
}

// Execute runs cartctl against the configured storage.
func Execute() {
	root, a := newRootCmd(config.FromEnv, OpenBackend)
	err := root.ExecuteContext(context.Background())
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

// OpenBackend connects to Postgres. In-memory storage is accepted but only lives for one command.
func OpenBackend(ctx context.Context, cfg config.Config, log *slog.Logger) (*Backend, error) {
	if cfg.Storage == config.StorageMemory {
		return MemoryBackend(cfg), nil
	}
	if cfg.DBConnString == "" {
		return nil, errors.New("DB_DSN is required")
	}
	pool, err := db.Connect(ctx, cfg.DBConnString, log)
	if err != nil {
		return nil, err
	}
	users := userrepo.NewPostgres(pool, log)
	return &Backend{
		Users: usersvc.New(users, []byte(cfg.TokenSecret), cfg.TokenTTL),
		Stores: seed.Stores{
			Carts:    cartrepo.NewPostgres(pool),
			Activity: activityrepo.NewPostgres(pool),
			Users:    users,
		},
		Close: pool.Close,
	}, nil
}

// MemoryBackend builds a Backend on fresh in-memory stores.
func MemoryBackend(cfg config.Config) *Backend {
	users := userrepo.NewMemory()
	return &Backend{
		Users: usersvc.New(users, []byte(cfg.TokenSecret), cfg.TokenTTL),
		Stores: seed.Stores{
			Carts:    cartrepo.NewMemory(),
			Activity: activityrepo.NewMemory(),
			Users:    users,
		},
	}
}
