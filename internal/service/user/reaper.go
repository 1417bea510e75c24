package user

import (
	"context"
	"log/slog"
	"time"

	"mycarts/internal/logger"
)

type guestReaper interface {
	ReapGuests(ctx context.Context, age time.Duration) (int64, error)
}

// Reaper periodically removes stale guest accounts.
type Reaper struct {
	svc      guestReaper
	age      time.Duration
	interval time.Duration
	logger   *slog.Logger
}

func NewReaper(svc guestReaper, age, interval time.Duration, log *slog.Logger) *Reaper {
	if log == nil {
		log = logger.Discard()
	}
	return &Reaper{svc: svc, age: age, interval: interval, logger: log}
}

// Run sweeps once immediately and then every interval until ctx is done. A non-positive
// interval disables the loop.
func (r *Reaper) Run(ctx context.Context) error {
	if r.interval <= 0 {
		r.logger.Info("guest reaper disabled")
		return nil
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.sweep(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Reaper) sweep(ctx context.Context) {
	removed, err := r.svc.ReapGuests(ctx, r.age)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("reap guests failed", "err", err)
		}
		return
	}
	if removed > 0 {
		r.logger.Info("reaped guests", "removed", removed, "age", r.age.String())
	}
}
