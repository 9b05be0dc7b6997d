package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/assetflow/assetflow/internal/metrics"
	"github.com/assetflow/assetflow/internal/repo"
)

// Run starts a background sweep that counts pending deletion requests older
// than staleAge and exports the count as a gauge. It gives admins a signal
// that requests are sitting unreviewed; it never mutates request state.
// Blocks; run in a goroutine.
func Run(requestRepo *repo.RequestRepo, staleAge time.Duration) {
	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		n, err := requestRepo.CountStalePending(ctx, staleAge)
		if err != nil {
			slog.Error("scheduler: count stale pending requests", "err", err)
			return
		}
		metrics.SetStalePending(n)
		if n > 0 {
			slog.Warn("stale pending deletion requests", "count", n, "older_than", staleAge.String())
		}
	}

	c := cron.New()
	if _, err := c.AddFunc("@every 10m", sweep); err != nil {
		slog.Error("scheduler: add sweep job", "err", err)
		return
	}

	sweep()
	c.Run()
}
