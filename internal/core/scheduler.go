package core

// scheduler.go runs periodic maintenance:
//  1. Delete drafts whose expiry has passed.
//  2. Delete admin sessions whose expiry has passed.
//
// The scheduler is long-running and stops when its context is cancelled.
// Failures are logged and retried on the next tick; they never stop the
// server.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultMaintenanceInterval is used when the configured interval is not positive.
const DefaultMaintenanceInterval = time.Hour

// StartMaintenanceScheduler runs the maintenance job immediately and then
// every interval until ctx is cancelled.
func (s *Service) StartMaintenanceScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultMaintenanceInterval
	}
	slog.Info("maintenance scheduler started", "interval", interval.String())

	s.RunMaintenance(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("maintenance scheduler stopped")
			return
		case <-ticker.C:
			s.RunMaintenance(ctx)
		}
	}
}

// RunMaintenance performs one purge cycle.
func (s *Service) RunMaintenance(ctx context.Context) {
	start := time.Now()

	drafts, err := s.PurgeExpiredDrafts(ctx)
	if err != nil {
		slog.Error("draft purge failed", "error", err)
	} else if drafts > 0 {
		slog.Info("purged expired drafts", "drafts_purged", drafts)
	}

	sessions, err := s.PurgeExpiredSessions(ctx)
	if err != nil {
		slog.Error("session purge failed", "error", err)
	} else if sessions > 0 {
		slog.Info("purged expired admin sessions", "sessions_purged", sessions)
	}

	slog.Debug("maintenance completed", "duration_ms", time.Since(start).Milliseconds())
}
