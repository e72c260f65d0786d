package service

import (
	"context"
	"log/slog"
	"time"
)

// SessionSweeper periodically removes expired rows from the session ledger.
// Validation never trusts the ledger to be swept, so this job is purely
// housekeeping; it runs on its own timer, never on the request path.
type SessionSweeper struct {
	auth     *AuthService
	interval time.Duration
}

// NewSessionSweeper creates a sweeper that fires every interval.
func NewSessionSweeper(auth *AuthService, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{auth: auth, interval: interval}
}

// Run blocks, sweeping on each tick until the context is cancelled.
func (sw *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sw.auth.SweepExpiredSessions(ctx)
			if err != nil {
				slog.Error("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("swept expired sessions", "removed", removed)
			}
		}
	}
}
