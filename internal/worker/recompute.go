// Package worker contains the background loops: the periodic challenge
// recompute sweep and the alert consumer handler.
package worker

import (
	"context"
	"log/slog"
	"time"

	"tally/internal/core"
	"tally/internal/services"
	"tally/internal/storage"
)

// Recomputer periodically overwrites challenge progress for every user from
// ledger aggregates. Challenge progress is derived state, so the sweep is
// idempotent and safe to run at any cadence.
type Recomputer struct {
	store      *storage.Store
	challenges *services.ChallengeService
	interval   time.Duration
}

func NewRecomputer(store *storage.Store, challenges *services.ChallengeService, interval time.Duration) *Recomputer {
	return &Recomputer{store: store, challenges: challenges, interval: interval}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (r *Recomputer) Run(ctx context.Context) error {
	if err := r.sweep(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial recompute sweep failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "Recompute sweep failed", "error", err)
			}
		}
	}
}

// sweep recomputes the current month's challenges for every user. A failure
// for one user does not stop the sweep for the rest.
func (r *Recomputer) sweep(ctx context.Context) error {
	ids, err := r.store.Queries().ListUserIDs(ctx)
	if err != nil {
		return err
	}

	month := core.CurrentMonth()
	for _, id := range ids {
		session := core.Session{UserID: id}
		if err := r.challenges.Recompute(ctx, session, month); err != nil {
			slog.ErrorContext(ctx, "Challenge recompute failed",
				"error", err, "user_id", id, "month", month.String())
		}
	}

	slog.DebugContext(ctx, "Recompute sweep complete", "users", len(ids), "month", month.String())
	return nil
}
