package services

import (
	"context"
	"fmt"
	"log/slog"

	"tally/internal/core"
	"tally/internal/storage"
)

// ChallengeService tracks time-boxed per-category spending targets. Progress
// is never accumulated: Recompute overwrites it from ledger aggregates, so a
// soft delete or restore is reflected on the next cycle with no bookkeeping.
type ChallengeService struct {
	store *storage.Store
}

func NewChallengeService(store *storage.Store) *ChallengeService {
	return &ChallengeService{store: store}
}

// Create registers a challenge. The category must exist; progress starts at
// zero and is filled in by the next recompute.
func (s *ChallengeService) Create(ctx context.Context, session core.Session, c core.Challenge) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	c.UserID = session.UserID
	c.Current = core.Money{}

	q := s.store.Queries()
	if _, err := q.GetCategory(ctx, session.UserID, c.Category); err != nil {
		return 0, fmt.Errorf("create challenge: category %q: %w", c.Category, err)
	}

	id, err := q.InsertChallenge(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create challenge: %w", err)
	}
	return id, nil
}

// Recompute overwrites the progress of every challenge whose window covers
// the month with the sum of positive, non-deleted spend amounts in its
// category for that month. Credits never reduce progress. The recomputation
// is idempotent and must run before challenge state is read for the month.
func (s *ChallengeService) Recompute(ctx context.Context, session core.Session, month core.Month) error {
	return s.store.WithTx(ctx, func(q *storage.Queries) error {
		challenges, err := q.ListChallengesCovering(ctx, session.UserID, month)
		if err != nil {
			return fmt.Errorf("recompute challenges: %w", err)
		}

		for _, c := range challenges {
			current, err := q.MonthlyPositiveSpendTotal(ctx, session.UserID, month, c.Category)
			if err != nil {
				return fmt.Errorf("recompute challenge %d: %w", c.ID, err)
			}
			if current.Cents == c.Current.Cents {
				continue
			}
			if err := q.UpdateChallengeCurrent(ctx, c.ID, session.UserID, current); err != nil {
				return fmt.Errorf("recompute challenge %d: %w", c.ID, err)
			}
			slog.DebugContext(ctx, "Challenge progress recomputed",
				"user_id", session.UserID,
				"challenge_id", c.ID,
				"category", c.Category,
				"current_cents", current.Cents)
		}
		return nil
	})
}

// Update replaces the editable fields; progress stays derived and is not
// editable here. The category must exist, same as at creation.
func (s *ChallengeService) Update(ctx context.Context, session core.Session, c core.Challenge) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.UserID = session.UserID
	if _, err := s.store.Queries().GetCategory(ctx, session.UserID, c.Category); err != nil {
		return fmt.Errorf("update challenge: category %q: %w", c.Category, err)
	}
	if err := s.store.Queries().UpdateChallenge(ctx, c); err != nil {
		return fmt.Errorf("update challenge %d: %w", c.ID, err)
	}
	return nil
}

// Complete sets the one-way completion flag.
func (s *ChallengeService) Complete(ctx context.Context, session core.Session, id int64) error {
	if err := s.store.Queries().CompleteChallenge(ctx, id, session.UserID); err != nil {
		return fmt.Errorf("complete challenge %d: %w", id, err)
	}
	return nil
}

func (s *ChallengeService) Delete(ctx context.Context, session core.Session, id int64) error {
	if err := s.store.Queries().DeleteChallenge(ctx, id, session.UserID); err != nil {
		return fmt.Errorf("delete challenge %d: %w", id, err)
	}
	return nil
}

func (s *ChallengeService) Get(ctx context.Context, session core.Session, id int64) (core.Challenge, error) {
	return s.store.Queries().GetChallenge(ctx, id, session.UserID)
}

func (s *ChallengeService) List(ctx context.Context, session core.Session) ([]core.Challenge, error) {
	return s.store.Queries().ListChallenges(ctx, session.UserID)
}
