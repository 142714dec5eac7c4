package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

// GoalService tracks savings goals. A goal's current amount accumulates on
// write and is user-adjustable; this is deliberately asymmetric with
// challenges, whose progress is purely derived.
type GoalService struct {
	store     *storage.Store
	summaries *cache.Cache[core.MonthOverview]
}

func NewGoalService(store *storage.Store, summaries *cache.Cache[core.MonthOverview]) *GoalService {
	return &GoalService{store: store, summaries: summaries}
}

func (s *GoalService) Create(ctx context.Context, session core.Session, g core.Goal) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	g.UserID = session.UserID
	g.CreatedDate = core.Today()

	id, err := s.store.Queries().InsertGoal(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}
	return id, nil
}

// Contribute adds a positive amount to a goal and posts a mirrored ledger
// entry: contributions reduce disposable funds the same way a spend does. A
// contribution that would push the goal past its target needs the override
// flag, otherwise it fails with ErrConfirmationRequired. Completion stays a
// separate, explicit action even when the target is reached.
func (s *GoalService) Contribute(ctx context.Context, session core.Session, goalID int64, amount core.Money, override bool) (core.Goal, error) {
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}

	var updated core.Goal
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		g, err := q.GetGoal(ctx, goalID, session.UserID)
		if err != nil {
			return fmt.Errorf("contribute to goal %d: %w", goalID, err)
		}

		newCurrent := g.Current.Add(amount)
		if newCurrent.Cents > g.Target.Cents && !override {
			return fmt.Errorf("goal %q would exceed target: %w", g.Name, core.ErrConfirmationRequired)
		}

		if err := q.UpdateGoalCurrent(ctx, goalID, session.UserID, newCurrent); err != nil {
			return fmt.Errorf("contribute to goal %d: %w", goalID, err)
		}
		if _, err := q.InsertTransaction(ctx, storage.InsertTransactionParams{
			UserID:      session.UserID,
			Amount:      amount,
			Category:    core.GoalCategory,
			Kind:        core.KindGoal,
			Date:        core.Today(),
			Description: g.Name,
		}); err != nil {
			return fmt.Errorf("record goal contribution: %w", err)
		}

		g.Current = newCurrent
		updated = g
		return nil
	})
	if err != nil {
		return core.Goal{}, err
	}

	s.summaries.InvalidatePrefix(fmt.Sprintf("%d/", session.UserID))
	slog.InfoContext(ctx, "Goal contribution recorded",
		"user_id", session.UserID,
		"goal_id", goalID,
		"amount_cents", amount.Cents,
		"current_cents", updated.Current.Cents)
	return updated, nil
}

// Update replaces the editable goal fields; the one-way completion flag is
// untouched. A current amount above the target is legitimate for goals that
// were overshot with a confirmed contribution, so it needs the same override
// here instead of failing outright.
func (s *GoalService) Update(ctx context.Context, session core.Session, g core.Goal, override bool) error {
	if err := g.Validate(); err != nil {
		if !errors.Is(err, core.ErrTargetExceeded) {
			return err
		}
		if !override {
			return fmt.Errorf("goal %q exceeds its target: %w", g.Name, core.ErrConfirmationRequired)
		}
	}
	g.UserID = session.UserID
	if err := s.store.Queries().UpdateGoal(ctx, g); err != nil {
		return fmt.Errorf("update goal %d: %w", g.ID, err)
	}
	return nil
}

// Complete sets the one-way completion flag with no ledger side effect.
func (s *GoalService) Complete(ctx context.Context, session core.Session, goalID int64) error {
	if err := s.store.Queries().CompleteGoal(ctx, goalID, session.UserID); err != nil {
		return fmt.Errorf("complete goal %d: %w", goalID, err)
	}
	return nil
}

// Delete removes the goal. Past contribution transactions stay in the
// ledger; the money was spent.
func (s *GoalService) Delete(ctx context.Context, session core.Session, goalID int64) error {
	if err := s.store.Queries().DeleteGoal(ctx, goalID, session.UserID); err != nil {
		return fmt.Errorf("delete goal %d: %w", goalID, err)
	}
	return nil
}

func (s *GoalService) Get(ctx context.Context, session core.Session, goalID int64) (core.Goal, error) {
	return s.store.Queries().GetGoal(ctx, goalID, session.UserID)
}

func (s *GoalService) List(ctx context.Context, session core.Session) ([]core.Goal, error) {
	return s.store.Queries().ListGoals(ctx, session.UserID)
}
