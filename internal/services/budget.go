package services

import (
	"context"
	"errors"
	"fmt"

	"tally/internal/core"
	"tally/internal/storage"
)

// BudgetService manages per-month spending budgets. The budget never blocks
// spending; it only reports status and emits threshold alerts from the
// ledger's write path.
type BudgetService struct {
	store *storage.Store
}

func NewBudgetService(store *storage.Store) *BudgetService {
	return &BudgetService{store: store}
}

// Set upserts the budget for a month. A zero amount is allowed and means
// "everything spent counts against nothing saved".
func (s *BudgetService) Set(ctx context.Context, session core.Session, month core.Month, amount core.Money) error {
	if err := month.Validate(); err != nil {
		return err
	}
	if amount.Cents < 0 {
		return core.ErrInvalidAmount
	}
	if err := s.store.Queries().UpsertBudget(ctx, session.UserID, month, amount); err != nil {
		return fmt.Errorf("set budget for %s: %w", month, err)
	}
	return nil
}

// Status compares the month's budget against total ledger spend. When no
// budget row exists, Set is false and Savings/Ratio carry no meaning.
func (s *BudgetService) Status(ctx context.Context, session core.Session, month core.Month) (core.BudgetStatus, error) {
	q := s.store.Queries()

	spent, err := q.MonthlyTotal(ctx, session.UserID, month)
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("budget status for %s: %w", month, err)
	}

	status := core.BudgetStatus{Month: month, Spent: spent}

	budget, err := q.GetBudget(ctx, session.UserID, month)
	if errors.Is(err, core.ErrNotFound) {
		return status, nil
	}
	if err != nil {
		return core.BudgetStatus{}, fmt.Errorf("budget status for %s: %w", month, err)
	}

	status.Set = true
	status.Budget = budget.Amount
	status.Savings = budget.Amount.Sub(spent)
	if budget.Amount.Cents > 0 {
		status.Ratio = float64(spent.Cents) / float64(budget.Amount.Cents)
	}
	return status, nil
}

// History returns every budget the user has set, newest month first.
func (s *BudgetService) History(ctx context.Context, session core.Session) ([]core.Budget, error) {
	return s.store.Queries().ListBudgets(ctx, session.UserID)
}
