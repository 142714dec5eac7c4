// Package services implements the ledger and budget-control engine on top of
// the storage layer. Every operation takes an explicit session identifying
// the acting user; the engine holds no ambient user state.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/amqp"
	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

// LedgerService records, edits and aggregates transactions. It is the single
// write path for user spends; synthetic entries (goal contributions,
// reimbursements) are posted by their owning services inside the same
// database transaction as the state they mirror.
type LedgerService struct {
	store      *storage.Store
	alerts     AlertPublisher
	categories *CategoryService
	summaries  *cache.Cache[core.MonthOverview]
}

func NewLedgerService(store *storage.Store, alerts AlertPublisher, categories *CategoryService, summaries *cache.Cache[core.MonthOverview]) *LedgerService {
	return &LedgerService{
		store:      store,
		alerts:     alerts,
		categories: categories,
		summaries:  summaries,
	}
}

// Record validates and stores a user spend, then re-evaluates category and
// budget controls for the transaction's month. Spending into a locked
// category fails before anything is written.
func (s *LedgerService) Record(ctx context.Context, session core.Session, draft core.TransactionDraft) (int64, error) {
	if err := draft.Validate(); err != nil {
		return 0, err
	}

	q := s.store.Queries()
	cat, err := q.GetCategory(ctx, session.UserID, draft.Category)
	if err != nil {
		return 0, fmt.Errorf("record: category %q: %w", draft.Category, err)
	}
	if cat.Locked {
		return 0, fmt.Errorf("record into %q: %w", draft.Category, core.ErrCategoryLocked)
	}

	id, err := q.InsertTransaction(ctx, storage.InsertTransactionParams{
		UserID:      session.UserID,
		Amount:      draft.Amount,
		Category:    draft.Category,
		Kind:        core.KindSpend,
		Date:        draft.Date,
		Description: draft.Description,
	})
	if err != nil {
		return 0, fmt.Errorf("record: %w", err)
	}

	s.invalidateSummaries(session)
	s.afterSpend(ctx, session, draft.Category, core.MonthOf(draft.Date))

	slog.InfoContext(ctx, "Transaction recorded",
		"user_id", session.UserID,
		"transaction_id", id,
		"category", draft.Category,
		"amount_cents", draft.Amount.Cents)
	return id, nil
}

// Edit replaces the user-editable fields of a transaction. Moving a spend
// into a locked category is blocked the same way recording is; synthetic
// entries keep their lock bypass.
func (s *LedgerService) Edit(ctx context.Context, session core.Session, id int64, draft core.TransactionDraft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	q := s.store.Queries()
	existing, err := q.GetTransaction(ctx, id, session.UserID)
	if err != nil {
		return fmt.Errorf("edit transaction %d: %w", id, err)
	}

	if !existing.Kind.Synthetic() {
		cat, err := q.GetCategory(ctx, session.UserID, draft.Category)
		if err != nil {
			return fmt.Errorf("edit: category %q: %w", draft.Category, err)
		}
		if cat.Locked {
			return fmt.Errorf("edit into %q: %w", draft.Category, core.ErrCategoryLocked)
		}
	}

	if err := q.UpdateTransaction(ctx, id, session.UserID, draft); err != nil {
		return fmt.Errorf("edit transaction %d: %w", id, err)
	}

	s.invalidateSummaries(session)
	if !existing.Kind.Synthetic() {
		s.afterSpend(ctx, session, draft.Category, core.MonthOf(draft.Date))
	}
	return nil
}

// SoftDelete hides a transaction from aggregates. Deleting an already
// deleted or unknown transaction is a no-op.
func (s *LedgerService) SoftDelete(ctx context.Context, session core.Session, id int64) error {
	if err := s.store.Queries().SetTransactionDeleted(ctx, id, session.UserID, true); err != nil {
		return fmt.Errorf("soft delete transaction %d: %w", id, err)
	}
	s.invalidateSummaries(session)
	return nil
}

// Restore reverses a soft delete. Restoring a never-deleted or unknown
// transaction is a no-op.
func (s *LedgerService) Restore(ctx context.Context, session core.Session, id int64) error {
	if err := s.store.Queries().SetTransactionDeleted(ctx, id, session.UserID, false); err != nil {
		return fmt.Errorf("restore transaction %d: %w", id, err)
	}
	s.invalidateSummaries(session)
	return nil
}

// PurgeTrash permanently removes all soft-deleted transactions and returns
// how many were purged.
func (s *LedgerService) PurgeTrash(ctx context.Context, session core.Session) (int64, error) {
	n, err := s.store.Queries().PurgeTrash(ctx, session.UserID)
	if err != nil {
		return 0, fmt.Errorf("purge trash: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Trash purged", "user_id", session.UserID, "removed", n)
	}
	return n, nil
}

func (s *LedgerService) Get(ctx context.Context, session core.Session, id int64) (core.Transaction, error) {
	return s.store.Queries().GetTransaction(ctx, id, session.UserID)
}

// MonthlyTotal sums non-deleted amounts for the month, optionally filtered
// by category. An empty category means all categories.
func (s *LedgerService) MonthlyTotal(ctx context.Context, session core.Session, month core.Month, category string) (core.Money, error) {
	q := s.store.Queries()
	if category == "" {
		return q.MonthlyTotal(ctx, session.UserID, month)
	}
	return q.MonthlyCategoryTotal(ctx, session.UserID, month, category)
}

// TopCategory returns the category with the largest summed amount for the
// month. The second return value is false when the month has no
// transactions.
func (s *LedgerService) TopCategory(ctx context.Context, session core.Session, month core.Month) (core.CategoryAmount, bool, error) {
	ca, err := s.store.Queries().TopCategory(ctx, session.UserID, month)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.CategoryAmount{}, false, nil
		}
		return core.CategoryAmount{}, false, err
	}
	return ca, true, nil
}

// MonthOverview returns the dashboard summary for a month, served from the
// shared cache when fresh.
func (s *LedgerService) MonthOverview(ctx context.Context, session core.Session, month core.Month) (core.MonthOverview, error) {
	key := summaryKey(session, month)
	if ov, ok := s.summaries.Get(key); ok {
		return ov, nil
	}

	q := s.store.Queries()
	total, err := q.MonthlyTotal(ctx, session.UserID, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("month overview: %w", err)
	}
	byCategory, err := q.CategorySums(ctx, session.UserID, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("month overview: %w", err)
	}

	ov := core.MonthOverview{Month: month, Total: total, ByCategory: byCategory}
	s.summaries.Set(key, ov)
	return ov, nil
}

func (s *LedgerService) ListByMonth(ctx context.Context, session core.Session, month core.Month) ([]core.Transaction, error) {
	return s.store.Queries().ListByMonth(ctx, session.UserID, month)
}

func (s *LedgerService) ListRecent(ctx context.Context, session core.Session, limit int) ([]core.Transaction, error) {
	return s.store.Queries().ListRecent(ctx, session.UserID, limit)
}

func (s *LedgerService) ListTrash(ctx context.Context, session core.Session) ([]core.Transaction, error) {
	return s.store.Queries().ListTrash(ctx, session.UserID)
}

// afterSpend re-evaluates category control and the month budget after a
// spend-kind write. Control failures are logged, never propagated: the write
// that triggered them has already committed.
func (s *LedgerService) afterSpend(ctx context.Context, session core.Session, category string, month core.Month) {
	if _, err := s.categories.CheckAndLock(ctx, session, category); err != nil {
		slog.ErrorContext(ctx, "Category check failed",
			"error", err, "user_id", session.UserID, "category", category)
	}
	s.checkBudget(ctx, session, month)
}

// checkBudget publishes threshold alerts when the month's spend crosses 80%
// of, or exceeds, the configured budget. Months without a budget are silent.
func (s *LedgerService) checkBudget(ctx context.Context, session core.Session, month core.Month) {
	q := s.store.Queries()
	budget, err := q.GetBudget(ctx, session.UserID, month)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.ErrorContext(ctx, "Budget check failed", "error", err, "user_id", session.UserID)
		}
		return
	}
	if budget.Amount.Cents <= 0 {
		return
	}

	spent, err := q.MonthlyTotal(ctx, session.UserID, month)
	if err != nil {
		slog.ErrorContext(ctx, "Budget check failed", "error", err, "user_id", session.UserID)
		return
	}

	var kind amqp.AlertKind
	switch {
	case spent.Cents >= budget.Amount.Cents:
		kind = amqp.AlertBudgetOver
	case spent.Cents*5 >= budget.Amount.Cents*4: // spent >= 0.8 * budget, in cents
		kind = amqp.AlertBudgetWarn
	default:
		return
	}

	publishAlert(ctx, s.alerts, &amqp.AlertMessage{
		Kind:       kind,
		UserID:     session.UserID,
		Month:      month.String(),
		SpentCents: spent.Cents,
		LimitCents: budget.Amount.Cents,
		Timestamp:  time.Now(),
	})
}

func (s *LedgerService) invalidateSummaries(session core.Session) {
	s.summaries.InvalidatePrefix(fmt.Sprintf("%d/", session.UserID))
}

func summaryKey(session core.Session, month core.Month) string {
	return fmt.Sprintf("%d/%s", session.UserID, month)
}
