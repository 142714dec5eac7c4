package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/storage"
)

// CategoryService owns the per-user category registry and the monthly-limit
// lock state. The lock is sticky: once set it survives until an explicit
// unlock, regardless of later edits or deletions in the ledger.
type CategoryService struct {
	store  *storage.Store
	alerts AlertPublisher
}

func NewCategoryService(store *storage.Store, alerts AlertPublisher) *CategoryService {
	return &CategoryService{store: store, alerts: alerts}
}

// defaultCategories are seeded for every new user, limits in cents.
var defaultCategories = []struct {
	name       string
	limitCents int64
}{
	{"Food", 1000000},
	{"Transportation", 500000},
	{"Shopping", 800000},
	{"Entertainment", 300000},
	{"Utilities", 600000},
	{"Rent", 2000000},
	{"Others", 500000},
}

func seedDefaultCategories(ctx context.Context, q *storage.Queries, userID int64) error {
	for _, dc := range defaultCategories {
		limit := core.Money{Cents: dc.limitCents}
		if _, err := q.InsertCategory(ctx, userID, dc.name, &limit); err != nil {
			return fmt.Errorf("seed category %q: %w", dc.name, err)
		}
	}
	return nil
}

// CheckAndLock evaluates the category's current-month spend against its
// limit and transitions the lock when the limit is reached. An already
// locked category reports LOCKED without recomputation. Threshold
// comparisons are integer arithmetic on cents.
func (s *CategoryService) CheckAndLock(ctx context.Context, session core.Session, name string) (core.LimitCheck, error) {
	q := s.store.Queries()

	cat, err := q.GetCategory(ctx, session.UserID, name)
	if err != nil {
		return core.LimitCheck{}, fmt.Errorf("check category %q: %w", name, err)
	}

	if cat.Locked {
		check := core.LimitCheck{State: core.LimitLocked}
		if cat.MonthlyLimit != nil {
			check.Limit = *cat.MonthlyLimit
		}
		return check, nil
	}

	if cat.MonthlyLimit == nil {
		return core.LimitCheck{State: core.LimitOK}, nil
	}
	limit := *cat.MonthlyLimit

	month := core.CurrentMonth()
	spent, err := q.MonthlySpendTotal(ctx, session.UserID, month, name)
	if err != nil {
		return core.LimitCheck{}, fmt.Errorf("check category %q: %w", name, err)
	}

	check := core.LimitCheck{
		State: core.LimitOK,
		Spent: spent,
		Limit: limit,
		Ratio: float64(spent.Cents) / float64(limit.Cents),
	}

	switch {
	case spent.Cents >= limit.Cents:
		if err := q.SetCategoryLocked(ctx, session.UserID, name, true); err != nil {
			return core.LimitCheck{}, fmt.Errorf("lock category %q: %w", name, err)
		}
		check.State = core.LimitLocked
		slog.WarnContext(ctx, "Category locked",
			"user_id", session.UserID,
			"category", name,
			"spent_cents", spent.Cents,
			"limit_cents", limit.Cents)
		publishAlert(ctx, s.alerts, &amqp.AlertMessage{
			Kind:       amqp.AlertCategoryLocked,
			UserID:     session.UserID,
			Month:      month.String(),
			Category:   name,
			SpentCents: spent.Cents,
			LimitCents: limit.Cents,
			Timestamp:  time.Now(),
		})
	case spent.Cents*5 >= limit.Cents*4: // spent >= 0.8 * limit, in cents
		check.State = core.LimitWarn
		publishAlert(ctx, s.alerts, &amqp.AlertMessage{
			Kind:       amqp.AlertCategoryWarn,
			UserID:     session.UserID,
			Month:      month.String(),
			Category:   name,
			SpentCents: spent.Cents,
			LimitCents: limit.Cents,
			Timestamp:  time.Now(),
		})
	}

	return check, nil
}

// UnlockAll clears the lock on every category of the user.
func (s *CategoryService) UnlockAll(ctx context.Context, session core.Session) error {
	if err := s.store.Queries().UnlockAllCategories(ctx, session.UserID); err != nil {
		return fmt.Errorf("unlock all: %w", err)
	}
	slog.InfoContext(ctx, "All categories unlocked", "user_id", session.UserID)
	return nil
}

// Create adds a category; limit may be nil for an unlimited category.
func (s *CategoryService) Create(ctx context.Context, session core.Session, name string, limit *core.Money) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	if limit != nil {
		if err := limit.Validate(); err != nil {
			return fmt.Errorf("category limit: %w", err)
		}
	}

	q := s.store.Queries()
	if _, err := q.GetCategory(ctx, session.UserID, name); err == nil {
		return fmt.Errorf("category %q: %w", name, core.ErrCategoryExists)
	}

	if _, err := q.InsertCategory(ctx, session.UserID, name, limit); err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// SetLimit replaces the monthly limit; nil removes it.
func (s *CategoryService) SetLimit(ctx context.Context, session core.Session, name string, limit *core.Money) error {
	if limit != nil {
		if err := limit.Validate(); err != nil {
			return fmt.Errorf("category limit: %w", err)
		}
	}
	if err := s.store.Queries().SetCategoryLimit(ctx, session.UserID, name, limit); err != nil {
		return fmt.Errorf("set limit for %q: %w", name, err)
	}
	return nil
}

// Unlock clears the lock on one category.
func (s *CategoryService) Unlock(ctx context.Context, session core.Session, name string) error {
	if err := s.store.Queries().SetCategoryLocked(ctx, session.UserID, name, false); err != nil {
		return fmt.Errorf("unlock category %q: %w", name, err)
	}
	return nil
}

// Delete removes a category that no non-deleted transaction references.
func (s *CategoryService) Delete(ctx context.Context, session core.Session, name string) error {
	q := s.store.Queries()

	n, err := q.CountCategoryTransactions(ctx, session.UserID, name)
	if err != nil {
		return fmt.Errorf("delete category %q: %w", name, err)
	}
	if n > 0 {
		return fmt.Errorf("category %q has %d transactions: %w", name, n, core.ErrCategoryInUse)
	}

	if err := q.DeleteCategory(ctx, session.UserID, name); err != nil {
		return fmt.Errorf("delete category %q: %w", name, err)
	}
	return nil
}

func (s *CategoryService) List(ctx context.Context, session core.Session) ([]core.Category, error) {
	return s.store.Queries().ListCategories(ctx, session.UserID)
}
