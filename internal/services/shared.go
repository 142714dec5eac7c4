package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

// SharedDraft describes a shared expense at creation time. The total is what
// the user paid; it is split equally among the named participants.
type SharedDraft struct {
	Amount       core.Money
	Category     string
	Date         core.Date
	Description  string
	Participants []core.Participant
}

func (d SharedDraft) Validate() error {
	if d.Amount.Cents <= 0 {
		return core.ErrInvalidAmount
	}
	if err := d.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(d.Category) == "" {
		return core.ErrEmptyCategory
	}
	if len(d.Participants) == 0 {
		return core.ErrEmptyParticipants
	}
	for _, p := range d.Participants {
		if strings.TrimSpace(p.Name) == "" {
			return core.ErrEmptyName
		}
	}
	return nil
}

// SharedService splits transactions among named external participants and
// posts reimbursement credits as they pay their shares.
type SharedService struct {
	store     *storage.Store
	summaries *cache.Cache[core.MonthOverview]
}

func NewSharedService(store *storage.Store, summaries *cache.Cache[core.MonthOverview]) *SharedService {
	return &SharedService{store: store, summaries: summaries}
}

// Create records the full amount as a single ledger transaction and one
// SharedExpense row per participant. Shares are an equal split with the
// remainder cents assigned one each to the earliest participants, so the
// owed amounts always sum to the total. Everything is written in one
// database transaction.
func (s *SharedService) Create(ctx context.Context, session core.Session, draft SharedDraft) (int64, error) {
	if err := draft.Validate(); err != nil {
		return 0, err
	}

	var txID int64
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		cat, err := q.GetCategory(ctx, session.UserID, draft.Category)
		if err != nil {
			return fmt.Errorf("shared expense: category %q: %w", draft.Category, err)
		}
		if cat.Locked {
			return fmt.Errorf("shared expense into %q: %w", draft.Category, core.ErrCategoryLocked)
		}

		txID, err = q.InsertTransaction(ctx, storage.InsertTransactionParams{
			UserID:      session.UserID,
			Amount:      draft.Amount,
			Category:    draft.Category,
			Kind:        core.KindSpend,
			Date:        draft.Date,
			Description: draft.Description,
		})
		if err != nil {
			return fmt.Errorf("shared expense: %w", err)
		}

		shares := core.SplitEqual(draft.Amount, len(draft.Participants))
		for i, p := range draft.Participants {
			if _, err := q.InsertSharedExpense(ctx, core.SharedExpense{
				TransactionID: txID,
				UserID:        session.UserID,
				Participant:   p.Name,
				Owed:          shares[i],
				Paid:          p.Paid,
			}); err != nil {
				return fmt.Errorf("shared expense participant %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.summaries.InvalidatePrefix(fmt.Sprintf("%d/", session.UserID))
	slog.InfoContext(ctx, "Shared expense created",
		"user_id", session.UserID,
		"transaction_id", txID,
		"participants", len(draft.Participants),
		"amount_cents", draft.Amount.Cents)
	return txID, nil
}

// MarkPaid flags a participant's share as settled and posts a negative
// reimbursement entry mirroring the original spend. Calling it again for an
// already-paid participant is a no-op, so at most one reimbursement exists
// per share.
func (s *SharedService) MarkPaid(ctx context.Context, session core.Session, transactionID int64, participant string) error {
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		share, err := q.GetSharedExpense(ctx, transactionID, session.UserID, participant)
		if err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}
		if share.Paid {
			return nil
		}

		if err := q.MarkSharedExpensePaid(ctx, transactionID, session.UserID, participant); err != nil {
			return fmt.Errorf("mark paid: %w", err)
		}
		if _, err := q.InsertTransaction(ctx, storage.InsertTransactionParams{
			UserID:      session.UserID,
			Amount:      share.Owed.Neg(),
			Category:    core.ReimbursementCategory,
			Kind:        core.KindReimbursement,
			Date:        core.Today(),
			Description: fmt.Sprintf("Reimbursement from %s", participant),
		}); err != nil {
			return fmt.Errorf("record reimbursement: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.summaries.InvalidatePrefix(fmt.Sprintf("%d/", session.UserID))
	return nil
}

// Delete removes a shared expense entirely: all participant rows and the
// originating transaction. Unlike ordinary expense deletion this is a hard
// delete; there is no trash for shared expenses.
func (s *SharedService) Delete(ctx context.Context, session core.Session, transactionID int64) error {
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		shares, err := q.ListSharedParticipants(ctx, transactionID, session.UserID)
		if err != nil {
			return fmt.Errorf("delete shared expense: %w", err)
		}
		if len(shares) == 0 {
			return fmt.Errorf("shared expense %d: %w", transactionID, core.ErrNotFound)
		}

		if err := q.DeleteSharedExpensesByTransaction(ctx, transactionID, session.UserID); err != nil {
			return fmt.Errorf("delete shared expense: %w", err)
		}
		if err := q.HardDeleteTransaction(ctx, transactionID, session.UserID); err != nil {
			return fmt.Errorf("delete shared expense: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.summaries.InvalidatePrefix(fmt.Sprintf("%d/", session.UserID))
	return nil
}

// Details returns the participant rows of one shared expense.
func (s *SharedService) Details(ctx context.Context, session core.Session, transactionID int64) ([]core.SharedExpense, error) {
	shares, err := s.store.Queries().ListSharedParticipants(ctx, transactionID, session.UserID)
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("shared expense %d: %w", transactionID, core.ErrNotFound)
	}
	return shares, nil
}

// List summarizes the user's shared expenses, newest first.
func (s *SharedService) List(ctx context.Context, session core.Session) ([]core.SharedOverview, error) {
	return s.store.Queries().ListSharedOverviews(ctx, session.UserID)
}
