package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

func (q *Queries) InsertSharedExpense(ctx context.Context, s core.SharedExpense) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO shared_expenses (transaction_id, user_id, participant, owed_cents, is_paid)
		 VALUES (?, ?, ?, ?, ?)`,
		s.TransactionID, s.UserID, s.Participant, s.Owed.Cents, boolToInt(s.Paid),
	)
	if err != nil {
		return 0, fmt.Errorf("insert shared expense: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetSharedExpense(ctx context.Context, transactionID, userID int64, participant string) (core.SharedExpense, error) {
	var (
		s    core.SharedExpense
		paid int
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT shared_id, transaction_id, user_id, participant, owed_cents, is_paid
		 FROM shared_expenses WHERE transaction_id = ? AND user_id = ? AND participant = ?`,
		transactionID, userID, participant,
	).Scan(&s.ID, &s.TransactionID, &s.UserID, &s.Participant, &s.Owed.Cents, &paid)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SharedExpense{}, core.ErrNotFound
	}
	if err != nil {
		return core.SharedExpense{}, fmt.Errorf("get shared expense: %w", err)
	}
	s.Paid = paid != 0
	return s, nil
}

func (q *Queries) MarkSharedExpensePaid(ctx context.Context, transactionID, userID int64, participant string) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE shared_expenses SET is_paid = 1
		 WHERE transaction_id = ? AND user_id = ? AND participant = ?`,
		transactionID, userID, participant,
	)
	if err != nil {
		return fmt.Errorf("mark shared expense paid: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) DeleteSharedExpensesByTransaction(ctx context.Context, transactionID, userID int64) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM shared_expenses WHERE transaction_id = ? AND user_id = ?`,
		transactionID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete shared expenses: %w", err)
	}
	return nil
}

// ListSharedParticipants returns the participant rows of one shared expense.
func (q *Queries) ListSharedParticipants(ctx context.Context, transactionID, userID int64) ([]core.SharedExpense, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT shared_id, transaction_id, user_id, participant, owed_cents, is_paid
		 FROM shared_expenses WHERE transaction_id = ? AND user_id = ? ORDER BY shared_id`,
		transactionID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shared participants: %w", err)
	}
	defer rows.Close()

	var out []core.SharedExpense
	for rows.Next() {
		var (
			s    core.SharedExpense
			paid int
		)
		if err := rows.Scan(&s.ID, &s.TransactionID, &s.UserID, &s.Participant, &s.Owed.Cents, &paid); err != nil {
			return nil, fmt.Errorf("scan shared expense: %w", err)
		}
		s.Paid = paid != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListSharedOverviews summarizes the user's shared expenses with paid
// counts, newest first.
func (q *Queries) ListSharedOverviews(ctx context.Context, userID int64) ([]core.SharedOverview, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT t.transaction_id, t.date, t.description, t.amount_cents,
		        COUNT(s.shared_id), COALESCE(SUM(s.is_paid), 0)
		 FROM transactions t
		 JOIN shared_expenses s ON s.transaction_id = t.transaction_id
		 WHERE t.user_id = ?
		 GROUP BY t.transaction_id
		 ORDER BY t.date DESC, t.transaction_id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shared overviews: %w", err)
	}
	defer rows.Close()

	var out []core.SharedOverview
	for rows.Next() {
		var (
			o    core.SharedOverview
			date string
		)
		if err := rows.Scan(&o.TransactionID, &date, &o.Description, &o.Total.Cents, &o.Participants, &o.PaidCount); err != nil {
			return nil, fmt.Errorf("scan shared overview: %w", err)
		}
		if o.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse shared expense date %q: %w", date, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
