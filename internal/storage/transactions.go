package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

type InsertTransactionParams struct {
	UserID      int64
	Amount      core.Money
	Category    string
	Kind        core.TransactionKind
	Date        core.Date
	Description string
}

func (q *Queries) InsertTransaction(ctx context.Context, p InsertTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount_cents, category, kind, date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Amount.Cents, p.Category, string(p.Kind), p.Date.String(), p.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetTransaction(ctx context.Context, id, userID int64) (core.Transaction, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT transaction_id, user_id, amount_cents, category, kind, date, description, is_deleted
		 FROM transactions WHERE transaction_id = ? AND user_id = ?`,
		id, userID,
	)
	return scanTransactionRow(row)
}

func (q *Queries) UpdateTransaction(ctx context.Context, id, userID int64, d core.TransactionDraft) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET amount_cents = ?, category = ?, date = ?, description = ?
		 WHERE transaction_id = ? AND user_id = ?`,
		d.Amount.Cents, d.Category, d.Date.String(), d.Description, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// SetTransactionDeleted toggles the soft-delete flag. Setting the flag to
// its current value, or naming an unknown row, is a no-op.
func (q *Queries) SetTransactionDeleted(ctx context.Context, id, userID int64, deleted bool) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE transactions SET is_deleted = ? WHERE transaction_id = ? AND user_id = ?`,
		boolToInt(deleted), id, userID,
	)
	if err != nil {
		return fmt.Errorf("set transaction deleted: %w", err)
	}
	return nil
}

func (q *Queries) HardDeleteTransaction(ctx context.Context, id, userID int64) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("hard delete transaction: %w", err)
	}
	return nil
}

// PurgeTrash permanently removes all soft-deleted rows for the user and
// returns how many were removed.
func (q *Queries) PurgeTrash(ctx context.Context, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND is_deleted = 1`, userID)
	if err != nil {
		return 0, fmt.Errorf("purge trash: %w", err)
	}
	return res.RowsAffected()
}

// MonthlyTotal sums all non-deleted amounts (any kind, credits included)
// for the month.
func (q *Queries) MonthlyTotal(ctx context.Context, userID int64, month core.Month) (core.Money, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND strftime('%Y-%m', date) = ? AND is_deleted = 0`,
		userID, month.String(),
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("monthly total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// MonthlyCategoryTotal is MonthlyTotal restricted to one category name.
func (q *Queries) MonthlyCategoryTotal(ctx context.Context, userID int64, month core.Month, category string) (core.Money, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category = ? AND strftime('%Y-%m', date) = ? AND is_deleted = 0`,
		userID, category, month.String(),
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("monthly category total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// MonthlySpendTotal sums non-deleted spend-kind amounts for one category.
// Category control evaluates limits on this aggregate, so synthetic entries
// never count against a limit.
func (q *Queries) MonthlySpendTotal(ctx context.Context, userID int64, month core.Month, category string) (core.Money, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category = ? AND strftime('%Y-%m', date) = ?
		   AND is_deleted = 0 AND kind = ?`,
		userID, category, month.String(), string(core.KindSpend),
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("monthly spend total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// MonthlyPositiveSpendTotal is the challenge aggregate: positive spend-kind
// amounts only, so credits never reduce challenge progress.
func (q *Queries) MonthlyPositiveSpendTotal(ctx context.Context, userID int64, month core.Month, category string) (core.Money, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category = ? AND strftime('%Y-%m', date) = ?
		   AND is_deleted = 0 AND kind = ? AND amount_cents > 0`,
		userID, category, month.String(), string(core.KindSpend),
	).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("monthly positive spend total: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// TopCategory returns the category with the largest summed amount for the
// month. Ties break lexicographically so the result is deterministic.
func (q *Queries) TopCategory(ctx context.Context, userID int64, month core.Month) (core.CategoryAmount, error) {
	var ca core.CategoryAmount
	err := q.db.QueryRowContext(ctx,
		`SELECT category, SUM(amount_cents) AS total FROM transactions
		 WHERE user_id = ? AND strftime('%Y-%m', date) = ? AND is_deleted = 0
		 GROUP BY category ORDER BY total DESC, category ASC LIMIT 1`,
		userID, month.String(),
	).Scan(&ca.Name, &ca.Amount.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CategoryAmount{}, core.ErrNotFound
	}
	if err != nil {
		return core.CategoryAmount{}, fmt.Errorf("top category: %w", err)
	}
	return ca, nil
}

// CategorySums returns per-category totals for the month, largest first.
func (q *Queries) CategorySums(ctx context.Context, userID int64, month core.Month) ([]core.CategoryAmount, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) AS total FROM transactions
		 WHERE user_id = ? AND strftime('%Y-%m', date) = ? AND is_deleted = 0
		 GROUP BY category ORDER BY total DESC, category ASC`,
		userID, month.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("category sums: %w", err)
	}
	defer rows.Close()

	var sums []core.CategoryAmount
	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sums = append(sums, ca)
	}
	return sums, rows.Err()
}

// ListByMonth returns the month's non-deleted transactions, newest first.
func (q *Queries) ListByMonth(ctx context.Context, userID int64, month core.Month) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT transaction_id, user_id, amount_cents, category, kind, date, description, is_deleted
		 FROM transactions
		 WHERE user_id = ? AND strftime('%Y-%m', date) = ? AND is_deleted = 0
		 ORDER BY date DESC, transaction_id DESC`,
		userID, month.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list by month: %w", err)
	}
	return scanTransactions(rows)
}

// ListRecent returns the newest non-deleted transactions across all months.
func (q *Queries) ListRecent(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT transaction_id, user_id, amount_cents, category, kind, date, description, is_deleted
		 FROM transactions WHERE user_id = ? AND is_deleted = 0
		 ORDER BY date DESC, transaction_id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return scanTransactions(rows)
}

// ListTrash returns the user's soft-deleted transactions.
func (q *Queries) ListTrash(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT transaction_id, user_id, amount_cents, category, kind, date, description, is_deleted
		 FROM transactions WHERE user_id = ? AND is_deleted = 1
		 ORDER BY date DESC, transaction_id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list trash: %w", err)
	}
	return scanTransactions(rows)
}

// CountCategoryTransactions counts non-deleted transactions referencing the
// category name. Categories with references cannot be deleted.
func (q *Queries) CountCategoryTransactions(ctx context.Context, userID int64, category string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions
		 WHERE user_id = ? AND category = ? AND is_deleted = 0`,
		userID, category,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category transactions: %w", err)
	}
	return n, nil
}

func scanTransactionRow(row *sql.Row) (core.Transaction, error) {
	var (
		t       core.Transaction
		kind    string
		date    string
		deleted int
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.Category, &kind, &date, &t.Description, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Kind = core.TransactionKind(kind)
	t.Deleted = deleted != 0
	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	return t, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			kind    string
			date    string
			deleted int
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &t.Category, &kind, &date, &t.Description, &deleted); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.TransactionKind(kind)
		t.Deleted = deleted != 0
		var err error
		if t.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
