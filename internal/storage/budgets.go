package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

// UpsertBudget sets the budget for a month, overwriting any existing row.
func (q *Queries) UpsertBudget(ctx context.Context, userID int64, month core.Month, amount core.Money) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, month, amount_cents) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, month) DO UPDATE SET amount_cents = excluded.amount_cents`,
		userID, month.String(), amount.Cents,
	)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (q *Queries) GetBudget(ctx context.Context, userID int64, month core.Month) (core.Budget, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx,
		`SELECT amount_cents FROM budgets WHERE user_id = ? AND month = ?`,
		userID, month.String(),
	).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return core.Budget{UserID: userID, Month: month, Amount: core.Money{Cents: cents}}, nil
}

// ListBudgets returns all budget rows for the user, newest month first.
func (q *Queries) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT month, amount_cents FROM budgets WHERE user_id = ? ORDER BY month DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var (
			month string
			cents int64
		)
		if err := rows.Scan(&month, &cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		m, err := core.ParseMonth(month)
		if err != nil {
			return nil, fmt.Errorf("parse budget month %q: %w", month, err)
		}
		out = append(out, core.Budget{UserID: userID, Month: m, Amount: core.Money{Cents: cents}})
	}
	return out, rows.Err()
}
