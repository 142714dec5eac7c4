package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

// InsertCategory creates a category; limit may be nil for no monthly limit.
func (q *Queries) InsertCategory(ctx context.Context, userID int64, name string, limit *core.Money) (int64, error) {
	var limitCents any
	if limit != nil {
		limitCents = limit.Cents
	}
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, monthly_limit_cents) VALUES (?, ?, ?)`,
		userID, name, limitCents,
	)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetCategory(ctx context.Context, userID int64, name string) (core.Category, error) {
	var (
		c          core.Category
		limitCents sql.NullInt64
		locked     int
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT category_id, user_id, name, monthly_limit_cents, is_locked
		 FROM categories WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&c.ID, &c.UserID, &c.Name, &limitCents, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	if limitCents.Valid {
		c.MonthlyLimit = &core.Money{Cents: limitCents.Int64}
	}
	c.Locked = locked != 0
	return c, nil
}

func (q *Queries) SetCategoryLimit(ctx context.Context, userID int64, name string, limit *core.Money) error {
	var limitCents any
	if limit != nil {
		limitCents = limit.Cents
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE categories SET monthly_limit_cents = ? WHERE user_id = ? AND name = ?`,
		limitCents, userID, name,
	)
	if err != nil {
		return fmt.Errorf("set category limit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set category limit: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) SetCategoryLocked(ctx context.Context, userID int64, name string, locked bool) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE categories SET is_locked = ? WHERE user_id = ? AND name = ?`,
		boolToInt(locked), userID, name,
	)
	if err != nil {
		return fmt.Errorf("set category locked: %w", err)
	}
	return nil
}

// UnlockAllCategories clears the lock flag on every category of the user.
func (q *Queries) UnlockAllCategories(ctx context.Context, userID int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE categories SET is_locked = 0 WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("unlock all categories: %w", err)
	}
	return nil
}

func (q *Queries) DeleteCategory(ctx context.Context, userID int64, name string) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM categories WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT category_id, user_id, name, monthly_limit_cents, is_locked
		 FROM categories WHERE user_id = ? ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c          core.Category
			limitCents sql.NullInt64
			locked     int
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &limitCents, &locked); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if limitCents.Valid {
			c.MonthlyLimit = &core.Money{Cents: limitCents.Int64}
		}
		c.Locked = locked != 0
		out = append(out, c)
	}
	return out, rows.Err()
}
