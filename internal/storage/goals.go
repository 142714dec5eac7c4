package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

func (q *Queries) InsertGoal(ctx context.Context, g core.Goal) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_cents, current_cents, target_date, created_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.Target.Cents, g.Current.Cents, g.TargetDate.String(), g.CreatedDate.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetGoal(ctx context.Context, id, userID int64) (core.Goal, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT goal_id, user_id, name, target_cents, current_cents, target_date, created_date, is_completed
		 FROM goals WHERE goal_id = ? AND user_id = ?`,
		id, userID,
	)
	return scanGoalRow(row)
}

// UpdateGoalCurrent overwrites only the accumulated amount; used by
// contributions inside the same transaction as the mirrored ledger entry.
func (q *Queries) UpdateGoalCurrent(ctx context.Context, id, userID int64, current core.Money) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE goals SET current_cents = ? WHERE goal_id = ? AND user_id = ?`,
		current.Cents, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update goal current: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ?, current_cents = ?, target_date = ?
		 WHERE goal_id = ? AND user_id = ?`,
		g.Name, g.Target.Cents, g.Current.Cents, g.TargetDate.String(), g.ID, g.UserID,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

// CompleteGoal sets the one-way completion flag.
func (q *Queries) CompleteGoal(ctx context.Context, id, userID int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE goals SET is_completed = 1 WHERE goal_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("complete goal: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) DeleteGoal(ctx context.Context, id, userID int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM goals WHERE goal_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT goal_id, user_id, name, target_cents, current_cents, target_date, created_date, is_completed
		 FROM goals WHERE user_id = ? ORDER BY is_completed, target_date, goal_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g         core.Goal
			target    string
			created   string
			completed int
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents, &target, &created, &completed); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if g.TargetDate, err = core.ParseDate(target); err != nil {
			return nil, fmt.Errorf("parse goal target date %q: %w", target, err)
		}
		if g.CreatedDate, err = core.ParseDate(created); err != nil {
			return nil, fmt.Errorf("parse goal created date %q: %w", created, err)
		}
		g.Completed = completed != 0
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGoalRow(row *sql.Row) (core.Goal, error) {
	var (
		g         core.Goal
		target    string
		created   string
		completed int
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Target.Cents, &g.Current.Cents, &target, &created, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	if g.TargetDate, err = core.ParseDate(target); err != nil {
		return core.Goal{}, fmt.Errorf("parse goal target date %q: %w", target, err)
	}
	if g.CreatedDate, err = core.ParseDate(created); err != nil {
		return core.Goal{}, fmt.Errorf("parse goal created date %q: %w", created, err)
	}
	g.Completed = completed != 0
	return g, nil
}

// requireRow converts a zero-rows-affected update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
