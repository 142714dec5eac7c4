package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

func (q *Queries) InsertChallenge(ctx context.Context, c core.Challenge) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO challenges (user_id, category, target_cents, current_cents, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Category, c.Target.Cents, c.Current.Cents, c.StartDate.String(), c.EndDate.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert challenge: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetChallenge(ctx context.Context, id, userID int64) (core.Challenge, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT challenge_id, user_id, category, target_cents, current_cents, start_date, end_date, is_completed
		 FROM challenges WHERE challenge_id = ? AND user_id = ?`,
		id, userID,
	)
	return scanChallengeRow(row)
}

// ListChallengesCovering returns challenges whose [start_date, end_date]
// window covers the month, at month granularity like the rest of the engine.
func (q *Queries) ListChallengesCovering(ctx context.Context, userID int64, month core.Month) ([]core.Challenge, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT challenge_id, user_id, category, target_cents, current_cents, start_date, end_date, is_completed
		 FROM challenges
		 WHERE user_id = ? AND strftime('%Y-%m', start_date) <= ? AND strftime('%Y-%m', end_date) >= ?
		 ORDER BY challenge_id`,
		userID, month.String(), month.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list challenges covering month: %w", err)
	}
	return scanChallenges(rows)
}

func (q *Queries) ListChallenges(ctx context.Context, userID int64) ([]core.Challenge, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT challenge_id, user_id, category, target_cents, current_cents, start_date, end_date, is_completed
		 FROM challenges WHERE user_id = ? ORDER BY challenge_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return scanChallenges(rows)
}

// UpdateChallengeCurrent overwrites the recomputed progress amount.
func (q *Queries) UpdateChallengeCurrent(ctx context.Context, id, userID int64, current core.Money) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE challenges SET current_cents = ? WHERE challenge_id = ? AND user_id = ?`,
		current.Cents, id, userID,
	)
	if err != nil {
		return fmt.Errorf("update challenge current: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) UpdateChallenge(ctx context.Context, c core.Challenge) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE challenges SET category = ?, target_cents = ?, start_date = ?, end_date = ?
		 WHERE challenge_id = ? AND user_id = ?`,
		c.Category, c.Target.Cents, c.StartDate.String(), c.EndDate.String(), c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("update challenge: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) CompleteChallenge(ctx context.Context, id, userID int64) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE challenges SET is_completed = 1 WHERE challenge_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("complete challenge: %w", err)
	}
	return requireRow(res)
}

func (q *Queries) DeleteChallenge(ctx context.Context, id, userID int64) error {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM challenges WHERE challenge_id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return requireRow(res)
}

func scanChallengeRow(row *sql.Row) (core.Challenge, error) {
	var (
		c          core.Challenge
		start, end string
		completed  int
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Category, &c.Target.Cents, &c.Current.Cents, &start, &end, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Challenge{}, core.ErrNotFound
	}
	if err != nil {
		return core.Challenge{}, fmt.Errorf("scan challenge: %w", err)
	}
	if c.StartDate, err = core.ParseDate(start); err != nil {
		return core.Challenge{}, fmt.Errorf("parse challenge start date %q: %w", start, err)
	}
	if c.EndDate, err = core.ParseDate(end); err != nil {
		return core.Challenge{}, fmt.Errorf("parse challenge end date %q: %w", end, err)
	}
	c.Completed = completed != 0
	return c, nil
}

func scanChallenges(rows *sql.Rows) ([]core.Challenge, error) {
	defer rows.Close()

	var out []core.Challenge
	for rows.Next() {
		var (
			c          core.Challenge
			start, end string
			completed  int
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.Category, &c.Target.Cents, &c.Current.Cents, &start, &end, &completed); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		var err error
		if c.StartDate, err = core.ParseDate(start); err != nil {
			return nil, fmt.Errorf("parse challenge start date %q: %w", start, err)
		}
		if c.EndDate, err = core.ParseDate(end); err != nil {
			return nil, fmt.Errorf("parse challenge end date %q: %w", end, err)
		}
		c.Completed = completed != 0
		out = append(out, c)
	}
	return out, rows.Err()
}
