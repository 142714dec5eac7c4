package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

// User is the stored identity record. The credential hash is opaque to the
// engine; verification happens in the identity collaborator.
type User struct {
	ID             int64
	Username       string
	CredentialHash string
	Email          string
	Theme          string
}

func (q *Queries) InsertUser(ctx context.Context, username, credentialHash, email string) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, credential_hash, email) VALUES (?, ?, ?)`,
		username, credentialHash, email,
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx,
		`SELECT user_id, username, credential_hash, email, theme FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.CredentialHash, &u.Email, &u.Theme)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, core.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (q *Queries) UpdateUserTheme(ctx context.Context, userID int64, theme string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE users SET theme = ? WHERE user_id = ?`, theme, userID)
	if err != nil {
		return fmt.Errorf("update theme: %w", err)
	}
	return nil
}

// ListUserIDs returns every user id, used by the recompute worker to walk
// all ledgers.
func (q *Queries) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
