package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tally/internal/core"
	"tally/internal/storage"
)

// UserService handles registration and profile preferences. Credential
// hashes are opaque: verification and hashing belong to the identity
// collaborator calling in, never to the engine.
type UserService struct {
	store *storage.Store
}

func NewUserService(store *storage.Store) *UserService {
	return &UserService{store: store}
}

// Register creates a user together with the default category set in one
// database transaction and returns a session for the new user.
func (s *UserService) Register(ctx context.Context, username, credentialHash, email string) (core.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return core.Session{}, core.ErrEmptyName
	}
	if credentialHash == "" {
		return core.Session{}, core.ErrEmptyCredential
	}

	var userID int64
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetUserByUsername(ctx, username); err == nil {
			return fmt.Errorf("register %q: %w", username, core.ErrUsernameTaken)
		} else if !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("register %q: %w", username, err)
		}

		var err error
		if userID, err = q.InsertUser(ctx, username, credentialHash, email); err != nil {
			return fmt.Errorf("register %q: %w", username, err)
		}
		return seedDefaultCategories(ctx, q, userID)
	})
	if err != nil {
		return core.Session{}, err
	}

	slog.InfoContext(ctx, "User registered", "user_id", userID, "username", username)
	return core.Session{UserID: userID, Username: username}, nil
}

// Lookup resolves a username to a session. The caller is expected to have
// already verified the credential against the stored hash.
func (s *UserService) Lookup(ctx context.Context, username string) (core.Session, error) {
	u, err := s.store.Queries().GetUserByUsername(ctx, username)
	if err != nil {
		return core.Session{}, fmt.Errorf("lookup %q: %w", username, err)
	}
	return core.Session{UserID: u.ID, Username: u.Username}, nil
}

// CredentialHash returns the stored opaque hash for verification by the
// identity collaborator.
func (s *UserService) CredentialHash(ctx context.Context, username string) (string, error) {
	u, err := s.store.Queries().GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("lookup %q: %w", username, err)
	}
	return u.CredentialHash, nil
}

// SetTheme stores the display theme preference, either "light" or "dark".
func (s *UserService) SetTheme(ctx context.Context, session core.Session, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("theme %q: %w", theme, core.ErrInvalidTheme)
	}
	if err := s.store.Queries().UpdateUserTheme(ctx, session.UserID, theme); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}
