package repository

import (
	"context"

	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// SessionRepository persists the single active session marker.
type SessionRepository interface {
	SetCurrentUser(ctx context.Context, email string) error
	CurrentUser(ctx context.Context) (string, bool, error)
	ClearCurrentUser(ctx context.Context) error
}

type sessionRepository struct {
	store persistence.Store
}

// NewSessionRepository returns a session marker stored under current-user-email.
func NewSessionRepository(store persistence.Store) SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) SetCurrentUser(ctx context.Context, email string) error {
	return r.store.Set(ctx, KeyCurrentUserEmail, normalizeEmail(email))
}

// CurrentUser returns the logged-in email. The marker is stored as raw text, not JSON.
func (r *sessionRepository) CurrentUser(ctx context.Context) (string, bool, error) {
	email, found, err := r.store.Get(ctx, KeyCurrentUserEmail)
	if err != nil || !found || email == "" {
		return "", false, err
	}
	return email, true, nil
}

func (r *sessionRepository) ClearCurrentUser(ctx context.Context) error {
	return r.store.Remove(ctx, KeyCurrentUserEmail)
}
