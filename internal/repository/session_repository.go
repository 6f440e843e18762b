package repository

import (
	"context"
	"errors"

	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

// SessionRepository caches the opaque session token.
type SessionRepository struct {
	kv KeyValueStore
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(kv KeyValueStore) *SessionRepository {
	return &SessionRepository{kv: kv}
}

// Token returns the cached token, or "" when none is stored.
func (r *SessionRepository) Token(ctx context.Context) (string, error) {
	token, err := r.kv.Get(ctx, KeyAuthToken)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return "", nil
		}
		return "", appErrors.Storage(err, "read", KeyAuthToken)
	}
	return token, nil
}

// SetToken stores the token.
func (r *SessionRepository) SetToken(ctx context.Context, token string) error {
	if err := r.kv.Set(ctx, KeyAuthToken, token); err != nil {
		return appErrors.Storage(err, "write", KeyAuthToken)
	}
	return nil
}

// ClearToken removes the token.
func (r *SessionRepository) ClearToken(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyAuthToken); err != nil {
		return appErrors.Storage(err, "delete", KeyAuthToken)
	}
	return nil
}
