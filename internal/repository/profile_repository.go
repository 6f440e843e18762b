package repository

import (
	"context"
	"errors"

	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

// ProfileRepository caches scalar user settings: display name, profile image and theme.
type ProfileRepository struct {
	kv KeyValueStore
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(kv KeyValueStore) *ProfileRepository {
	return &ProfileRepository{kv: kv}
}

// Get reads one setting; a missing key is "" without error.
func (r *ProfileRepository) Get(ctx context.Context, key string) (string, error) {
	value, err := r.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return "", nil
		}
		return "", appErrors.Storage(err, "read", key)
	}
	return value, nil
}

// Set writes one setting.
func (r *ProfileRepository) Set(ctx context.Context, key, value string) error {
	if err := r.kv.Set(ctx, key, value); err != nil {
		return appErrors.Storage(err, "write", key)
	}
	return nil
}
