package repository

import "context"

// Well-known keys of the on-device cache.
const (
	KeyClassrooms      = "classrooms"
	KeyAuthToken       = "authToken"
	KeyUserName        = "userName"
	KeyProfileImage    = "profileImage"
	KeyThemePreference = "themePreference"
)

// KeyValueStore is the persisted string blob store backing every local cache.
// Get returns errors.ErrCacheMiss for keys that were never written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
