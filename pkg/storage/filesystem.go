package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// LocalStorage persists key-value blobs on disk, one file per key under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./.classroom"
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Get returns the stored value or ErrCacheMiss when the key was never written.
func (s *LocalStorage) Get(_ context.Context, key string) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", appErrors.ErrCacheMiss
		}
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), nil
}

// Set replaces the value for key. The write goes through a temp file and a
// rename so a crash never leaves a half-written blob behind.
func (s *LocalStorage) Set(_ context.Context, key, value string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.baseDir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys; missing keys are ignored.
func (s *LocalStorage) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		path, err := s.resolve(key)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// Close is a no-op; it lets LocalStorage satisfy the same contract as the networked backends.
func (s *LocalStorage) Close() error {
	return nil
}

// Dir exposes the base directory (used by the watch command).
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

// Path returns the file backing key.
func (s *LocalStorage) Path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

func (s *LocalStorage) resolve(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return s.Path(key), nil
}
