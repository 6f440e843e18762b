package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/models"
	"github.com/noah-isme/classroom-client/internal/repository"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

type profileRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ProfileService manages the cached display name, image and theme.
type ProfileService struct {
	repo       profileRepository
	classrooms classroomStore
	logger     *zap.Logger
	metrics    *MetricsService
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo profileRepository, classrooms classroomStore, logger *zap.Logger, metrics *MetricsService) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, classrooms: classrooms, logger: logger, metrics: metrics}
}

// Profile assembles the profile screen. Unreadable settings fall back to defaults.
func (s *ProfileService) Profile(ctx context.Context) models.Profile {
	profile := models.Profile{
		Name:  s.read(ctx, repository.KeyUserName),
		Image: s.read(ctx, repository.KeyProfileImage),
		Theme: s.Theme(ctx),
	}
	items, err := s.classrooms.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load classrooms", zap.Error(err))
		s.metrics.RecordStorageError("load_classrooms")
	}
	profile.JoinedClassrooms = len(items)
	return profile
}

// SetName stores a trimmed, non-empty display name.
func (s *ProfileService) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return appErrors.Clone(appErrors.ErrValidation, "name cannot be empty")
	}
	return s.repo.Set(ctx, repository.KeyUserName, name)
}

// SetImage stores the profile image reference.
func (s *ProfileService) SetImage(ctx context.Context, uri string) error {
	return s.repo.Set(ctx, repository.KeyProfileImage, strings.TrimSpace(uri))
}

// Update applies the non-nil fields of req.
func (s *ProfileService) Update(ctx context.Context, name, image *string) (models.Profile, error) {
	if name != nil {
		if err := s.SetName(ctx, *name); err != nil {
			return models.Profile{}, err
		}
	}
	if image != nil {
		if err := s.SetImage(ctx, *image); err != nil {
			return models.Profile{}, err
		}
	}
	return s.Profile(ctx), nil
}

// Theme returns the stored preference; anything other than dark reads as light.
func (s *ProfileService) Theme(ctx context.Context) string {
	if s.read(ctx, repository.KeyThemePreference) == models.ThemeDark {
		return models.ThemeDark
	}
	return models.ThemeLight
}

// SetTheme stores "light" or "dark".
func (s *ProfileService) SetTheme(ctx context.Context, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return appErrors.Clone(appErrors.ErrValidation, "theme must be light or dark")
	}
	return s.repo.Set(ctx, repository.KeyThemePreference, theme)
}

// ToggleTheme flips the preference and returns the new value.
func (s *ProfileService) ToggleTheme(ctx context.Context) (string, error) {
	next := models.ThemeDark
	if s.Theme(ctx) == models.ThemeDark {
		next = models.ThemeLight
	}
	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *ProfileService) read(ctx context.Context, key string) string {
	value, err := s.repo.Get(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read profile setting", zap.String("key", key), zap.Error(err))
		s.metrics.RecordStorageError("read_" + key)
		return ""
	}
	return value
}
