package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/models"
)

type sessionTokenRepository interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type classroomStore interface {
	Load(ctx context.Context) ([]models.Classroom, error)
	Save(ctx context.Context, items []models.Classroom) error
	Clear(ctx context.Context) error
}

// Session owns the authenticated lifetime: the cached token and the joined
// classroom list live and die together. Start begins a session on login and
// Teardown ends it on logout.
type Session struct {
	tokens     sessionTokenRepository
	classrooms classroomStore
	logger     *zap.Logger
	metrics    *MetricsService
}

// NewSession constructs a Session over the given stores.
func NewSession(tokens sessionTokenRepository, classrooms classroomStore, logger *zap.Logger, metrics *MetricsService) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{tokens: tokens, classrooms: classrooms, logger: logger, metrics: metrics}
}

// Token returns the cached token. Read failures are logged and reported as no session.
func (s *Session) Token(ctx context.Context) string {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		s.logger.Warn("failed to read session token", zap.Error(err))
		s.metrics.RecordStorageError("read_token")
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticated reports whether a token is cached.
func (s *Session) Authenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// Start stores token and drops classrooms left over from a previous session.
func (s *Session) Start(ctx context.Context, token string) error {
	if err := s.tokens.SetToken(ctx, token); err != nil {
		s.metrics.RecordStorageError("write_token")
		return err
	}
	if err := s.classrooms.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear previous classrooms", zap.Error(err))
		s.metrics.RecordStorageError("clear_classrooms")
	}
	return nil
}

// Teardown removes the token and the classroom list. Both are attempted;
// only a failure to drop the token is returned, since it keeps the user signed in.
func (s *Session) Teardown(ctx context.Context) error {
	tokenErr := s.tokens.ClearToken(ctx)
	if tokenErr != nil {
		s.logger.Warn("failed to clear session token", zap.Error(tokenErr))
		s.metrics.RecordStorageError("clear_token")
	}
	if err := s.classrooms.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear classrooms", zap.Error(err))
		s.metrics.RecordStorageError("clear_classrooms")
	}
	return tokenErr
}
