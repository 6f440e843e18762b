package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/dto"
	"github.com/noah-isme/classroom-client/internal/models"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

// JoinState is a step of a join attempt.
type JoinState int

const (
	JoinIdle JoinState = iota
	JoinValidating
	JoinCheckingDuplicate
	JoinAwaitingAuth
	JoinSubmitting
	JoinNormalizing
	JoinPersisting
	JoinNotifying
	JoinFailed
)

var joinStateNames = [...]string{
	JoinIdle:              "idle",
	JoinValidating:        "validating",
	JoinCheckingDuplicate: "checking_duplicate",
	JoinAwaitingAuth:      "awaiting_auth",
	JoinSubmitting:        "submitting",
	JoinNormalizing:       "normalizing",
	JoinPersisting:        "persisting",
	JoinNotifying:         "notifying",
	JoinFailed:            "failed",
}

func (s JoinState) String() string {
	if s < 0 || int(s) >= len(joinStateNames) {
		return "unknown"
	}
	return joinStateNames[s]
}

type classroomRemote interface {
	JoinClassroom(ctx context.Context, code string) (interface{}, error)
	ClassroomDetail(ctx context.Context, id string) (interface{}, error)
	Assignments(ctx context.Context, id string, submissions bool) (interface{}, error)
	Materials(ctx context.Context, id string) (interface{}, error)
}

type classroomNotifier interface {
	JoinedClassroom(ctx context.Context, c models.Classroom) error
	LeftClassroom(ctx context.Context, c models.Classroom) error
	LoggedOut(ctx context.Context) error
}

// ClassroomService runs the join, remove and logout workflows and the
// read-only classroom screens.
type ClassroomService struct {
	store    classroomStore
	session  *Session
	remote   classroomRemote
	notifier classroomNotifier
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewClassroomService constructs a ClassroomService.
func NewClassroomService(store classroomStore, session *Session, remote classroomRemote, notifier classroomNotifier, logger *zap.Logger, metrics *MetricsService) *ClassroomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassroomService{
		store:    store,
		session:  session,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load returns the joined classrooms. Storage failures are logged and read as empty.
func (s *ClassroomService) Load(ctx context.Context) []models.Classroom {
	items, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load classrooms", zap.Error(err))
		s.metrics.RecordStorageError("load_classrooms")
	}
	if items == nil {
		items = []models.Classroom{}
	}
	return items
}

// joinAttempt tracks the state machine of one Join call.
type joinAttempt struct {
	svc   *ClassroomService
	code  string
	state JoinState
}

func (a *joinAttempt) enter(state JoinState) {
	a.state = state
	a.svc.logger.Debug("join state", zap.String("state", state.String()), zap.String("code", a.code))
}

func (a *joinAttempt) fail(err error) error {
	a.svc.logger.Debug("join state",
		zap.String("state", JoinFailed.String()),
		zap.String("stage", a.state.String()),
		zap.String("code", a.code),
		zap.Error(err),
	)
	a.svc.metrics.RecordJoin(joinResultFailed, a.state)
	return err
}

func (a *joinAttempt) done() {
	a.svc.metrics.RecordJoin(joinResultSuccess, a.state)
	a.enter(JoinIdle)
}

// Join joins the classroom identified by code. Validation, duplicate and auth
// checks all run before the remote call.
func (s *ClassroomService) Join(ctx context.Context, code string) (*models.Classroom, error) {
	trimmed := strings.TrimSpace(code)
	upper := strings.ToUpper(trimmed)
	attempt := &joinAttempt{svc: s, code: upper}

	attempt.enter(JoinValidating)
	if trimmed == "" {
		return nil, attempt.fail(appErrors.Clone(appErrors.ErrValidation, "please enter a class code"))
	}

	attempt.enter(JoinCheckingDuplicate)
	current := s.Load(ctx)
	for _, existing := range current {
		if existing.MatchesCode(upper) {
			return nil, attempt.fail(appErrors.Clone(appErrors.ErrAlreadyJoined, ""))
		}
	}

	attempt.enter(JoinAwaitingAuth)
	if !s.session.Authenticated(ctx) {
		return nil, attempt.fail(appErrors.Clone(appErrors.ErrAuthRequired, ""))
	}

	attempt.enter(JoinSubmitting)
	start := time.Now()
	payload, err := s.remote.JoinClassroom(ctx, trimmed)
	s.metrics.ObserveRemote("join", err, time.Since(start))
	if err != nil {
		return nil, attempt.fail(remoteError(err, "failed to join classroom"))
	}

	attempt.enter(JoinNormalizing)
	record, ok := dto.LookupObject(payload, dto.ClassroomEnvelopeKeys...)
	if !ok {
		return nil, attempt.fail(appErrors.Remote(nil, 0, "failed to join classroom", payload))
	}
	classroom := models.NormalizeClassroom(record)
	classroom.Code = upper

	attempt.enter(JoinPersisting)
	updated := append(current, classroom)
	if err := s.store.Save(ctx, updated); err != nil {
		s.logger.Warn("failed to persist joined classroom", zap.String("code", upper), zap.Error(err))
		s.metrics.RecordStorageError("save_classrooms")
	}

	attempt.enter(JoinNotifying)
	if err := s.notifier.JoinedClassroom(ctx, classroom); err != nil {
		s.logger.Warn("failed to emit join notification", zap.Error(err))
	}

	attempt.done()
	return &classroom, nil
}

// Remove drops target from the list and returns the new list. Entries are
// matched by id when target has one; an id-less target removes the first
// entry with the same code. A nil or unmatched target changes nothing.
func (s *ClassroomService) Remove(ctx context.Context, target *models.Classroom) []models.Classroom {
	current := s.Load(ctx)
	if target == nil {
		return current
	}

	updated, removed := filterClassrooms(current, *target)
	if len(removed) == 0 {
		return current
	}

	if err := s.store.Save(ctx, updated); err != nil {
		s.logger.Warn("failed to persist classroom removal", zap.Error(err))
		s.metrics.RecordStorageError("save_classrooms")
	}
	for _, c := range removed {
		if err := s.notifier.LeftClassroom(ctx, c); err != nil {
			s.logger.Warn("failed to emit leave notification", zap.Error(err))
		}
	}
	return updated
}

// RemoveByID removes the stored classroom with id.
func (s *ClassroomService) RemoveByID(ctx context.Context, id string) ([]models.Classroom, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom id is required")
	}
	for _, c := range s.Load(ctx) {
		if c.ID == id {
			target := c
			return s.Remove(ctx, &target), nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
}

// RemoveByCode removes the first stored classroom whose code matches.
func (s *ClassroomService) RemoveByCode(ctx context.Context, code string) ([]models.Classroom, error) {
	for _, c := range s.Load(ctx) {
		if c.MatchesCode(code) {
			target := c
			return s.Remove(ctx, &target), nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
}

// RemoveClassroom reports the success flag shown by the home screen.
func (s *ClassroomService) RemoveClassroom(ctx context.Context, target *models.Classroom) bool {
	if target == nil {
		return false
	}
	s.Remove(ctx, target)
	return true
}

// Logout tears the session down and announces it. The error is non-nil only
// when the token could not be dropped.
func (s *ClassroomService) Logout(ctx context.Context) error {
	if err := s.session.Teardown(ctx); err != nil {
		return err
	}
	if err := s.notifier.LoggedOut(ctx); err != nil {
		s.logger.Warn("failed to emit logout notification", zap.Error(err))
	}
	return nil
}

// Detail fetches the classroom screen. When the remote call fails the cached
// entry is served instead, flagged as stale.
func (s *ClassroomService) Detail(ctx context.Context, id string) (*models.ClassroomDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom id is required")
	}
	if !s.session.Authenticated(ctx) {
		return nil, appErrors.Clone(appErrors.ErrAuthRequired, "")
	}

	start := time.Now()
	payload, err := s.remote.ClassroomDetail(ctx, id)
	s.metrics.ObserveRemote("detail", err, time.Since(start))
	if err != nil {
		for _, c := range s.Load(ctx) {
			if c.ID == id {
				s.logger.Warn("serving cached classroom", zap.String("id", id), zap.Error(err))
				return &models.ClassroomDetail{Classroom: c, Students: []models.Student{}, Stale: true}, nil
			}
		}
		return nil, remoteError(err, "failed to get classroom details")
	}

	detail := models.NormalizeClassroomDetail(dto.UnwrapObject(payload, dto.ClassroomEnvelopeKeys...))
	if !detail.Classroom.HasID() {
		detail.Classroom.ID = id
	}
	return &detail, nil
}

// Assignments lists practice assignments, or submissions when submissions is set.
func (s *ClassroomService) Assignments(ctx context.Context, id string, submissions bool) ([]models.Assignment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom id is required")
	}
	if !s.session.Authenticated(ctx) {
		return nil, appErrors.Clone(appErrors.ErrAuthRequired, "")
	}
	start := time.Now()
	payload, err := s.remote.Assignments(ctx, id, submissions)
	s.metrics.ObserveRemote("assignments", err, time.Since(start))
	if err != nil {
		return nil, remoteError(err, "failed to get assignments")
	}
	return models.NormalizeAssignments(dto.UnwrapList(payload, dto.AssignmentEnvelopeKeys...)), nil
}

// Materials lists course materials.
func (s *ClassroomService) Materials(ctx context.Context, id string) ([]models.Material, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classroom id is required")
	}
	if !s.session.Authenticated(ctx) {
		return nil, appErrors.Clone(appErrors.ErrAuthRequired, "")
	}
	start := time.Now()
	payload, err := s.remote.Materials(ctx, id)
	s.metrics.ObserveRemote("materials", err, time.Since(start))
	if err != nil {
		return nil, remoteError(err, "failed to get materials")
	}
	return models.NormalizeMaterials(dto.UnwrapList(payload, dto.MaterialEnvelopeKeys...)), nil
}

func filterClassrooms(items []models.Classroom, target models.Classroom) (kept, removed []models.Classroom) {
	kept = make([]models.Classroom, 0, len(items))
	if target.HasID() {
		for _, c := range items {
			if c.ID == target.ID {
				removed = append(removed, c)
				continue
			}
			kept = append(kept, c)
		}
		return kept, removed
	}
	for _, c := range items {
		if len(removed) == 0 && c.MatchesCode(target.Code) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	return kept, removed
}

// remoteError keeps typed remote errors and wraps anything else.
func remoteError(err error, fallback string) error {
	if errors.Is(err, appErrors.ErrRemote) {
		return err
	}
	return appErrors.Remote(err, 0, fallback, nil)
}
