package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/models"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

type authRemote interface {
	Login(ctx context.Context, email, password string) (interface{}, error)
}

type authNotifier interface {
	LoggedIn(ctx context.Context, email string) error
}

type sessionEnder interface {
	Logout(ctx context.Context) error
}

// AuthService provides the login, status and logout use cases.
type AuthService struct {
	remote    authRemote
	session   *Session
	notifier  authNotifier
	ender     sessionEnder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance. Logout is delegated to
// ender so the classroom workflow stays the single owner of teardown.
func NewAuthService(remote authRemote, session *Session, notifier authNotifier, ender sessionEnder, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		remote:    remote,
		session:   session,
		notifier:  notifier,
		ender:     ender,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Login authenticates against the remote service and starts a new session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	payload, err := s.remote.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, remoteError(err, "login failed")
	}

	body, _ := payload.(map[string]interface{})
	token := extractToken(body)
	if token == "" {
		return nil, appErrors.Remote(nil, 0, "login response did not include a token", payload)
	}

	if err := s.session.Start(ctx, token); err != nil {
		return nil, err
	}
	if err := s.notifier.LoggedIn(ctx, req.Email); err != nil {
		s.logger.Warn("failed to emit login notification", zap.Error(err))
	}
	s.logger.Info("session started", zap.String("email", req.Email))

	return &models.LoginResult{Email: req.Email, Response: models.Record(body)}, nil
}

// Status describes the cached session. JWT claims are read without
// verification; the client holds no key and only uses them for display.
func (s *AuthService) Status(ctx context.Context) models.SessionStatus {
	token := s.session.Token(ctx)
	if token == "" {
		return models.SessionStatus{}
	}
	status := models.SessionStatus{Authenticated: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return status
	}
	status.JWT = true
	if sub, err := claims.GetSubject(); err == nil {
		status.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		status.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt := exp.Time.UTC()
		status.ExpiresAt = &expiresAt
		status.Expired = s.now().After(expiresAt)
	}
	return status
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.ender.Logout(ctx)
}

// extractToken reads token > data.token > idToken > data.idToken.
func extractToken(body map[string]interface{}) string {
	if body == nil {
		return ""
	}
	data, _ := body["data"].(map[string]interface{})
	candidates := []interface{}{body["token"], data["token"], body["idToken"], data["idToken"]}
	for _, candidate := range candidates {
		if token, ok := candidate.(string); ok && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token)
		}
	}
	return ""
}
