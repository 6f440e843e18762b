package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/dto"
	"github.com/noah-isme/classroom-client/pkg/config"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
	"github.com/noah-isme/classroom-client/pkg/middleware/requestid"
)

const defaultRemoteTimeout = 10 * time.Second

// Fallback messages used when the remote error payload carries none.
const (
	msgLoginFailed       = "login failed"
	msgJoinFailed        = "failed to join classroom"
	msgDetailFailed      = "failed to get classroom details"
	msgAssignmentsFailed = "failed to get assignments"
	msgMaterialsFailed   = "failed to get materials"
)

// tokenStore is the subset of the session cache the client needs.
type tokenStore interface {
	Token(ctx context.Context) (string, error)
	ClearToken(ctx context.Context) error
}

// RemoteRepository talks to the classroom REST API. Payloads are returned as
// decoded JSON (numbers kept as json.Number); shaping them is left to callers.
type RemoteRepository struct {
	baseURL string
	client  *http.Client
	tokens  tokenStore
	logger  *zap.Logger
}

// NewRemoteRepository constructs the API client.
func NewRemoteRepository(cfg config.RemoteConfig, tokens tokenStore, logger *zap.Logger) *RemoteRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteRepository{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// Login posts credentials to the sessions endpoint.
func (r *RemoteRepository) Login(ctx context.Context, email, password string) (interface{}, error) {
	body := map[string]string{"email": email, "password": password}
	return r.do(ctx, http.MethodPost, "/sessions", body, msgLoginFailed)
}

// JoinClassroom requests membership of the classroom owning code.
func (r *RemoteRepository) JoinClassroom(ctx context.Context, code string) (interface{}, error) {
	return r.do(ctx, http.MethodPost, "/classrooms/memberships", dto.RemoteJoinRequest{ClassCode: code}, msgJoinFailed)
}

// ClassroomDetail fetches one classroom including its roster.
func (r *RemoteRepository) ClassroomDetail(ctx context.Context, id string) (interface{}, error) {
	return r.do(ctx, http.MethodGet, "/classrooms/"+url.PathEscape(id), nil, msgDetailFailed)
}

// Assignments lists practice assignments, or submissions when submissions is set.
func (r *RemoteRepository) Assignments(ctx context.Context, id string, submissions bool) (interface{}, error) {
	path := "/classrooms/" + url.PathEscape(id) + "/assignments"
	if submissions {
		path += "?type=submission"
	}
	return r.do(ctx, http.MethodGet, path, nil, msgAssignmentsFailed)
}

// Materials lists course materials.
func (r *RemoteRepository) Materials(ctx context.Context, id string) (interface{}, error) {
	return r.do(ctx, http.MethodGet, "/classrooms/"+url.PathEscape(id)+"/materials", nil, msgMaterialsFailed)
}

func (r *RemoteRepository) do(ctx context.Context, method, path string, body interface{}, fallback string) (interface{}, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Remote(err, 0, fallback, nil)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return nil, appErrors.Remote(err, 0, fallback, nil)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	r.authorize(ctx, req)

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("remote request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, appErrors.Remote(err, 0, fallback, nil)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Remote(err, resp.StatusCode, fallback, nil)
	}
	r.logger.Debug("remote request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	decoded, decodeErr := decodeJSON(raw)

	if resp.StatusCode == http.StatusUnauthorized {
		r.invalidate(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload interface{} = string(raw)
		if decodeErr == nil {
			payload = decoded
		}
		message := errorMessage(decoded, raw, fallback)
		return nil, appErrors.Remote(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode), resp.StatusCode, message, payload)
	}
	if decodeErr != nil {
		return nil, appErrors.Remote(decodeErr, resp.StatusCode, fallback, string(raw))
	}
	return decoded, nil
}

func (r *RemoteRepository) authorize(ctx context.Context, req *http.Request) {
	if r.tokens == nil {
		return
	}
	token, err := r.tokens.Token(ctx)
	if err != nil {
		r.logger.Warn("failed to read session token", zap.Error(err))
		return
	}
	if token = strings.TrimSpace(token); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// invalidate drops the cached token after a 401. Cached classrooms are kept.
func (r *RemoteRepository) invalidate(ctx context.Context) {
	if r.tokens == nil {
		return
	}
	if err := r.tokens.ClearToken(ctx); err != nil {
		r.logger.Warn("failed to clear session token", zap.Error(err))
		return
	}
	r.logger.Info("session token invalidated by remote")
}

func decodeJSON(raw []byte) (interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// errorMessage picks message > error > error.message > raw body > fallback.
func errorMessage(decoded interface{}, raw []byte, fallback string) string {
	if obj, ok := decoded.(map[string]interface{}); ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
		switch e := obj["error"].(type) {
		case string:
			if e != "" {
				return e
			}
		case map[string]interface{}:
			if msg, ok := e["message"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	if text, ok := decoded.(string); ok && text != "" {
		return text
	}
	if _, isObject := decoded.(map[string]interface{}); !isObject {
		if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 200 {
			return text
		}
	}
	return fallback
}
