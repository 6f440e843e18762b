package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-client/internal/models"
	"github.com/noah-isme/classroom-client/internal/repository"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

type mockAuthRemote struct {
	resp  interface{}
	err   error
	calls int
}

func (m *mockAuthRemote) Login(ctx context.Context, email, password string) (interface{}, error) {
	m.calls++
	return m.resp, m.err
}

type authFixture struct {
	svc       *AuthService
	remote    *mockAuthRemote
	notifier  *mockNotifier
	sessions  *repository.SessionRepository
	store     *repository.ClassroomRepository
	classroom *ClassroomService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	kv := repository.NewMemoryKV()
	store := repository.NewClassroomRepository(kv)
	sessions := repository.NewSessionRepository(kv)
	session := NewSession(sessions, store, nil, nil)
	notifier := &mockNotifier{}
	remote := &mockAuthRemote{}
	classrooms := NewClassroomService(store, session, &mockClassroomRemote{}, notifier, nil, nil)
	return &authFixture{
		svc:       NewAuthService(remote, session, notifier, classrooms, nil, nil),
		remote:    remote,
		notifier:  notifier,
		sessions:  sessions,
		store:     store,
		classroom: classrooms,
	}
}

func TestLoginValidation(t *testing.T) {
	f := newAuthFixture(t)
	cases := []models.LoginRequest{
		{Email: "", Password: "secret1"},
		{Email: "not-an-email", Password: "secret1"},
		{Email: "a@b.co", Password: "123"},
	}
	for _, req := range cases {
		_, err := f.svc.Login(context.Background(), req)
		assert.True(t, errors.Is(err, appErrors.ErrValidation))
	}
	assert.Zero(t, f.remote.calls)
}

func TestLoginTokenLocations(t *testing.T) {
	cases := []struct {
		name string
		body map[string]interface{}
		want string
	}{
		{"top level", map[string]interface{}{"token": "t1", "data": map[string]interface{}{"token": "t2"}}, "t1"},
		{"nested data", map[string]interface{}{"data": map[string]interface{}{"token": "t2"}}, "t2"},
		{"id token", map[string]interface{}{"idToken": "t3"}, "t3"},
		{"nested id token", map[string]interface{}{"data": map[string]interface{}{"idToken": "t4"}}, "t4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newAuthFixture(t)
			f.remote.resp = tc.body

			result, err := f.svc.Login(ctx, models.LoginRequest{Email: " student@school.edu ", Password: "secret1"})
			require.NoError(t, err)
			assert.Equal(t, "student@school.edu", result.Email)

			token, _ := f.sessions.Token(ctx)
			assert.Equal(t, tc.want, token)
			assert.Equal(t, []string{"student@school.edu"}, f.notifier.loggedIn)
		})
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	f := newAuthFixture(t)
	f.remote.resp = map[string]interface{}{"ok": true}

	_, err := f.svc.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "secret1"})
	assert.True(t, errors.Is(err, appErrors.ErrRemote))
	assert.Empty(t, f.notifier.loggedIn)
}

func TestLoginStartsFreshSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.store.Save(ctx, []models.Classroom{models.NormalizeClassroom(models.Record{"id": "old"})}))
	f.remote.resp = map[string]interface{}{"token": "fresh"}

	_, err := f.svc.Login(ctx, models.LoginRequest{Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)

	items, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLoginRemoteError(t *testing.T) {
	f := newAuthFixture(t)
	f.remote.err = appErrors.Remote(nil, 401, "Invalid credentials", nil)

	_, err := f.svc.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", appErrors.FromError(err).Message)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	assert.False(t, f.svc.Status(ctx).Authenticated)

	require.NoError(t, f.sessions.SetToken(ctx, "opaque-token"))
	status := f.svc.Status(ctx)
	assert.True(t, status.Authenticated)
	assert.False(t, status.JWT)

	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@b.co",
		"exp":   exp.Unix(),
	}).SignedString([]byte("unknown-to-client"))
	require.NoError(t, err)
	require.NoError(t, f.sessions.SetToken(ctx, signed))

	f.svc.now = func() time.Time { return exp.Add(time.Hour) }
	status = f.svc.Status(ctx)
	assert.True(t, status.JWT)
	assert.Equal(t, "user-1", status.Subject)
	assert.Equal(t, "a@b.co", status.Email)
	require.NotNil(t, status.ExpiresAt)
	assert.True(t, status.ExpiresAt.Equal(exp))
	assert.True(t, status.Expired)
}

func TestAuthLogoutDelegates(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	require.NoError(t, f.sessions.SetToken(ctx, "tok"))

	require.NoError(t, f.svc.Logout(ctx))
	token, _ := f.sessions.Token(ctx)
	assert.Empty(t, token)
	assert.Equal(t, 1, f.notifier.logouts)
}
