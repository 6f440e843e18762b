package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-client/pkg/config"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		Remote:    config.RemoteConfig{BaseURL: "http://127.0.0.1:1"},
		Store:     config.StoreConfig{Backend: backend},
		Notify:    config.NotifyConfig{Enabled: true, QueueSize: 4},
	}
}

func TestNewMemoryBackend(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.StoreMemory), nil)
	require.NoError(t, err)
	assert.Nil(t, a.Files)

	a.StartBackground(context.Background())
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/classrooms", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, a.Close())
}

func TestNewFileBackend(t *testing.T) {
	cfg := testConfig(config.StoreFile)
	cfg.Store.Dir = t.TempDir()

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, a.Files)
	assert.Equal(t, cfg.Store.Dir, a.Files.Dir())
	require.NoError(t, a.Close())
}

func TestNewRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.StoreRedis)
	cfg.Redis = config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr.Port()), KeyPrefix: "test:"}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Profiles.SetTheme(context.Background(), "dark"))
	value, err := mr.Get("test:themePreference")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
	require.NoError(t, a.Close())
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), testConfig("etcd"), nil)
	assert.Error(t, err)
}

func TestNATSFailureFallsBackToLocal(t *testing.T) {
	cfg := testConfig(config.StoreMemory)
	cfg.Notify.NATSURL = "nats://127.0.0.1:1"

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Notifications.LoggedOut(context.Background()))
	require.NoError(t, a.Close())
}

func mustPort(t *testing.T, raw string) int {
	t.Helper()
	port, err := strconv.Atoi(raw)
	require.NoError(t, err)
	return port
}
