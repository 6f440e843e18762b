package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
	"github.com/noah-isme/classroom-client/pkg/storage"
)

var (
	_ KeyValueStore = (*MemoryKV)(nil)
	_ KeyValueStore = (*RedisKV)(nil)
	_ KeyValueStore = (*PostgresKV)(nil)
	_ KeyValueStore = (*storage.LocalStorage)(nil)
)

func exerciseKV(t *testing.T, kv KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, KeyAuthToken)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	require.NoError(t, kv.Set(ctx, KeyAuthToken, "tok"))
	require.NoError(t, kv.Set(ctx, KeyClassrooms, "[]"))
	value, err := kv.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", value)

	require.NoError(t, kv.Delete(ctx, KeyAuthToken, KeyClassrooms))
	_, err = kv.Get(ctx, KeyClassrooms)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestLocalStorageKV(t *testing.T) {
	kv, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exerciseKV(t, kv)
}

func TestRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedisKV(client, "classroom:", zap.NewNop())
	defer kv.Close()

	exerciseKV(t, kv)

	require.NoError(t, kv.Set(context.Background(), KeyUserName, "Alice"))
	assert.True(t, mr.Exists("classroom:userName"))
}

func TestRedisKVWithoutClient(t *testing.T) {
	kv := NewRedisKV(nil, "", nil)
	_, err := kv.Get(context.Background(), KeyAuthToken)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.Error(t, kv.Set(context.Background(), KeyAuthToken, "x"))
	assert.NoError(t, kv.Delete(context.Background(), KeyAuthToken))
}

func newKVMock(t *testing.T) (*PostgresKV, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	kv, err := NewPostgresKV(sqlx.NewDb(db, "sqlmock"), "kv_entries")
	require.NoError(t, err)
	return kv, mock, func() { db.Close() }
}

func TestPostgresKVGet(t *testing.T) {
	kv, mock, cleanup := newKVMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs(KeyAuthToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs(KeyClassrooms).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, err := kv.Get(context.Background(), KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", value)

	_, err = kv.Get(context.Background(), KeyClassrooms)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVSetAndDelete(t *testing.T) {
	kv, mock, cleanup := newKVMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO kv_entries").
		WithArgs(KeyClassrooms, "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, kv.Set(context.Background(), KeyClassrooms, "[]"))
	require.NoError(t, kv.Delete(context.Background(), KeyAuthToken, KeyClassrooms))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVEnsureSchema(t *testing.T) {
	kv, mock, cleanup := newKVMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_entries").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, kv.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVRejectsBadTable(t *testing.T) {
	_, err := NewPostgresKV(nil, "kv; DROP TABLE users")
	assert.Error(t, err)
}
