package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLockerTryAcquire(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	l := NewRedisLocker(rdb, time.Minute)

	mock.ExpectSetNX("lock:booking_ttl_worker", "1", time.Minute).SetVal(true)
	got, err := l.TryAcquire(ctx, "booking_ttl_worker")
	require.NoError(t, err)
	assert.True(t, got)

	// Key already present: acquisition is declined, not an error.
	mock.ExpectSetNX("lock:booking_ttl_worker", "1", time.Minute).SetVal(false)
	got, err = l.TryAcquire(ctx, "booking_ttl_worker")
	require.NoError(t, err)
	assert.False(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerTryAcquireError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	l := NewRedisLocker(rdb, time.Minute)

	mock.ExpectSetNX("lock:sweep", "1", time.Minute).SetErr(errors.New("connection refused"))
	got, err := l.TryAcquire(context.Background(), "sweep")
	assert.Error(t, err)
	assert.False(t, got)
}

func TestRedisLockerRelease(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	l := NewRedisLocker(rdb, time.Minute)

	mock.ExpectDel("lock:sweep").SetVal(1)
	require.NoError(t, l.Release(context.Background(), "sweep"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisLockerDefaultTTL(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	l := NewRedisLocker(rdb, 0)

	mock.ExpectSetNX("lock:sweep", "1", 5*time.Minute).SetVal(true)
	got, err := l.TryAcquire(context.Background(), "sweep")
	require.NoError(t, err)
	assert.True(t, got)
}
