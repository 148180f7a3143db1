package lock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockerAcquireRelease(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLocker()

	got, err := l.TryAcquire(ctx, "sweep")
	require.NoError(t, err)
	assert.True(t, got)

	// Second acquire of the same name fails without error.
	got, err = l.TryAcquire(ctx, "sweep")
	require.NoError(t, err)
	assert.False(t, got)

	// A different name is independent.
	got, err = l.TryAcquire(ctx, "other")
	require.NoError(t, err)
	assert.True(t, got)

	require.NoError(t, l.Release(ctx, "sweep"))
	got, err = l.TryAcquire(ctx, "sweep")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestMemoryLockerReleaseUnheld(t *testing.T) {
	l := NewMemoryLocker()
	assert.NoError(t, l.Release(context.Background(), "never-acquired"))
}
