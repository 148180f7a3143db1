package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "completed", "cancelled"} {
		s, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, Status(raw), s)
	}
	for _, raw := range []string{"", "PENDING", "Confirmed", "expired", "canceled", "done"} {
		_, err := ParseStatus(raw)
		assert.Error(t, err, raw)
	}
}

func TestCanTransitionMatrix(t *testing.T) {
	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

	allowed := map[Status]map[Status]bool{
		StatusPending: {
			StatusPending: true, StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true,
		},
		StatusConfirmed: {
			StatusConfirmed: true, StatusCompleted: true, StatusCancelled: true,
		},
		StatusCompleted: {},
		StatusCancelled: {
			StatusCancelled: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(Status("expired"), StatusCancelled))
	assert.False(t, CanTransition(StatusPending, Status("expired")))
}

func TestCompletedIsImmutable(t *testing.T) {
	for _, to := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		assert.Falsef(t, CanTransition(StatusCompleted, to), "completed -> %s must be rejected", to)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	assert.True(t, CanTransition(StatusCancelled, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
	assert.False(t, CanTransition(StatusCancelled, StatusConfirmed))
}

func TestIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}
