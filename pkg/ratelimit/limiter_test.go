package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_AllowsUpToLimitWithinWindow(t *testing.T) {
	l := NewLimiter(true)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Check("user-1", 3, time.Minute))
	}
}

func TestLimiter_RejectsOverLimitWithinWindow(t *testing.T) {
	l := NewLimiter(true)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Check("user-1", 3, time.Minute))
	}

	err := l.Check("user-1", 3, time.Minute)
	require.Error(t, err)

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "user-1", rlErr.Identifier)
	assert.Equal(t, 3, rlErr.Limit)
}

func TestLimiter_DisabledAlwaysAllows(t *testing.T) {
	l := NewLimiter(false)
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Check("user-1", 1, time.Minute))
	}
}

func TestLimiter_IndependentIdentifiersDoNotShareCounters(t *testing.T) {
	l := NewLimiter(true)
	require.NoError(t, l.Check("user-1", 1, time.Minute))
	require.NoError(t, l.Check("user-2", 1, time.Minute))
}

func TestLimiter_WindowExpiryResetsCounter(t *testing.T) {
	l := NewLimiter(true)
	window := 20 * time.Millisecond

	require.NoError(t, l.Check("user-1", 1, window))
	require.Error(t, l.Check("user-1", 1, window))

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, l.Check("user-1", 1, window), "a fresh window must reset the counter")
}
