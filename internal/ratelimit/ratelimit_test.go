package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *Limiter
	for i := 0; i < 100; i++ {
		ok, reason := l.Allow()
		require.True(t, ok)
		require.Empty(t, reason)
	}
	require.Nil(t, New(0, 0, nil))
}

func TestMaxTotal(t *testing.T) {
	l := New(2, 0, nil)

	ok, _ := l.Allow()
	require.True(t, ok)
	ok, _ = l.Allow()
	require.True(t, ok)

	ok, reason := l.Allow()
	require.False(t, ok)
	require.Equal(t, "Maximum number of decompile calls exceeded", reason)
}

func TestRatePerMinute(t *testing.T) {
	l := New(0, 2, nil)

	// Burst capacity equals the per-minute rate.
	ok, _ := l.Allow()
	require.True(t, ok)
	ok, _ = l.Allow()
	require.True(t, ok)

	ok, reason := l.Allow()
	require.False(t, ok)
	require.Equal(t, "Rate limit exceeded", reason)
}

func TestRejectionDoesNotConsumeTotal(t *testing.T) {
	l := New(1, 1, nil)

	ok, _ := l.Allow()
	require.True(t, ok)

	// Total cap rejects before the rate limiter is consulted.
	ok, reason := l.Allow()
	require.False(t, ok)
	require.Equal(t, "Maximum number of decompile calls exceeded", reason)
}
