package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_RejectsEleventhCall(t *testing.T) {
	l := NewMemoryLimiter(10, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok, "call %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok, "11th call within the window must be rejected")
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	l := NewMemoryLimiter(10, time.Minute)
	ctx := context.Background()

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }

	for i := 0; i < 10; i++ {
		ok, _ := l.Allow(ctx, "user-1")
		require.True(t, ok)
	}

	ok, _ := l.Allow(ctx, "user-1")
	require.False(t, ok)

	// After the window elapses calls succeed again
	current = current.Add(61 * time.Second)
	ok, err := l.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	require.True(t, ok)

	ok, _ = l.Allow(ctx, "a")
	require.False(t, ok)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok, "a different identifier has its own window")
}
