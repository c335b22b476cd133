package oplock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	g := New(DefaultTimeout)

	require.True(t, g.Acquire("write"))
	assert.True(t, g.Held("write"))
	assert.False(t, g.Acquire("write"))

	// independent names don't contend
	assert.True(t, g.Acquire("other"))

	g.Release("write")
	assert.False(t, g.Held("write"))
	assert.True(t, g.Acquire("write"))
}

func TestReleaseUnheldIsNoop(t *testing.T) {
	g := New(DefaultTimeout)
	g.Release("never-held")
	assert.False(t, g.Held("never-held"))
}

func TestExpiredHoldIsReclaimed(t *testing.T) {
	clock := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	g := New(4 * time.Second).WithClock(func() time.Time { return clock })

	require.True(t, g.Acquire("write"))
	assert.False(t, g.Acquire("write"))

	clock = clock.Add(3 * time.Second)
	assert.False(t, g.Acquire("write"))
	assert.True(t, g.Held("write"))

	clock = clock.Add(2 * time.Second)
	assert.False(t, g.Held("write"))
	assert.True(t, g.Acquire("write"))
}

func TestDefaultTimeoutFallback(t *testing.T) {
	g := New(0)
	assert.Equal(t, DefaultTimeout, g.timeout)
}

func TestWith(t *testing.T) {
	g := New(DefaultTimeout)

	ran := false
	ok := g.With("write", func() {
		ran = true
		assert.True(t, g.Held("write"))
		assert.False(t, g.Acquire("write"))
	})
	require.True(t, ok)
	assert.True(t, ran)
	assert.False(t, g.Held("write"))

	require.True(t, g.Acquire("write"))
	called := false
	assert.False(t, g.With("write", func() { called = true }))
	assert.False(t, called)
}
