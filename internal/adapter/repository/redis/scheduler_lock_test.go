package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerLockExclusive(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	first := NewSchedulerLock(client, "gowallet:scheduler:lock")
	second := NewSchedulerLock(client, "gowallet:scheduler:lock")

	release, ok, err := first.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = second.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))

	_, ok, err = second.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSchedulerLockReleaseKeepsForeignLock(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	lock := NewSchedulerLock(client, "lock")

	release, ok, err := lock.Acquire(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, release(ctx))
	assert.True(t, mr.Exists("lock"))
}
