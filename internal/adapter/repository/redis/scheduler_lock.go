package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultSchedulerLockKey is the key every replica contends on.
const DefaultSchedulerLockKey = "gowallet:scheduler:recurring"

// releaseScript deletes the lock only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SchedulerLock implements usecase.SchedulerLock with SET NX and a
// token-checked release, so only one process runs a tick at a time.
type SchedulerLock struct {
	client *redis.Client
	key    string
}

// NewSchedulerLock creates a lock stored under key.
func NewSchedulerLock(client *redis.Client, key string) *SchedulerLock {
	return &SchedulerLock{client: client, key: key}
}

// Acquire takes the lock for at most ttl.
func (l *SchedulerLock) Acquire(ctx context.Context, ttl time.Duration) (func(context.Context) error, bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
	}

	return release, true, nil
}
