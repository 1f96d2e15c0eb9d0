package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/iho/gowallet/internal/infrastructure/resilience"
)

// setIfNewerScript stores "version:balance" unless the key already holds the
// same or a newer version.
var setIfNewerScript = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur then
	local v = tonumber(string.match(cur, "^(%d+):"))
	if v and v >= tonumber(ARGV[1]) then
		return 0
	end
end
redis.call("SET", KEYS[1], ARGV[1] .. ":" .. ARGV[2], "PX", ARGV[3])
return 1
`)

// BalanceCache implements usecase.BalanceCache using Redis. Calls go
// through a circuit breaker so an unhealthy Redis fails fast.
type BalanceCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	prefix  string
}

// NewBalanceCache creates a new BalanceCache.
func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{
		client:  client,
		breaker: resilience.NewCircuitBreaker("redis-balance-cache"),
		prefix:  "gowallet:balance:",
	}
}

// Get returns the cached balance of a user. A miss is not an error.
func (c *BalanceCache) Get(ctx context.Context, userID string) (decimal.Decimal, bool, error) {
	res, err := c.breaker.Execute(func() (any, error) {
		val, err := c.client.Get(ctx, c.prefix+userID).Result()
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return val, err
	})
	if err != nil {
		return decimal.Zero, false, err
	}

	raw := res.(string)
	if raw == "" {
		return decimal.Zero, false, nil
	}

	_, amount, found := strings.Cut(raw, ":")
	if !found {
		return decimal.Zero, false, fmt.Errorf("corrupt cached balance for %s: missing version", userID)
	}

	balance, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached balance for %s: %w", userID, err)
	}

	return balance, true, nil
}

// Set caches the balance of account version for ttl. An entry holding the
// same or a newer version is left alone.
func (c *BalanceCache) Set(ctx context.Context, userID string, balance decimal.Decimal, version int64, ttl time.Duration) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, setIfNewerScript.Run(ctx, c.client, []string{c.prefix + userID},
			strconv.FormatInt(version, 10), balance.StringFixed(2), ttl.Milliseconds()).Err()
	})
	return err
}

// Invalidate drops the cached balances of the given users.
func (c *BalanceCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = c.prefix + id
	}

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.client.Del(ctx, keys...).Err()
	})
	return err
}
