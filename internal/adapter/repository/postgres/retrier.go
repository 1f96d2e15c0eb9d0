package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Transient PostgreSQL errors: the whole unit can simply run again.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
)

// Retrier re-runs a transfer or scheduler unit that lost a lock race.
type Retrier struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// NewRetrier allows three retries within ten seconds.
func NewRetrier() *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          log.Logger,
	}
}

// Retry runs operation again, with exponential backoff, while it fails with
// a deadlock, a serialization failure or a lock timeout. Any other error and
// a cancelled ctx end the loop at once.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Int("retry", retryCount).
			Str("pg_code", pgErrorCode(err)).
			Msg("wallet rows contended, retrying unit")

		return err
	}, backoff.WithContext(b, ctx))
}

func isRetryableError(err error) bool {
	switch pgErrorCode(err) {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable:
		return true
	}
	return false
}
