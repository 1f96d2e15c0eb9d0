package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGeneratorIsMonotonic(t *testing.T) {
	gen := NewULIDGenerator()

	prev := gen.Generate()
	_, err := ulid.ParseStrict(prev)
	require.NoError(t, err)

	for range 1000 {
		next := gen.Generate()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestPgErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgErrCheckViolation})

	assert.Equal(t, pgErrCheckViolation, pgErrorCode(wrapped))
	assert.Equal(t, "", pgErrorCode(errors.New("plain")))
	assert.Equal(t, "", pgErrorCode(nil))
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.01", "125.50", "1000000000"} {
		d := decimal.RequireFromString(s)
		assert.True(t, numericToDecimal(decimalToNumeric(d)).Equal(d), s)
	}

	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestTimestamptzHelpers(t *testing.T) {
	assert.False(t, optionalTimestamptz(nil).Valid)
	assert.Nil(t, timestamptzPtr(pgtype.Timestamptz{}))

	local := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	got := timestamptzPtr(optionalTimestamptz(&local))
	require.NotNil(t, got)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(local))
}
