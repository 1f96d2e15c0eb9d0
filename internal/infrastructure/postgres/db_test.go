package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolWithConfigInvalidURL(t *testing.T) {
	ctx := context.Background()

	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx := context.Background()
	cfg := PoolConfig{
		DatabaseURL:    "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:       1,
		ConnectTimeout: 2 * time.Second,
	}

	if _, err := NewPoolWithConfig(ctx, cfg); err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}
