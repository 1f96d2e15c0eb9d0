package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil, nil)

	rr := httptest.NewRecorder()
	h.Liveness(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		postgres Pinger
		redis    Pinger
		expected int
	}{
		{"all healthy", ok, ok, http.StatusOK},
		{"postgres down", down, ok, http.StatusServiceUnavailable},
		{"redis down", ok, down, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.postgres, tt.redis)

			rr := httptest.NewRecorder()
			h.Readiness(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rr.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rr.Code)
			}
		})
	}
}
