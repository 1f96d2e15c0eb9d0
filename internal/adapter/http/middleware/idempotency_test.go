package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func newTransferRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req
}

func TestIdempotencyMiddleware_StoreErrorReturns500(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, newTransferRequest("key-err"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReleasesKeyOnServerError(t *testing.T) {
	var (
		updatedTTL  time.Duration
		updatedBody []byte
	)
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updatedTTL = ttl
			updatedBody = response
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})).ServeHTTP(rr, newTransferRequest("key-fail"))

	if updatedTTL != releaseTTL {
		t.Fatalf("expected key to be released with ttl %v, got %v", releaseTTL, updatedTTL)
	}
	if string(updatedBody) != usecase.IdempotencyPending {
		t.Fatalf("expected failed response not to be cached, got %s", updatedBody)
	}
}

func TestIdempotencyMiddleware_SkipsNonMutatingRequests(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatalf("store should not be consulted for GET")
			return false, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/balance", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-get")
	rr := httptest.NewRecorder()

	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("expected next handler to be called")
	}
}

func TestIdempotencyMiddleware_SkipsRequestsWithoutKey(t *testing.T) {
	mw := NewIdempotencyMiddleware(&fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatalf("store should not be consulted without a key")
			return false, nil, nil
		},
	}, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfer", nil)
	rr := httptest.NewRecorder()

	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("expected next handler to be called")
	}
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	stored, _ := json.Marshal(storedResponse{Status: http.StatusCreated, Body: json.RawMessage(`{"cached":true}`)})
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, stored, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called when cached response exists")
	})).ServeHTTP(rr, newTransferRequest("key-123"))

	if rr.Header().Get(IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected %s header to be set", IdempotencyReplayHeader)
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected replayed status 201, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != `{"cached":true}` {
		t.Fatalf("unexpected cached body: %s", got)
	}
}

func TestIdempotencyMiddleware_PendingReturnsConflict(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte(usecase.IdempotencyPending), nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run while the key is pending")
	})).ServeHTTP(rr, newTransferRequest("key-pending"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	var (
		updatedKey  string
		updatedBody []byte
	)
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updatedKey = key
			updatedBody = append([]byte(nil), response...)
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour)

	req := newTransferRequest("key-456")
	req = req.WithContext(WithUser(req.Context(), &domain.User{ID: "user-1", Username: "alice"}))
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"insufficient balance"}` + "\n"))
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}
	if updatedKey != "user-1:key-456" {
		t.Fatalf("expected key scoped to the caller, got %q", updatedKey)
	}

	var stored storedResponse
	if err := json.Unmarshal(updatedBody, &stored); err != nil {
		t.Fatalf("stored response is not valid JSON: %v", err)
	}
	if stored.Status != http.StatusBadRequest {
		t.Fatalf("expected stored status 400, got %d", stored.Status)
	}
	if string(stored.Body) != `{"error":"insufficient balance"}` {
		t.Fatalf("unexpected stored body: %s", stored.Body)
	}
}
