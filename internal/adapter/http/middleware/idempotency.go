package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"

	// releaseTTL lets a key whose request failed with 5xx expire almost at once.
	releaseTTL = time.Millisecond
)

// storedResponse is what the store keeps for a finished request.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware replays the first response for a repeated
// Idempotency-Key. Keys are scoped to the authenticated caller.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		if user, ok := GetUserFromContext(r.Context()); ok {
			key = user.ID + ":" + key
		}

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			log.Error().Err(err).Str("idempotency_key", key).Msg("idempotency check failed")
			writeError(w, http.StatusInternalServerError, "internal server error", "idempotency check failed")
			return
		}

		if exists {
			var stored storedResponse
			if len(cached) == 0 || string(cached) == usecase.IdempotencyPending || json.Unmarshal(cached, &stored) != nil {
				writeError(w, http.StatusConflict, "request in progress", "a request with this idempotency key is still being processed")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(IdempotencyReplayHeader, "true")
			w.WriteHeader(stored.Status)
			_, _ = w.Write(stored.Body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= http.StatusInternalServerError {
			if err := m.store.Update(r.Context(), key, []byte(usecase.IdempotencyPending), releaseTTL); err != nil {
				log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
			return
		}

		payload, err := json.Marshal(storedResponse{
			Status: recorder.statusCode,
			Body:   json.RawMessage(bytes.TrimSpace(recorder.body.Bytes())),
		})
		if err != nil {
			log.Warn().Err(err).Str("idempotency_key", key).Msg("response is not cacheable")
			return
		}

		if err := m.store.Update(r.Context(), key, payload, m.ttl); err != nil {
			log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotent response")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
