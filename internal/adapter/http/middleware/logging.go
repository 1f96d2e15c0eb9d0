package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// probePaths are polled by orchestrators and logged at debug level only.
var probePaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// LoggingMiddleware writes one line per request.
type LoggingMiddleware struct {
	logger zerolog.Logger
}

func NewLoggingMiddleware(logger zerolog.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

// Wrap logs the request after next returns. 4xx responses are warnings and
// 5xx responses are errors.
func (m *LoggingMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		var event *zerolog.Event
		switch {
		case wrapped.statusCode >= http.StatusInternalServerError:
			event = m.logger.Error()
		case wrapped.statusCode >= http.StatusBadRequest:
			event = m.logger.Warn()
		case probePaths[r.URL.Path]:
			event = m.logger.Debug()
		default:
			event = m.logger.Info()
		}

		if key := r.Header.Get(IdempotencyKeyHeader); key != "" {
			event = event.
				Str("idempotency_key", key).
				Bool("replayed", wrapped.Header().Get(IdempotencyReplayHeader) == "true")
		}

		event.
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.statusCode).
			Int("bytes", wrapped.bytes).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}

// statusRecorder captures what a handler wrote.
type statusRecorder struct {
	http.ResponseWriter

	statusCode  int
	bytes       int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.statusCode = statusCode
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}
