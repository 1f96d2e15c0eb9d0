package middleware

import (
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a 500 and logs the stack. When the
// handler already started its response, the connection is left as is.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error().
					Interface("error", rec).
					Str("stack", string(debug.Stack())).
					Str("request_id", chimiddleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Bool("response_started", wrapped.wroteHeader).
					Msg("panic recovered")

				if !wrapped.wroteHeader {
					writeError(w, http.StatusInternalServerError, "internal server error", "")
				}
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}
