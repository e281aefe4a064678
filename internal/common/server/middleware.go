// internal/common/server/middleware.go
package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	apperrors "committee-matcher/internal/common/errors"
	commonhttp "committee-matcher/internal/common/http"
	"committee-matcher/internal/common/logger"
)

// RequestIDHeader carries the per-request correlation ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses an inbound X-Request-ID or generates one, echoes it on the
// response and stores it on the request context.
func RequestID() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(commonhttp.WithRequestID(r.Context(), id)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// AccessLog writes one structured line per request.
func AccessLog(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			log.Info("HTTP request", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"bytes":      rec.bytes,
				"durationMs": time.Since(start).Milliseconds(),
				"requestId":  commonhttp.RequestIDFromContext(r.Context()),
				"remoteAddr": r.RemoteAddr,
			})
		})
	}
}

// Recover turns a panic into a 500 JSON response.
func Recover(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("Panic recovered", map[string]interface{}{
						"panic":     fmt.Sprint(rec),
						"path":      r.URL.Path,
						"requestId": commonhttp.RequestIDFromContext(r.Context()),
						"stack":     string(debug.Stack()),
					})
					stdErr := apperrors.NewInternalError(fmt.Errorf("panic: %v", rec))
					apperrors.WriteJSON(w, stdErr.HTTPStatus(), stdErr.ToResponseBody())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
