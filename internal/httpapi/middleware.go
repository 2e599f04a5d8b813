package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zynqcloud/vaultstore/internal/asynclog"
)

// requestIDHeader is set on every response so a client or reverse proxy can
// correlate it with the matching access-log line.
const requestIDHeader = "X-Request-Id"

// responseRecorder wraps http.ResponseWriter to capture the status code and
// byte count for the access log line, the way the teacher's logging
// middleware does.
type responseRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.written += int64(n)
	return n, err
}

// accessLog returns middleware that stamps every request with a UUID
// request id and emits one access log line through logger after the
// handler returns.
func accessLog(logger *asynclog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			w.Header().Set(requestIDHeader, reqID)

			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.Info("httpapi/middleware.go", 0,
				"%s %s id=%s status=%d bytes=%d duration_ms=%d remote=%s",
				r.Method, r.URL.Path, reqID, rec.status, rec.written,
				time.Since(start).Milliseconds(), r.RemoteAddr)
		})
	}
}

// uploadLimiter caps the number of concurrently in-flight upload requests
// with a non-blocking channel semaphore, rejecting overflow with 503
// instead of queuing — adapted from the teacher's upload concurrency guard.
type uploadLimiter struct {
	sem chan struct{}
}

func newUploadLimiter(maxConcurrent int) *uploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 256
	}
	return &uploadLimiter{sem: make(chan struct{}, maxConcurrent)}
}

func (l *uploadLimiter) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case l.sem <- struct{}{}:
			defer func() { <-l.sem }()
			next(w, r)
		default:
			w.Header().Set("Retry-After", "5")
			w.Header().Set("X-Active-Uploads", strconv.Itoa(len(l.sem)))
			http.Error(w, "server at capacity, retry shortly", http.StatusServiceUnavailable)
		}
	}
}

func (l *uploadLimiter) active() int { return len(l.sem) }
