// internal/middleware/accesslog.go
//
// One structured log line per request.
//
// Notes
// -----
// • Must sit inside RequestID and requestinfo.Enrich so the line carries the
//   request_id and UA fields.
// • statusWriter records the first status written; a handler that never
//   calls WriteHeader is logged as 200.

package middleware

import (
	"net/http"
	"time"

	"github.com/yanizio/storefront/internal/logger"
	"github.com/yanizio/storefront/internal/requestinfo"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// AccessLog logs method, path, status, bytes, duration, and UA hints.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if info := requestinfo.FromContext(r.Context()); info != nil {
			fields = append(fields, "browser", info.UA.Browser, "bot", info.UA.IsBot)
		}
		logger.FromContext(r.Context()).Infow("http request", fields...)
	})
}
