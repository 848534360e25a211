package middleware

import (
	"net/http"
	"time"
)

type logger interface {
	Info(msg string, args ...any)
}

type responseStats struct {
	status int
	size   int
}

type statWriter struct {
	http.ResponseWriter
	stats responseStats
}

func (w *statWriter) Write(p []byte) (int, error) {
	size, err := w.ResponseWriter.Write(p)
	w.stats.size += size
	return size, err
}

func (w *statWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.stats.status = statusCode
}

func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			sw := &statWriter{
				ResponseWriter: w,
				stats:          responseStats{status: http.StatusOK},
			}

			next.ServeHTTP(sw, r)

			// Log path only: query strings may carry tokens
			l.Info(
				"http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"duration", time.Since(start),
				"status", sw.stats.status,
				"size", sw.stats.size,
			)
		})
	}
}
