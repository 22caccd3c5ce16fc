package middleware

import (
	"net/http"
	"time"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// Logging creates middleware that logs each HTTP request with its duration.
// The request ID from context is attached when available.
func Logging(log logging.Logger, getRequestID func(*http.Request) string) func(http.Handler) http.Handler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Latency(time.Since(start)),
			}
			if getRequestID != nil {
				if id := getRequestID(r); id != "" {
					fields = append(fields, logging.String("request_id", id))
				}
			}
			log.Info("http request", fields...)
		})
	}
}
