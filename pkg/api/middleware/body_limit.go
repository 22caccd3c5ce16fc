package middleware

import "net/http"

// bodyLimiter enforces the request body cap for a single wrapped handler.
type bodyLimiter struct {
	next http.Handler
	max  int64
}

func (b bodyLimiter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// A declared Content-Length above the cap is rejected before any of
	// the body is read.
	if r.ContentLength > b.max {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	// Chunked requests declare no length; MaxBytesReader cuts them off
	// at the cap while the handler reads.
	r.Body = http.MaxBytesReader(w, r.Body, b.max)

	b.next.ServeHTTP(w, r)
}

// BodySizeLimit caps incoming request bodies at maxBytes.
func BodySizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return bodyLimiter{next: next, max: maxBytes}
	}
}
