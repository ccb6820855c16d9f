package transport

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the header used to propagate request IDs.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client-supplied IDs that are echoed back and logged.
const maxRequestIDLen = 128

// RequestID returns middleware that assigns a unique request ID to each
// request. A client-supplied X-Request-ID header is reused when present,
// otherwise a new UUID is generated. The ID is stored in the request
// context (see RequestIDFromContext) and set on the response header before
// the handler runs, so every response carries it.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
		})
	}
}
