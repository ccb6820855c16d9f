package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/rhuss/searelay/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to internal error responses. The server continues to
// accept new requests after a panic is recovered. http.ErrAbortHandler is
// re-raised so net/http can abort the connection as intended.
func Recovery(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				logger.ErrorContext(r.Context(), "panic recovered",
					"panic", fmt.Sprint(rv),
					"request_id", RequestIDFromContext(r.Context()),
					"stack", string(debug.Stack()),
				)
				WriteAPIError(w, api.NewInternalError(fmt.Sprintf("internal server error: %v", rv)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
