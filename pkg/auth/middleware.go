package auth

import (
	"log/slog"
	"net/http"

	"github.com/rhuss/searelay/pkg/api"
	"github.com/rhuss/searelay/pkg/debug"
	"github.com/rhuss/searelay/pkg/observability"
	"github.com/rhuss/searelay/pkg/transport"
)

// Middleware creates HTTP middleware from an AuthChain and optional RateLimiter.
// It checks the bypass list, runs authentication, optionally enforces rate
// limits, and stores the identity in the request context.
func Middleware(chain *AuthChain, limiter RateLimiter, bypassEndpoints []string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(bypassEndpoints))
	for _, ep := range bypassEndpoints {
		bypass[ep] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			result := chain.Authenticate(r.Context(), r)

			if result.Decision != Yes || result.Identity == nil {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"request_id", transport.RequestIDFromContext(r.Context()),
					"error", result.Err,
				)
				transport.WriteAPIError(w, api.NewUnauthenticatedError())
				return
			}

			if result.Identity.Subject == "" {
				slog.Error("authenticator returned identity with empty subject", "method", result.Identity.Method)
				transport.WriteAPIError(w, api.NewInternalError("internal authentication error"))
				return
			}

			debug.Log("auth", "authentication succeeded",
				"subject", result.Identity.Subject,
				"method", result.Identity.Method,
				"path", r.URL.Path,
			)

			if limiter != nil {
				if err := limiter.Allow(r.Context(), result.Identity); err != nil {
					slog.Warn("rate limit exceeded",
						"subject", result.Identity.Subject,
						"path", r.URL.Path,
					)
					observability.RateLimitRejectedTotal.Inc()
					transport.WriteAPIError(w, api.NewTooManyRequestsError(""))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), result.Identity)))
		})
	}
}

// DefaultBypassEndpoints lists endpoints that skip authentication.
var DefaultBypassEndpoints = []string{"/api/health", "/metrics"}
