// Package noop provides an authenticator that accepts every request as an
// anonymous caller. The subject is derived from the client address so that
// per-caller rate limiting still applies when no keys are configured.
package noop

import (
	"context"
	"net"
	"net/http"

	"github.com/rhuss/searelay/pkg/auth"
)

// Method is the Identity.Method value set by this authenticator.
const Method = "anonymous"

// Authenticator always returns Yes with an anonymous identity.
type Authenticator struct{}

func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.AuthResult {
	return auth.AuthResult{
		Decision: auth.Yes,
		Identity: &auth.Identity{
			Subject: "anonymous:" + clientHost(r.RemoteAddr),
			Method:  Method,
		},
	}
}

// clientHost strips the port from a RemoteAddr value.
func clientHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
