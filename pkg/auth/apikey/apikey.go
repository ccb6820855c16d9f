// Package apikey provides an API key authenticator that validates
// bearer tokens against a static key store using SHA-256 hashing
// and constant-time comparison.
package apikey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/rhuss/searelay/pkg/auth"
)

// KeyEntry maps a key hash to an identity.
type KeyEntry struct {
	KeyHash  [32]byte
	Identity auth.Identity
}

// Method is the Identity.Method value set by this authenticator.
const Method = "apikey"

// HeaderAPIKey is accepted as an alternative to an Authorization bearer token.
const HeaderAPIKey = "X-API-Key"

// Authenticator validates bearer tokens against a static key store.
type Authenticator struct {
	keys []KeyEntry
}

// New creates an API key authenticator from a list of raw keys and identities.
// Keys are hashed immediately; plaintext keys are not stored. An entry
// without a subject is identified by a short prefix of its key hash.
func New(entries []RawKeyEntry) *Authenticator {
	a := &Authenticator{}
	for _, e := range entries {
		hash := sha256.Sum256([]byte(e.Key))
		id := e.Identity
		if id.Subject == "" {
			id.Subject = "key-" + hex.EncodeToString(hash[:4])
		}
		id.Method = Method
		a.keys = append(a.keys, KeyEntry{KeyHash: hash, Identity: id})
	}
	return a
}

// RawKeyEntry is the configuration format for API keys.
type RawKeyEntry struct {
	Key      string
	Identity auth.Identity
}

// Authenticate extracts the bearer token (or X-API-Key header) and
// validates it. Returns Yes if valid, No if a key is present but invalid,
// Abstain if no key is present.
func (a *Authenticator) Authenticate(_ context.Context, r *http.Request) auth.AuthResult {
	token, present := extractKey(r)
	if !present {
		return auth.AuthResult{Decision: auth.Abstain}
	}
	if token == "" {
		return auth.AuthResult{Decision: auth.No, Err: auth.ErrUnauthenticated}
	}

	// Hash the token and compare against stored hashes.
	tokenHash := sha256.Sum256([]byte(token))

	for _, entry := range a.keys {
		if subtle.ConstantTimeCompare(tokenHash[:], entry.KeyHash[:]) == 1 {
			// Copy identity to avoid shared state.
			id := entry.Identity
			return auth.AuthResult{Decision: auth.Yes, Identity: &id}
		}
	}

	// Bearer token present but not found.
	return auth.AuthResult{Decision: auth.No, Err: auth.ErrUnauthenticated}
}

// extractKey returns the presented key and whether any key was presented.
func extractKey(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")), true
	}
	if key, ok := r.Header[http.CanonicalHeaderKey(HeaderAPIKey)]; ok && len(key) > 0 {
		return strings.TrimSpace(key[0]), true
	}
	return "", false
}
