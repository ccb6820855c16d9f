// Package transport provides the HTTP-level building blocks shared by the
// searelay server: JSON response and error writing, request ID assignment
// (X-Request-ID), structured access logging via log/slog, and panic
// recovery.
//
// # Middleware
//
// Middleware has the standard func(http.Handler) http.Handler shape so it
// composes with chi and any other net/http router. Chain(a, b, c) produces
// a(b(c(handler))); the first middleware is the outermost wrapper.
//
// # Errors
//
// Handlers report failures as *api.APIError values. WriteError converts any
// error into an APIError (non-API errors become internal errors) and
// derives the HTTP status from the error kind, so every failure body has
// the same {"error", "details"} shape.
package transport
