// Package relay implements the chat relay: it validates an incoming
// conversation, prepends the maritime assistant persona when the caller did
// not supply a system message, forwards the conversation to the upstream
// Completer, and maps the outcome to an api.ChatResponse or a tagged
// *api.APIError.
//
// A Service holds no per-request state and is safe for concurrent use.
package relay
