// Package api defines the wire types exchanged between the searelay HTTP
// surface and its clients.
//
// The package has no external dependencies and performs no I/O. It provides:
//   - [ChatMessage], [ChatRequest], [ChatResponse], [HealthResponse]: the JSON
//     bodies of POST /api/chat and GET /api/health
//   - [APIError]: the error taxonomy returned to the frontend as
//     {"error": ..., "details": ...}
//   - [DecodeChatRequest] and [ValidateChatRequest]: shape checks applied
//     before a request reaches the upstream provider
package api
