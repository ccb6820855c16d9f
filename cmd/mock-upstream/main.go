// Command mock-upstream runs a deterministic OpenAI-compatible Chat
// Completions server for local development and demos of searelay.
//
// Responses are predictable and driven by markers in the last user
// message, so every upstream failure the relay maps can be reproduced
// without a real API key:
//
//	[401]   invalid API key
//	[429]   rate limit exceeded
//	[500]   internal server error
//	[503]   service unavailable
//	[418]   non-standard status, passed through by the relay
//	[empty] successful response with zero choices
//
// Point the relay at it with SEARELAY_BASE_URL=http://localhost:9090/v1.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock upstream starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock upstream failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock upstream shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/chat/completions", handleChatCompletions)
	r.Get("/v1/models", handleModels)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return r
}

// --- Wire types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// simulatedFailure is an upstream error triggered by a marker.
type simulatedFailure struct {
	status  int
	message string
	typ     string
}

var failures = map[string]simulatedFailure{
	"[401]": {http.StatusUnauthorized, "Incorrect API key provided.", "invalid_request_error"},
	"[429]": {http.StatusTooManyRequests, "Rate limit reached for requests.", "requests"},
	"[500]": {http.StatusInternalServerError, "The server had an error while processing your request.", "server_error"},
	"[503]": {http.StatusServiceUnavailable, "The engine is currently overloaded.", "server_error"},
	"[418]": {http.StatusTeapot, "I'm a teapot.", "invalid_request_error"},
}

const emptyMarker = "[empty]"

// --- Handlers ---

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOpenAIError(w, simulatedFailure{http.StatusBadRequest, "invalid request body", "invalid_request_error"})
		return
	}
	if len(req.Messages) == 0 {
		writeOpenAIError(w, simulatedFailure{http.StatusBadRequest, "messages must not be empty", "invalid_request_error"})
		return
	}

	last := lastUserMessage(req.Messages)
	for marker, f := range failures {
		if strings.Contains(last, marker) {
			slog.Info("simulating upstream failure", "marker", marker, "status", f.status)
			writeOpenAIError(w, f)
			return
		}
	}

	resp := chatResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{},
	}
	if resp.Model == "" {
		resp.Model = "mock-model"
	}

	if !strings.Contains(last, emptyMarker) {
		text := answer(req.Messages, last)
		resp.Choices = append(resp.Choices, chatChoice{
			Index:        0,
			Message:      chatMessage{Role: "assistant", Content: text},
			FinishReason: "stop",
		})
		resp.Usage = chatUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func handleModels(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "gpt-3.5-turbo", "object": "model", "owned_by": "searelay-mock"},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeOpenAIError(w http.ResponseWriter, f simulatedFailure) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": f.message,
			"type":    f.typ,
			"param":   nil,
			"code":    nil,
		},
	})
}

// --- Helpers ---

// answer picks a canned reply. A system message signals the relay's
// persona was applied, which the reply acknowledges.
func answer(msgs []chatMessage, last string) string {
	if strings.Contains(strings.ToLower(last), "weather") {
		return "Winds are light from the southwest with waves under one meter."
	}
	if hasSystemMessage(msgs) {
		return "Ahoy! Ask me about marine weather, safety, or sea life."
	}
	return "Hello from the mock upstream."
}

func lastUserMessage(msgs []chatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" {
			return msgs[i].Content
		}
	}
	return ""
}

func hasSystemMessage(msgs []chatMessage) bool {
	for _, m := range msgs {
		if m.Role == "system" {
			return true
		}
	}
	return false
}
