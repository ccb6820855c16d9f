package provider

import (
	"context"

	"github.com/rhuss/searelay/pkg/api"
)

// Completer performs a single non-streaming chat completion.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Completer interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// CompleterFunc is an adapter that allows using an ordinary function as a
// Completer.
type CompleterFunc func(ctx context.Context, req *Request) (*Response, error)

// Complete calls f(ctx, req).
func (f CompleterFunc) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Request is the upstream-facing completion request.
type Request struct {
	Model       string
	Messages    []api.ChatMessage
	MaxTokens   int // 0 leaves the cap to the backend
	Temperature float64
}

// Choice is one completion alternative returned by the backend.
type Choice struct {
	Index        int
	Content      string
	FinishReason string
}

// Usage holds token counts reported by the backend.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the upstream completion result. Choices may be empty; the
// caller decides how to treat that.
type Response struct {
	ID      string
	Model   string
	Choices []Choice
	Usage   Usage
}
