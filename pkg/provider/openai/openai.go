package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/rhuss/searelay/pkg/api"
	"github.com/rhuss/searelay/pkg/debug"
	"github.com/rhuss/searelay/pkg/provider"
)

// Name is the provider label used in logs and metrics.
const Name = "openai"

// Config holds the settings for the OpenAI provider.
type Config struct {
	// APIKey is required.
	APIKey string

	// BaseURL overrides the API endpoint (for proxies and compatible servers).
	BaseURL string

	// Timeout bounds a single request. Zero keeps the SDK default.
	Timeout time.Duration

	// HTTPClient replaces the SDK's default HTTP client when set.
	HTTPClient *http.Client
}

// Provider implements provider.Completer using the OpenAI Chat Completions API.
type Provider struct {
	client openaisdk.Client
}

// Ensure Provider implements provider.Completer at compile time.
var _ provider.Completer = (*Provider)(nil)

// New creates a Provider. It returns an error if the API key is empty.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: APIKey is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Provider{client: openaisdk.NewClient(opts...)}, nil
}

// Complete sends one chat completion request and returns every choice the
// API produced. An empty choice list is not an error at this layer.
func (p *Provider) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:       req.Model,
		Messages:    toSDKMessages(req.Messages),
		Temperature: openaisdk.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openaisdk.Int(int64(req.MaxTokens))
	}

	debug.Log("upstream", "chat completion request",
		"model", req.Model,
		"messages", len(req.Messages),
		"max_tokens", req.MaxTokens,
		"temperature", req.Temperature,
	)

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &provider.Response{
		ID:    completion.ID,
		Model: completion.Model,
		Usage: provider.Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}
	for _, c := range completion.Choices {
		resp.Choices = append(resp.Choices, provider.Choice{
			Index:        int(c.Index),
			Content:      c.Message.Content,
			FinishReason: string(c.FinishReason),
		})
	}

	debug.Log("upstream", "chat completion response",
		"id", resp.ID,
		"choices", len(resp.Choices),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	if len(resp.Choices) > 0 {
		debug.Trace("upstream", "chat completion content", "content", debug.Truncate(resp.Choices[0].Content, 500))
	}

	return resp, nil
}

// mapError tags SDK errors that carry an HTTP status. Everything else
// (DNS, connection refused, context cancellation) is wrapped unchanged.
func mapError(err error) error {
	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return &provider.UpstreamError{
			StatusCode: apiErr.StatusCode,
			Message:    msg,
			Err:        err,
		}
	}
	return fmt.Errorf("openai chat completion: %w", err)
}

// toSDKMessages converts relay messages to the SDK union type. Roles were
// validated before reaching the provider; anything unexpected is sent as a
// user turn.
func toSDKMessages(msgs []api.ChatMessage) []openaisdk.ChatCompletionMessageParamUnion {
	out := make([]openaisdk.ChatCompletionMessageParamUnion, len(msgs))
	for i, m := range msgs {
		switch m.Role {
		case api.RoleSystem:
			out[i] = openaisdk.SystemMessage(m.Content)
		case api.RoleAssistant:
			out[i] = openaisdk.AssistantMessage(m.Content)
		default:
			out[i] = openaisdk.UserMessage(m.Content)
		}
	}
	return out
}
