package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rhuss/searelay/pkg/api"
	"github.com/rhuss/searelay/pkg/debug"
	"github.com/rhuss/searelay/pkg/observability"
	"github.com/rhuss/searelay/pkg/provider"
)

// authFailureDetails is returned to clients when the upstream rejects the
// server's credentials. The upstream message is logged, not echoed.
const authFailureDetails = "Incorrect API key provided. Check OPENAI_API_KEY in the server environment."

// Service relays chat requests to the upstream completion API.
type Service struct {
	completer provider.Completer
	cfg       Config
	persona   string
	logger    *slog.Logger
}

// New creates a Service. The completer must not be nil and cfg.Model must
// be set.
func New(completer provider.Completer, cfg Config, logger *slog.Logger) (*Service, error) {
	if completer == nil {
		return nil, fmt.Errorf("relay: completer must not be nil")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("relay: model must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	persona := cfg.SystemPrompt
	if persona == "" {
		persona = PersonaPrompt(cfg.Language)
	}

	return &Service{
		completer: completer,
		cfg:       cfg,
		persona:   persona,
		logger:    logger,
	}, nil
}

// HandleChat validates req, augments it with the persona when needed,
// forwards it upstream, and returns the first choice's content.
//
// Every returned error is an *api.APIError.
func (s *Service) HandleChat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	if apiErr := api.ValidateChatRequest(req); apiErr != nil {
		return nil, apiErr
	}

	messages, injected := Augment(req.Messages, s.persona)
	if injected {
		observability.PromptAugmentationsTotal.WithLabelValues(observability.ActionInjected).Inc()
	} else {
		observability.PromptAugmentationsTotal.WithLabelValues(observability.ActionPassthrough).Inc()
	}
	debug.Log("relay", "forwarding chat",
		"messages", len(messages),
		"persona_injected", injected,
	)

	provName := s.cfg.providerName()
	start := time.Now()

	resp, err := s.completer.Complete(ctx, &provider.Request{
		Model:       s.cfg.Model,
		Messages:    messages,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	observability.UpstreamLatency.WithLabelValues(provName, s.cfg.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		apiErr := s.mapError(ctx, err)
		observability.UpstreamRequestsTotal.WithLabelValues(provName, s.cfg.Model, string(apiErr.Kind)).Inc()
		return nil, apiErr
	}

	observability.UpstreamTokensTotal.WithLabelValues(provName, s.cfg.Model, "input").Add(float64(resp.Usage.InputTokens))
	observability.UpstreamTokensTotal.WithLabelValues(provName, s.cfg.Model, "output").Add(float64(resp.Usage.OutputTokens))

	if len(resp.Choices) == 0 {
		s.logger.Error("upstream returned no choices", "model", s.cfg.Model, "response_id", resp.ID)
		observability.UpstreamRequestsTotal.WithLabelValues(provName, s.cfg.Model, string(api.ErrorKindUpstreamMalformed)).Inc()
		return nil, api.NewUpstreamMalformedError()
	}

	observability.UpstreamRequestsTotal.WithLabelValues(provName, s.cfg.Model, "success").Inc()
	return &api.ChatResponse{
		Success: true,
		Message: resp.Choices[0].Content,
	}, nil
}

// mapError converts an upstream failure into an APIError. The decision is
// driven only by the status carried on a *provider.UpstreamError.
func (s *Service) mapError(ctx context.Context, err error) *api.APIError {
	upErr, ok := provider.AsUpstreamError(err)
	if !ok {
		if errors.Is(err, context.Canceled) {
			s.logger.Warn("upstream call canceled", "error", err)
		} else {
			s.logger.Error("upstream call failed", "error", err)
		}
		return api.NewInternalError(err.Error())
	}

	switch upErr.StatusCode {
	case http.StatusUnauthorized:
		s.logger.ErrorContext(ctx, "upstream rejected the API key",
			"status", upErr.StatusCode,
			"error", upErr.Message,
		)
		s.logger.ErrorContext(ctx, "to fix: 1) verify the key at https://platform.openai.com/account/api-keys "+
			"2) set OPENAI_API_KEY (or upstream.api_key) to the new key 3) restart the server")
		return api.NewUpstreamAuthError(authFailureDetails)

	case http.StatusTooManyRequests:
		s.logger.WarnContext(ctx, "upstream rate limit exceeded", "error", upErr.Message)
		return api.NewUpstreamRateLimitedError(upErr.Message)

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		s.logger.WarnContext(ctx, "upstream unavailable", "status", upErr.StatusCode, "error", upErr.Message)
		return api.NewUpstreamUnavailableError(upErr.Message)

	default:
		status := upErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		s.logger.ErrorContext(ctx, "upstream error", "status", upErr.StatusCode, "error", upErr.Message)
		return api.NewUpstreamError(status, upErr.Message)
	}
}
