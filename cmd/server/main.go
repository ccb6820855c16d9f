// Command server runs the searelay chat relay.
//
// Configuration is read from (in increasing precedence) built-in defaults,
// a .env file, a YAML config file, and environment variables. The only
// required setting is the upstream API key (OPENAI_API_KEY).
//
// Usage:
//
//	server [-config path/to/config.yaml]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/rhuss/searelay/pkg/auth"
	"github.com/rhuss/searelay/pkg/auth/apikey"
	"github.com/rhuss/searelay/pkg/auth/noop"
	"github.com/rhuss/searelay/pkg/config"
	"github.com/rhuss/searelay/pkg/debug"
	"github.com/rhuss/searelay/pkg/provider/openai"
	"github.com/rhuss/searelay/pkg/relay"
	"github.com/rhuss/searelay/pkg/transport"
	transporthttp "github.com/rhuss/searelay/pkg/transport/http"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to YAML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		printDiagnostic(stderr, err)
		return err
	}

	logger := debug.InitWriter(stderr, cfg.Logging.Level, cfg.Logging.Debug)
	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("searelay configured",
		"port", cfg.Server.Port,
		"allowed_origin", cfg.Server.AllowedOrigin,
		"model", cfg.Upstream.Model,
		"auth", cfg.Auth.Type,
	)
	return srv.ListenAndServe()
}

// printDiagnostic writes remediation steps for configuration failures that
// operators commonly hit.
func printDiagnostic(w io.Writer, err error) {
	fmt.Fprintf(w, "searelay: configuration error: %v\n", err)
	if errors.Is(err, config.ErrMissingAPIKey) {
		fmt.Fprint(w, `
The OpenAI API key is not set. To fix:
  1. Create a key at https://platform.openai.com/account/api-keys
  2. Export it:            export OPENAI_API_KEY=sk-...
     or add it to .env:    OPENAI_API_KEY=sk-...
     or set upstream.api_key / upstream.api_key_file in config.yaml
  3. Restart the server
`)
	}
}

// newServer wires the provider, relay, auth, and HTTP server from cfg.
func newServer(cfg *config.Config, logger *slog.Logger) (*transporthttp.Server, error) {
	prov, err := openai.New(openai.Config{
		APIKey:  cfg.Upstream.APIKey,
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	svc, err := relay.New(prov, relay.Config{
		Model:        cfg.Upstream.Model,
		MaxTokens:    cfg.Upstream.MaxTokens,
		Temperature:  cfg.Upstream.Temperature,
		Language:     cfg.Relay.Language,
		SystemPrompt: cfg.Relay.SystemPrompt,
		ProviderName: openai.Name,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating relay: %w", err)
	}

	metricsPath := ""
	if cfg.Observability.Metrics.Enabled {
		metricsPath = cfg.Observability.Metrics.Path
	}

	return transporthttp.NewServer(svc,
		transporthttp.WithAddr(":"+strconv.Itoa(cfg.Server.Port)),
		transporthttp.WithAllowedOrigin(cfg.Server.AllowedOrigin),
		transporthttp.WithMaxBodySize(cfg.Server.MaxBodySize),
		transporthttp.WithMetricsPath(metricsPath),
		transporthttp.WithReadTimeout(cfg.Server.ReadTimeout),
		transporthttp.WithWriteTimeout(cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(logger),
		transporthttp.WithMiddleware(authMiddleware(cfg, metricsPath, logger)),
	), nil
}

// authMiddleware builds the inbound auth chain. With auth.type "none"
// every caller is accepted as an anonymous, per-address identity so the
// rate limiter still applies.
func authMiddleware(cfg *config.Config, metricsPath string, logger *slog.Logger) transport.Middleware {
	chain := &auth.AuthChain{DefaultDecision: auth.No}

	switch cfg.Auth.Type {
	case "apikey":
		entries := make([]apikey.RawKeyEntry, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			entries = append(entries, apikey.RawKeyEntry{
				Key:      k.Key,
				Identity: auth.Identity{Subject: k.Subject},
			})
		}
		chain.Authenticators = append(chain.Authenticators, apikey.New(entries))
		logger.Info("inbound authentication enabled", "type", "apikey", "keys", len(entries))
	default:
		chain.Authenticators = append(chain.Authenticators, &noop.Authenticator{})
	}

	var limiter auth.RateLimiter
	if cfg.Auth.RequestsPerMinute > 0 {
		limiter = auth.NewInProcessLimiter(cfg.Auth.RequestsPerMinute)
		logger.Info("rate limiting enabled", "requests_per_minute", cfg.Auth.RequestsPerMinute)
	}

	bypass := []string{transporthttp.PathHealth}
	if metricsPath != "" {
		bypass = append(bypass, metricsPath)
	}
	return auth.Middleware(chain, limiter, bypass)
}
