package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/searelay/pkg/api"
	"github.com/rhuss/searelay/pkg/debug"
	"github.com/rhuss/searelay/pkg/observability"
	"github.com/rhuss/searelay/pkg/transport"
)

// Route paths served by the adapter.
const (
	PathChat   = "/api/chat"
	PathHealth = "/api/health"
)

// ChatHandler processes a decoded chat request. Returned errors should be
// *api.APIError values; anything else is reported as an internal error.
type ChatHandler interface {
	HandleChat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
}

// ChatHandlerFunc is an adapter that allows using an ordinary function as a
// ChatHandler.
type ChatHandlerFunc func(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)

// HandleChat calls f(ctx, req).
func (f ChatHandlerFunc) HandleChat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	return f(ctx, req)
}

// Adapter serves the relay API over HTTP.
// It routes requests to the appropriate handler and serializes responses.
type Adapter struct {
	chat   ChatHandler
	router chi.Router
	config Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	// AllowedOrigin is the single browser origin permitted by CORS.
	AllowedOrigin string

	// MaxBodySize limits POST bodies. Larger bodies get 413.
	MaxBodySize int64

	// MetricsPath mounts the Prometheus handler. Empty disables it.
	MetricsPath string

	// Logger receives access logs and recovered panics.
	Logger *slog.Logger
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		AllowedOrigin: "http://localhost:3000",
		MaxBodySize:   1 << 20, // 1 MiB
		MetricsPath:   "/metrics",
		Logger:        slog.Default(),
	}
}

// NewAdapter creates an HTTP adapter for the given ChatHandler. The
// middlewares run inside CORS handling, after the built-in request ID,
// logging, recovery, and metrics middleware, so a rejecting middleware
// (such as authentication) still produces logged, CORS-enabled responses.
func NewAdapter(chat ChatHandler, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultConfig().MaxBodySize
	}

	a := &Adapter{
		chat:   chat,
		router: chi.NewRouter(),
		config: cfg,
	}

	a.router.Use(
		transport.RequestID(),
		middleware.RealIP,
		transport.Logging(cfg.Logger),
		transport.Recovery(cfg.Logger),
		observability.MetricsMiddleware,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.AllowedOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", transport.RequestIDHeader},
			ExposedHeaders:   []string{transport.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)
	for _, mw := range middlewares {
		a.router.Use(mw)
	}

	a.router.Post(PathChat, a.handleChat)
	a.router.Get(PathHealth, a.handleHealth)
	if cfg.MetricsPath != "" {
		a.router.Method(http.MethodGet, cfg.MetricsPath, promhttp.Handler())
	}

	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("not found", r.Method+" "+r.URL.Path),
			http.StatusNotFound,
		)
	})
	a.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("method not allowed", r.Method+" "+r.URL.Path),
			http.StatusMethodNotAllowed,
		)
	})

	return a
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest.
func (a *Adapter) Handler() http.Handler {
	return a.router
}

// handleChat handles POST /api/chat.
func (a *Adapter) handleChat(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r.Header.Get("Content-Type")) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("unsupported content type", "Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("request body too large", fmt.Sprintf("max %d bytes", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteAPIError(w, api.NewInvalidRequestError("could not read request body", err.Error()))
		return
	}

	req, apiErr := api.DecodeChatRequest(data)
	if apiErr == nil {
		apiErr = api.ValidateChatRequest(req)
	}
	if apiErr != nil {
		debug.Log("transport", "rejected chat body", "error", apiErr.Error(), "body", debug.Truncate(string(data), 200))
		transport.WriteAPIError(w, apiErr)
		return
	}

	resp, err := a.chat.HandleChat(r.Context(), req)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, resp)
}

// handleHealth handles GET /api/health. It never consults the upstream.
func (a *Adapter) handleHealth(w http.ResponseWriter, _ *http.Request) {
	transport.WriteJSON(w, http.StatusOK, api.HealthOK)
}

// isJSONContentType accepts an absent header or application/json with any
// parameters (e.g. charset).
func isJSONContentType(ct string) bool {
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}
