package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rhuss/searelay/pkg/api"
)

// HTTPStatusFromError maps an APIError to the corresponding HTTP status
// code. An explicit Status on the error wins over the kind mapping.
// Transport-level errors (body too large, unsupported content type) are
// written by the HTTP adapter with their own status.
func HTTPStatusFromError(err *api.APIError) int {
	if err.Status != 0 {
		return err.Status
	}
	switch err.Kind {
	case api.ErrorKindInvalidRequest:
		return http.StatusBadRequest
	case api.ErrorKindUpstreamAuth, api.ErrorKindUnauthenticated:
		return http.StatusUnauthorized
	case api.ErrorKindUpstreamRateLimited, api.ErrorKindTooManyRequests:
		return http.StatusTooManyRequests
	case api.ErrorKindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case api.ErrorKindUpstreamMalformed, api.ErrorKindUpstreamOther, api.ErrorKindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing JSON response", "error", err)
	}
}

// WriteErrorResponse writes apiErr as a JSON error body with the given
// status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	WriteJSON(w, statusCode, apiErr)
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}

// WriteError writes any error as an APIError response. Errors that are not
// (and do not wrap) an *api.APIError become internal errors.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		apiErr = api.NewInternalError(err.Error())
	}
	WriteAPIError(w, apiErr)
}
