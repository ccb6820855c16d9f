package api

import "fmt"

// ErrorKind represents the category of an API error.
type ErrorKind string

const (
	ErrorKindInvalidRequest      ErrorKind = "invalid_request"
	ErrorKindUpstreamAuth        ErrorKind = "upstream_auth_error"
	ErrorKindUpstreamRateLimited ErrorKind = "upstream_rate_limited"
	ErrorKindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	ErrorKindUpstreamOther       ErrorKind = "upstream_other"
	ErrorKindUpstreamMalformed   ErrorKind = "upstream_malformed"
	ErrorKindInternal            ErrorKind = "internal_error"
	ErrorKindUnauthenticated     ErrorKind = "unauthenticated"
	ErrorKindTooManyRequests     ErrorKind = "too_many_requests"
)

// User-facing messages, one per kind.
const (
	MessageMessagesRequired    = "messages array required."
	MessageInvalidCredentials  = "The API key is invalid. Check OPENAI_API_KEY in the server environment."
	MessageRateLimited         = "API usage limit exceeded. Please try again later."
	MessageUpstreamUnavailable = "The AI service is temporarily unavailable. Please try again later."
	MessageUpstreamOther       = "An error occurred while calling the AI service."
	MessageUpstreamMalformed   = "The AI service returned an invalid response format."
	MessageInternal            = "A server error occurred."
	MessageUnauthenticated     = "authentication required"
	MessageTooManyRequests     = "rate limit exceeded"
)

// APIError is the error body returned to clients. Kind and Status select
// the HTTP status code and are not serialized.
type APIError struct {
	Kind    ErrorKind `json:"-"`
	Status  int       `json:"-"`
	Message string    `json:"error"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewInvalidRequestError creates an APIError for a malformed client payload.
func NewInvalidRequestError(message, details string) *APIError {
	return &APIError{
		Kind:    ErrorKindInvalidRequest,
		Message: message,
		Details: details,
	}
}

// NewUpstreamAuthError creates an APIError for rejected upstream credentials.
func NewUpstreamAuthError(details string) *APIError {
	return &APIError{
		Kind:    ErrorKindUpstreamAuth,
		Message: MessageInvalidCredentials,
		Details: details,
	}
}

// NewUpstreamRateLimitedError creates an APIError for upstream rate limiting
// or exhausted quota.
func NewUpstreamRateLimitedError(details string) *APIError {
	return &APIError{
		Kind:    ErrorKindUpstreamRateLimited,
		Message: MessageRateLimited,
		Details: details,
	}
}

// NewUpstreamUnavailableError creates an APIError for upstream 5xx failures.
func NewUpstreamUnavailableError(details string) *APIError {
	return &APIError{
		Kind:    ErrorKindUpstreamUnavailable,
		Message: MessageUpstreamUnavailable,
		Details: details,
	}
}

// NewUpstreamError creates an APIError for any other upstream failure. The
// upstream status is passed through to the client.
func NewUpstreamError(status int, details string) *APIError {
	if details == "" {
		details = "Unknown error"
	}
	return &APIError{
		Kind:    ErrorKindUpstreamOther,
		Status:  status,
		Message: MessageUpstreamOther,
		Details: details,
	}
}

// NewUpstreamMalformedError creates an APIError for a completion result
// without any choices.
func NewUpstreamMalformedError() *APIError {
	return &APIError{
		Kind:    ErrorKindUpstreamMalformed,
		Message: MessageUpstreamMalformed,
	}
}

// NewInternalError creates an APIError for failures with no upstream status,
// such as network errors.
func NewInternalError(details string) *APIError {
	if details == "" {
		details = "Unknown error"
	}
	return &APIError{
		Kind:    ErrorKindInternal,
		Message: MessageInternal,
		Details: details,
	}
}

// NewUnauthenticatedError creates an APIError for a caller that failed
// inbound authentication.
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Kind:    ErrorKindUnauthenticated,
		Message: MessageUnauthenticated,
	}
}

// NewTooManyRequestsError creates an APIError for a caller rejected by the
// inbound rate limiter.
func NewTooManyRequestsError(details string) *APIError {
	return &APIError{
		Kind:    ErrorKindTooManyRequests,
		Message: MessageTooManyRequests,
		Details: details,
	}
}
