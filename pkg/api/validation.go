package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// rawChatRequest keeps messages undecoded so that a missing or non-array
// value can be told apart from a malformed element.
type rawChatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// DecodeChatRequest parses a POST /api/chat body. It returns an
// invalid_request APIError when the body is not JSON or when messages is
// absent, null, or not an array.
func DecodeChatRequest(data []byte) (*ChatRequest, *APIError) {
	var raw rawChatRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, NewInvalidRequestError("invalid JSON body", err.Error())
	}

	trimmed := bytes.TrimSpace(raw.Messages)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, NewInvalidRequestError(MessageMessagesRequired, "")
	}

	var messages []ChatMessage
	if err := json.Unmarshal(trimmed, &messages); err != nil {
		return nil, NewInvalidRequestError(MessageMessagesRequired, err.Error())
	}
	if messages == nil {
		messages = []ChatMessage{}
	}

	return &ChatRequest{Messages: messages}, nil
}

// ValidateChatRequest checks a decoded ChatRequest. It returns an
// *APIError describing the first validation failure, or nil if the
// request may be forwarded.
func ValidateChatRequest(req *ChatRequest) *APIError {
	if req == nil || req.Messages == nil {
		return NewInvalidRequestError(MessageMessagesRequired, "")
	}

	if len(req.Messages) == 0 {
		return NewInvalidRequestError(MessageMessagesRequired, "messages must contain at least one message")
	}

	for i, msg := range req.Messages {
		if !msg.Role.Valid() {
			return NewInvalidRequestError(MessageMessagesRequired,
				fmt.Sprintf("messages[%d].role must be \"system\", \"user\", or \"assistant\", got %q", i, msg.Role))
		}
	}

	return nil
}
