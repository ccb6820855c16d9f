package api

import (
	"strings"
	"testing"
)

func TestDecodeChatRequest(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantMessage string
		wantCount   int
	}{
		{"valid", `{"messages":[{"role":"user","content":"hi"}]}`, false, "", 1},
		{"empty array", `{"messages":[]}`, false, "", 0},
		{"missing messages", `{}`, true, MessageMessagesRequired, 0},
		{"null messages", `{"messages":null}`, true, MessageMessagesRequired, 0},
		{"string messages", `{"messages":"hello"}`, true, MessageMessagesRequired, 0},
		{"object messages", `{"messages":{"role":"user"}}`, true, MessageMessagesRequired, 0},
		{"number elements", `{"messages":[1,2]}`, true, MessageMessagesRequired, 0},
		{"non-string content", `{"messages":[{"role":"user","content":42}]}`, true, MessageMessagesRequired, 0},
		{"invalid json", `{invalid`, true, "invalid JSON body", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, apiErr := DecodeChatRequest([]byte(tt.body))
			if tt.wantErr {
				if apiErr == nil {
					t.Fatalf("expected error, got request %+v", req)
				}
				if apiErr.Kind != ErrorKindInvalidRequest {
					t.Errorf("Kind = %q, want %q", apiErr.Kind, ErrorKindInvalidRequest)
				}
				if apiErr.Message != tt.wantMessage {
					t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
				}
				return
			}
			if apiErr != nil {
				t.Fatalf("unexpected error: %v", apiErr)
			}
			if req.Messages == nil {
				t.Fatal("Messages should be non-nil for a present array")
			}
			if len(req.Messages) != tt.wantCount {
				t.Errorf("len(Messages) = %d, want %d", len(req.Messages), tt.wantCount)
			}
		})
	}
}

func TestDecodeChatRequestPreservesOrder(t *testing.T) {
	body := `{"messages":[
		{"role":"user","content":"first"},
		{"role":"assistant","content":"second"},
		{"role":"user","content":"third"}
	]}`

	req, apiErr := DecodeChatRequest([]byte(body))
	if apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}

	want := []string{"first", "second", "third"}
	for i, msg := range req.Messages {
		if msg.Content != want[i] {
			t.Errorf("Messages[%d].Content = %q, want %q", i, msg.Content, want[i])
		}
	}
}

func TestValidateChatRequest(t *testing.T) {
	tests := []struct {
		name        string
		req         *ChatRequest
		wantErr     bool
		wantDetails string
	}{
		{"nil request", nil, true, ""},
		{"nil messages", &ChatRequest{}, true, ""},
		{"empty messages", &ChatRequest{Messages: []ChatMessage{}}, true, "at least one message"},
		{"unknown role", &ChatRequest{Messages: []ChatMessage{{Role: "tool", Content: "x"}}}, true, "messages[0].role"},
		{"empty role", &ChatRequest{Messages: []ChatMessage{UserMessage("a"), {Content: "x"}}}, true, "messages[1].role"},
		{"valid user", &ChatRequest{Messages: []ChatMessage{UserMessage("hi")}}, false, ""},
		{"valid conversation", &ChatRequest{Messages: []ChatMessage{
			SystemMessage("be brief"),
			UserMessage("hi"),
			AssistantMessage("hello"),
		}}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := ValidateChatRequest(tt.req)
			if !tt.wantErr {
				if apiErr != nil {
					t.Errorf("unexpected error: %v", apiErr)
				}
				return
			}
			if apiErr == nil {
				t.Fatal("expected error, got nil")
			}
			if apiErr.Kind != ErrorKindInvalidRequest {
				t.Errorf("Kind = %q, want %q", apiErr.Kind, ErrorKindInvalidRequest)
			}
			if !strings.Contains(apiErr.Details, tt.wantDetails) {
				t.Errorf("Details = %q, want it to contain %q", apiErr.Details, tt.wantDetails)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant} {
		if !r.Valid() {
			t.Errorf("Role(%q).Valid() = false, want true", r)
		}
	}
	for _, r := range []Role{"", "tool", "developer", "SYSTEM"} {
		if r.Valid() {
			t.Errorf("Role(%q).Valid() = true, want false", r)
		}
	}
}
