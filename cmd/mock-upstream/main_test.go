package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postCompletion(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)
	return rec
}

func userBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"model":    "gpt-3.5-turbo",
		"messages": []map[string]string{{"role": "user", "content": content}},
	})
	return string(b)
}

func TestCompletionSuccess(t *testing.T) {
	rec := postCompletion(t, userBody("What's the weather at sea?"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("choices = %d, want 1", len(resp.Choices))
	}
	if !strings.Contains(resp.Choices[0].Message.Content, "Winds") {
		t.Errorf("content = %q, want weather answer", resp.Choices[0].Message.Content)
	}
	if resp.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q, want %q", resp.Model, "gpt-3.5-turbo")
	}
	if !strings.HasPrefix(resp.ID, "chatcmpl-") {
		t.Errorf("id = %q, want chatcmpl- prefix", resp.ID)
	}
}

func TestCompletionAcknowledgesSystemPrompt(t *testing.T) {
	body := `{"model":"m","messages":[{"role":"system","content":"be a sailor"},{"role":"user","content":"hi"}]}`
	rec := postCompletion(t, body)

	var resp chatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Choices) != 1 || !strings.HasPrefix(resp.Choices[0].Message.Content, "Ahoy") {
		t.Errorf("choices = %+v, want persona acknowledgement", resp.Choices)
	}
}

func TestCompletionMarkers(t *testing.T) {
	tests := []struct {
		marker string
		status int
	}{
		{"[401]", http.StatusUnauthorized},
		{"[429]", http.StatusTooManyRequests},
		{"[500]", http.StatusInternalServerError},
		{"[503]", http.StatusServiceUnavailable},
		{"[418]", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			rec := postCompletion(t, userBody("please fail "+tt.marker))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}

			var body struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if body.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestCompletionEmptyChoices(t *testing.T) {
	rec := postCompletion(t, userBody("[empty]"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp chatResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Choices) != 0 {
		t.Errorf("choices = %d, want 0", len(resp.Choices))
	}
}

func TestCompletionBadRequests(t *testing.T) {
	for name, body := range map[string]string{
		"malformed":      `{not json`,
		"empty messages": `{"model":"m","messages":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			if rec := postCompletion(t, body); rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestModelsAndHealth(t *testing.T) {
	h := newRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/models", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "gpt-3.5-turbo") {
		t.Errorf("GET /v1/models = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", rec.Code)
	}
}
