package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("model pass-through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "anthropic/claude-3-haiku",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "anthropic/claude-3-haiku" {
			t.Errorf("model = %q, want %q", p.ModelID(), "anthropic/claude-3-haiku")
		}
	})

	t.Run("empty API key", func(t *testing.T) {
		if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}); err == nil {
			t.Fatal("expected error for empty API key")
		}
	})
}

func TestOpenRouterProvider_AttributionHeaders(t *testing.T) {
	var got http.Header
	var model string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		var body map[string]any
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		model, _ = body["model"].(string)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "deepseek/deepseek-chat",
			"choices": []map[string]any{{
				"message":       map[string]any{"role": "assistant", "content": "ok"},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := p.Generate(context.Background(), UserPrompt("", "hi", nil, 10, 0)); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if model != defaultOpenRouterModel {
		t.Errorf("model = %q, want %q", model, defaultOpenRouterModel)
	}
	if got.Get("X-Title") != "drill" {
		t.Errorf("X-Title = %q, want drill", got.Get("X-Title"))
	}
	if got.Get("HTTP-Referer") != openRouterReferer {
		t.Errorf("HTTP-Referer = %q", got.Get("HTTP-Referer"))
	}
	if !strings.HasPrefix(got.Get("Authorization"), "Bearer sk-or-test") {
		t.Errorf("Authorization = %q", got.Get("Authorization"))
	}
}

func TestNewDeepSeekProvider(t *testing.T) {
	p, err := NewDeepSeekProvider(DeepSeekConfig{APIKey: "sk-ds"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "deepseek-chat" {
		t.Errorf("model = %q, want deepseek-chat", p.ModelID())
	}
	if !p.jsonObjectMode {
		t.Error("expected json_object mode")
	}

	if _, err := NewDeepSeekProvider(DeepSeekConfig{}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestDeepSeekProvider_JSONObjectRequest(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "ds-1",
			"model": "deepseek-chat",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"headline":"Solid","body":"Keep going."}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19},
		})
	}))
	defer server.Close()

	p, err := NewDeepSeekProvider(DeepSeekConfig{APIKey: "sk-ds", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	schema := &Schema{
		Name: "coach_message",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{"type": "string"},
				"body":     map[string]any{"type": "string"},
			},
			"required":             []string{"headline", "body"},
			"additionalProperties": false,
		},
	}
	resp, err := p.Generate(context.Background(), UserPrompt("You are a coach.", "Summarize.", schema, 200, 0.7))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Usage.InputTokens != 12 {
		t.Errorf("input tokens = %d, want 12", resp.Usage.InputTokens)
	}

	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", body["response_format"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	system, _ := msgs[0].(map[string]any)
	if !strings.Contains(system["content"].(string), `"headline"`) {
		t.Error("expected schema embedded in system prompt")
	}
}

func TestDeepSeekProvider_SchemaViolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "deepseek-chat",
			"choices": []map[string]any{{
				"message":       map[string]any{"role": "assistant", "content": `{"headline":"only"}`},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	p, _ := NewDeepSeekProvider(DeepSeekConfig{APIKey: "sk-ds", BaseURL: server.URL})
	schema := &Schema{
		Name: "coach_message_required",
		Definition: map[string]any{
			"type":     "object",
			"required": []string{"headline", "body"},
		},
	}
	_, err := p.Generate(context.Background(), UserPrompt("", "x", schema, 100, 0))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}
