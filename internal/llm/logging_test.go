package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/drillsergeant/internal/store"
)

type recordingRepo struct {
	store.EventRepo // unused methods panic

	mu     sync.Mutex
	events []store.LLMRequestEventData
	ctxErr error
}

func (r *recordingRepo) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	r.ctxErr = ctx.Err()
	return nil
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"headline":"Nice"}`),
		Usage:   Usage{InputTokens: 11, OutputTokens: 4},
	})
	p := WithLogging(mock, "mock", repo, zap.NewNop())

	ctx := WithPurpose(context.Background(), PurposeSummary)
	if _, err := p.Generate(ctx, UserPrompt("sys", "summarize", nil, 100, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if !e.Success || e.Purpose != "coach-summary" || e.Model != "mock" || e.Provider != "mock" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.InputTokens != 11 || e.OutputTokens != 4 {
		t.Fatalf("tokens = %d/%d", e.InputTokens, e.OutputTokens)
	}
	if !strings.Contains(e.RequestBody, "[system]\nsys") || !strings.Contains(e.RequestBody, "[user]\nsummarize") {
		t.Fatalf("request body = %q", e.RequestBody)
	}
	if e.ResponseBody != `{"headline":"Nice"}` {
		t.Fatalf("response body = %q", e.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailureWithCancelledContext(t *testing.T) {
	repo := &recordingRepo{}
	core, logs := observer.New(zap.WarnLevel)
	mock := NewMockProvider(MockResponse{Err: errors.New("boom")})
	p := WithLogging(mock, "mock", repo, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 1 || repo.events[0].Success || repo.events[0].ErrorMessage != "boom" {
		t.Fatalf("unexpected events: %+v", repo.events)
	}
	if repo.ctxErr != nil {
		t.Fatalf("event write saw cancelled context: %v", repo.ctxErr)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("expected one warn log, got %v", logs.All())
	}
}

func TestLoggingProvider_NilRepoAndLogger(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestSerializeRequest_IncludesSchema(t *testing.T) {
	out := serializeRequest(Request{
		Messages: []Message{{Role: RoleUser, Content: "q"}},
		Schema:   &Schema{Name: "diag", Definition: map[string]any{"type": "object"}},
	})
	if !strings.Contains(out, "[schema: diag]") || !strings.Contains(out, `{"type":"object"}`) {
		t.Fatalf("serialized = %q", out)
	}
}
