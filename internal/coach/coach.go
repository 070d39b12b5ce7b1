// Package coach writes the closing message of a drill session.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/drillsergeant/internal/llm"
)

// Coach composes a summary message. Failures are returned to the caller,
// which decides on a fallback.
type Coach interface {
	Summarize(ctx context.Context, req Request) (*Message, error)
}

// ErrEmptyMessage is returned when the model produced a blank headline or body.
var ErrEmptyMessage = errors.New("coach: empty message")

// Service is the LLM-backed Coach.
type Service struct {
	provider llm.Provider
	cfg      Config
	now      func() time.Time
}

// NewService creates a coach backed by provider.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg, now: time.Now}
}

type messageOutput struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// Summarize asks the model for a coach message.
func (s *Service) Summarize(ctx context.Context, req Request) (*Message, error) {
	if s.provider == nil {
		return nil, llm.ErrNotConfigured
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeSummary)

	userMsg := buildUserMessage(req, s.now())
	resp, err := s.provider.Generate(ctx, llm.UserPrompt(systemPrompt, userMsg, MessageSchema, s.cfg.MaxTokens, s.cfg.Temperature))
	if err != nil {
		return nil, fmt.Errorf("coach summary: %w", err)
	}

	var out messageOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse coach response: %w", err)
	}

	msg := &Message{
		Headline: strings.TrimSpace(out.Headline),
		Body:     strings.TrimSpace(out.Body),
	}
	if msg.Headline == "" || msg.Body == "" {
		return nil, ErrEmptyMessage
	}
	return msg, nil
}
