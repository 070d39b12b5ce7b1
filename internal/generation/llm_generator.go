package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/llm"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	intn     func(n int) int
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.MinQuestions < 1 {
		cfg.MinQuestions = 1
	}
	if cfg.MaxQuestions < cfg.MinQuestions {
		cfg.MaxQuestions = cfg.MinQuestions
	}
	return &LLMGenerator{provider: provider, config: cfg, intn: rand.IntN}
}

// Generate asks the model for a passage and a random number of questions
// within the configured bounds. Drafts that fail a retryable validator are
// regenerated up to MaxAttempts times.
func (g *LLMGenerator) Generate(ctx context.Context, difficulty content.Difficulty) (*content.Set, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeContentGen)

	span := g.config.MaxQuestions - g.config.MinQuestions + 1
	n := g.config.MinQuestions + g.intn(span)
	req := llm.UserPrompt(systemPrompt, buildUserMessage(difficulty, n), PassageSchema, g.config.MaxTokens, g.config.Temperature)

	var lastErr error
	for range g.config.MaxAttempts {
		set, err := g.generateOnce(ctx, req)
		if err == nil {
			return set, nil
		}
		lastErr = err

		var valErr *ValidationError
		if !errors.As(err, &valErr) || !valErr.Retryable {
			break
		}
	}
	return nil, lastErr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, req llm.Request) (*content.Set, error) {
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(resp.Content, &d); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(&d, g.config); verr != nil {
			return nil, verr
		}
	}

	return draftToSet(&d)
}

// draftToSet converts a validated draft. Generated IDs are renumbered
// 1..n in order; models are not reliable about numbering.
func draftToSet(d *Draft) (*content.Set, error) {
	questions := make([]content.Question, 0, len(d.Questions))
	for i, dq := range d.Questions {
		opts := make(map[string]string, len(dq.Options))
		for _, o := range dq.Options {
			opts[o.Label] = o.Text
		}
		q, err := content.NewQuestion(i+1, dq.QuestionText, opts, dq.CorrectOption)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	title := d.Title
	if title == "" {
		title = "Reading Comprehension"
	}
	return content.NewSet(content.Passage{Title: title, Body: d.Text}, questions)
}
