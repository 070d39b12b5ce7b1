package generation

import (
	"fmt"
	"strings"
)

const (
	minPassageChars = 200
	maxPassageChars = 5000
	maxStemChars    = 600
)

// StructuralValidator checks passage length and question count.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(d *Draft, cfg Config) *ValidationError {
	fail := func(format string, args ...any) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf(format, args...), Retryable: true}
	}

	text := strings.TrimSpace(d.Text)
	if len(text) < minPassageChars {
		return fail("passage has %d characters, need at least %d", len(text), minPassageChars)
	}
	if len(text) > maxPassageChars {
		return fail("passage exceeds %d characters", maxPassageChars)
	}
	if n := len(d.Questions); n < cfg.MinQuestions || (cfg.MaxQuestions > 0 && n > cfg.MaxQuestions) {
		return fail("got %d questions, want %d-%d", n, cfg.MinQuestions, cfg.MaxQuestions)
	}
	for i, q := range d.Questions {
		stem := strings.TrimSpace(q.QuestionText)
		if stem == "" {
			return fail("question %d has an empty stem", i+1)
		}
		if len(stem) > maxStemChars {
			return fail("question %d stem exceeds %d characters", i+1, maxStemChars)
		}
	}
	return nil
}
