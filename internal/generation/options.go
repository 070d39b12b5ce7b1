package generation

import (
	"fmt"
	"strings"

	"github.com/abhisek/drillsergeant/internal/content"
)

// OptionsValidator checks that each question has unique labels, distinct
// non-empty option texts, and a correct option that names one of them.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(d *Draft, _ Config) *ValidationError {
	for i, q := range d.Questions {
		labels := make(map[string]bool, len(q.Options))
		texts := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			l := content.NormalizeLabel(o.Label)
			if labels[l] {
				return v.fail(i, "repeats label %s", l)
			}
			labels[l] = true

			t := strings.ToLower(strings.TrimSpace(o.Text))
			if t == "" {
				return v.fail(i, "has an empty option %s", l)
			}
			if texts[t] {
				return v.fail(i, "repeats option text under %s", l)
			}
			texts[t] = true
		}
		if !labels[content.NormalizeLabel(q.CorrectOption)] {
			return v.fail(i, "correct option %q is not among its options", q.CorrectOption)
		}
	}
	return nil
}

func (v *OptionsValidator) fail(i int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("question %d ", i+1) + fmt.Sprintf(format, args...),
		Retryable: true,
	}
}
