// Package content defines the immutable reading-comprehension records a
// drill session is built from.
package content

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidQuestion is returned by NewQuestion for malformed input.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrDuplicateQuestionID is returned by NewSet when two questions share an ID.
	ErrDuplicateQuestionID = errors.New("duplicate question id")

	// ErrUnknownDifficulty is returned by ParseDifficulty.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Passage is the text a question set is about.
type Passage struct {
	Title string
	Body  string
}

// Question is one multiple-choice item. Construct with NewQuestion.
type Question struct {
	ID            int
	Stem          string
	Options       map[string]string // label → text, e.g. "A" → "The author..."
	CorrectOption string
}

// NewQuestion validates and builds a Question. Option labels are trimmed
// and upper-cased; the correct option must name one of them.
func NewQuestion(id int, stem string, options map[string]string, correct string) (Question, error) {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return Question{}, fmt.Errorf("%w: question %d has an empty stem", ErrInvalidQuestion, id)
	}
	if len(options) < 2 {
		return Question{}, fmt.Errorf("%w: question %d has %d options, need at least 2", ErrInvalidQuestion, id, len(options))
	}

	opts := make(map[string]string, len(options))
	for label, text := range options {
		l := NormalizeLabel(label)
		if l == "" {
			return Question{}, fmt.Errorf("%w: question %d has an empty option label", ErrInvalidQuestion, id)
		}
		if _, dup := opts[l]; dup {
			return Question{}, fmt.Errorf("%w: question %d repeats option %q", ErrInvalidQuestion, id, l)
		}
		opts[l] = strings.TrimSpace(text)
	}

	c := NormalizeLabel(correct)
	if _, ok := opts[c]; !ok {
		return Question{}, fmt.Errorf("%w: question %d correct option %q is not among its options", ErrInvalidQuestion, id, correct)
	}

	return Question{ID: id, Stem: stem, Options: opts, CorrectOption: c}, nil
}

// Labels returns the option labels in sorted order.
func (q Question) Labels() []string {
	labels := make([]string, 0, len(q.Options))
	for l := range q.Options {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// NormalizeLabel canonicalizes an option label: " b " → "B".
func NormalizeLabel(label string) string {
	return strings.ToUpper(strings.TrimSpace(label))
}

// Difficulty is the requested level of a session.
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
)

// Difficulties lists all levels, easiest first.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty matches s case-insensitively against the known levels.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Set is a passage with its ordered questions.
type Set struct {
	Passage   Passage
	Questions []Question
}

// NewSet builds a Set, rejecting an empty question list and duplicate IDs.
func NewSet(p Passage, questions []Question) (*Set, error) {
	if strings.TrimSpace(p.Body) == "" {
		return nil, fmt.Errorf("%w: passage body is empty", ErrInvalidQuestion)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: set has no questions", ErrInvalidQuestion)
	}
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateQuestionID, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return &Set{Passage: p, Questions: slices.Clone(questions)}, nil
}

// Question returns the question with the given ID.
func (s *Set) Question(id int) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
