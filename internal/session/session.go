// Package session owns drill sessions: sourcing their content, holding them
// in memory and analyzing submitted answers.
package session

import (
	"fmt"
	"time"

	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/diagnosis"
)

// Source records where a session's content came from.
type Source string

const (
	SourceCorpus    Source = "corpus"
	SourceGenerated Source = "generated"
)

// Session is a stored drill. It is never mutated after creation.
type Session struct {
	ID         string
	Passage    content.Passage
	Questions  []content.Question
	Difficulty content.Difficulty
	ExamDate   time.Time
	Source     Source
	CreatedAt  time.Time
}

// Mistake is a submitted answer that differs from the correct option.
type Mistake struct {
	Question        content.Question
	SubmittedOption string
	CorrectOption   string
}

// Result pairs a mistaken question with its diagnosis.
type Result struct {
	QuestionID int
	Diagnosis  diagnosis.Diagnosis
}

// FindMistakes walks questions in order and returns the answered ones whose
// label does not match the correct option. Missing or blank answers are
// not mistakes.
func FindMistakes(questions []content.Question, answers map[int]string) []Mistake {
	var mistakes []Mistake
	for _, q := range questions {
		raw, ok := answers[q.ID]
		if !ok {
			continue
		}
		submitted := content.NormalizeLabel(raw)
		if submitted == "" || submitted == q.CorrectOption {
			continue
		}
		mistakes = append(mistakes, Mistake{
			Question:        q,
			SubmittedOption: submitted,
			CorrectOption:   q.CorrectOption,
		})
	}
	return mistakes
}

// Score formats a score as "correct/total".
func Score(correct, total int) string {
	return fmt.Sprintf("%d/%d", correct, total)
}
