// Package generation produces fresh passages and question sets with an
// LLM when the local corpus cannot serve a session.
package generation

import (
	"context"

	"github.com/abhisek/drillsergeant/internal/content"
)

// Generator produces a passage with its questions for a difficulty.
type Generator interface {
	// Generate returns a validated set or an error. It never returns an
	// empty set.
	Generate(ctx context.Context, difficulty content.Difficulty) (*content.Set, error)
}
