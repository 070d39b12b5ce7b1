package session

import "time"

// Config holds orchestration limits.
type Config struct {
	GenerationTimeout      time.Duration
	DiagnosisTimeout       time.Duration
	SummaryTimeout         time.Duration
	MaxConcurrentDiagnoses int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GenerationTimeout:      90 * time.Second,
		DiagnosisTimeout:       30 * time.Second,
		SummaryTimeout:         20 * time.Second,
		MaxConcurrentDiagnoses: 8,
	}
}
