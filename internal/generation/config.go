package generation

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every draft; the first failure stops
	// the pipeline.
	Validators []Validator

	// MaxAttempts bounds regeneration after retryable validation failures.
	MaxAttempts int

	// MinQuestions and MaxQuestions bound the generated set size.
	MinQuestions int
	MaxQuestions int

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&OptionsValidator{},
		},
		MaxAttempts:  2,
		MinQuestions: 2,
		MaxQuestions: 4,
		MaxTokens:    3000,
		Temperature:  0.8,
	}
}
