package coach

// Config holds summary generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for summary generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   350,
		Temperature: 0.7,
	}
}
