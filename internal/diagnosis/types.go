package diagnosis

// Diagnosis explains one wrong answer.
type Diagnosis struct {
	TrapType        TrapType
	RetryHint       string
	FullExplanation string

	// Degraded is set when the provider failed and the fixed fallback
	// was substituted.
	Degraded bool
}

// Fallback texts used when the provider cannot diagnose a mistake.
const (
	FallbackHint        = "Check the text again."
	FallbackExplanation = "Error generating explanation."
)

// Degraded returns the fallback diagnosis.
func Degraded() Diagnosis {
	return Diagnosis{
		TrapType:        TrapUnknown,
		RetryHint:       FallbackHint,
		FullExplanation: FallbackExplanation,
		Degraded:        true,
	}
}
