package diagnosis

import "github.com/abhisek/drillsergeant/internal/llm"

// DiagnosisSchema defines the JSON schema for mistake diagnosis responses.
// trap_type is free text so that near-miss labels can be normalized rather
// than rejected.
var DiagnosisSchema = &llm.Schema{
	Name:        "mistake-diagnosis",
	Description: "Why a learner picked a wrong option on a GRE reading question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"trap_type": map[string]any{
				"type":        "string",
				"description": "One of: Out of Scope, Distortion, Extreme Language, True but Irrelevant, Reversal",
			},
			"hint_for_retry": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "One or two sentences pointing back to the passage without revealing the correct option",
			},
			"full_explanation": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Why the chosen option is wrong and why the correct option is right",
			},
		},
		"required":             []string{"trap_type", "hint_for_retry", "full_explanation"},
		"additionalProperties": false,
	},
}
