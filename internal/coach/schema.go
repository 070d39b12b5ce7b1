package coach

import "github.com/abhisek/drillsergeant/internal/llm"

// MessageSchema defines the JSON schema for coach messages.
var MessageSchema = &llm.Schema{
	Name:        "coach-message",
	Description: "A short motivational message closing a GRE drill session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Punchy headline (2-6 words)",
			},
			"body": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Two or three sentences of feedback",
			},
		},
		"required":             []any{"headline", "body"},
		"additionalProperties": false,
	},
}
