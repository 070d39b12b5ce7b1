package generation

import "github.com/abhisek/drillsergeant/internal/llm"

// PassageSchema defines the JSON schema for passage generation responses.
// Every object lists all of its properties as required so OpenAI strict
// mode accepts it.
var PassageSchema = &llm.Schema{
	Name:        "gre-passage",
	Description: "A GRE reading comprehension passage with multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the passage",
			},
			"text": map[string]any{
				"type":        "string",
				"description": "The full academic passage, 150-450 words",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 5,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "Sequential question number starting at 1",
						},
						"question_text": map[string]any{
							"type":        "string",
							"description": "The question stem",
						},
						"options": map[string]any{
							"type":     "array",
							"minItems": 2,
							"maxItems": 5,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"label": map[string]any{"type": "string", "enum": []string{"A", "B", "C", "D", "E"}},
									"text":  map[string]any{"type": "string"},
								},
								"required":             []string{"label", "text"},
								"additionalProperties": false,
							},
						},
						"correct_option": map[string]any{
							"type":        "string",
							"enum":        []string{"A", "B", "C", "D", "E"},
							"description": "Label of the single correct option",
						},
					},
					"required":             []string{"id", "question_text", "options", "correct_option"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"title", "text", "questions"},
		"additionalProperties": false,
	},
}
