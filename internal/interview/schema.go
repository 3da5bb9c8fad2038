package interview

import "github.com/abhisek/prepmate/internal/llm"

// InterviewSchema defines the JSON shape for generated interviews: a
// fixed-length sequence of typed questions with 1-5 difficulty.
var InterviewSchema = &llm.Schema{
	Name:        "mock-interview",
	Description: "A complete mock interview: an ordered sequence of typed, difficulty-rated questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"interview": map[string]any{
				"type":        "array",
				"minItems":    QuestionCount,
				"maxItems":    QuestionCount,
				"description": "Exactly 8 questions, difficulty increasing across the sequence",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"enum":        []any{"technical", "system-design", "behavioral", "curveball"},
							"description": "The question category",
						},
						"text": map[string]any{
							"type":        "string",
							"description": "The interview question, answerable in text form only",
						},
						"difficulty": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"maximum":     5,
							"description": "1 (easy) to 5 (hard), non-decreasing through the interview",
						},
						"rationale": map[string]any{
							"type":        "string",
							"description": "Why this question is being asked",
						},
					},
					"required":             []any{"type", "text", "difficulty", "rationale"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"interview"},
		"additionalProperties": false,
	},
}
