package scoring

import "github.com/abhisek/prepmate/internal/llm"

// EvaluationSchema is the evaluator's response shape: one entry per
// submitted answer, in the same order as the request. The array lives
// under an object root because OpenAI's strict response format rejects
// array roots. The array length is checked against the session after
// decoding; JSON Schema cannot express a per-request length.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Per-answer evaluations, parallel to the submitted question/answer pairs",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"evaluations": map[string]any{
				"type":        "array",
				"description": "One evaluation per question/answer pair, same order as the request",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"score": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     100,
							"description": "0-100: 50 is a minimal pass, 70 is good, 90 is expert",
						},
						"feedback": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"strengths":    map[string]any{"type": "string"},
								"improvements": map[string]any{"type": "string"},
								"suggestions":  map[string]any{"type": "string"},
							},
							"required":             []any{"strengths", "improvements", "suggestions"},
							"additionalProperties": false,
						},
						"keyword_analysis": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"matched_count": map[string]any{
									"type":        "integer",
									"minimum":     0,
									"description": "How many expected keywords the answer covered",
								},
								"missing_keywords": map[string]any{
									"type":  "array",
									"items": map[string]any{"type": "string"},
								},
							},
							"required":             []any{"matched_count", "missing_keywords"},
							"additionalProperties": false,
						},
					},
					"required":             []any{"score", "feedback", "keyword_analysis"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"evaluations"},
		"additionalProperties": false,
	},
}
