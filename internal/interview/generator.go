// Package interview generates complete mock interviews through an LLM
// provider. A generated interview is a fixed-length, typed, difficulty-ramped
// question sequence that slots into a session exactly like sampled bank items.
package interview

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/prepmate/internal/assessment"
	"github.com/abhisek/prepmate/internal/llm"
)

// QuestionCount is the fixed length of a generated interview.
const QuestionCount = 8

// typeQuota is the required question mix for a generated interview.
var typeQuota = map[assessment.QuestionType]int{
	assessment.TypeTechnical:    3,
	assessment.TypeSystemDesign: 2,
	assessment.TypeBehavioral:   2,
	assessment.TypeCurveball:    1,
}

// Config holds generation tunables.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.8,
	}
}

// GenerationError reports a structurally valid LLM response whose content
// failed interview validation. Raw carries the response for diagnostics.
type GenerationError struct {
	Reason string
	Raw    json.RawMessage
}

func (e *GenerationError) Error() string {
	return "interview generation: " + e.Reason
}

// Generator produces mock interviews using an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config) *Generator {
	return &Generator{provider: provider, config: cfg}
}

// interviewOutput is the raw LLM response before validation.
type interviewOutput struct {
	Interview []questionOutput `json:"interview"`
}

type questionOutput struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	Difficulty int    `json:"difficulty"`
	Rationale  string `json:"rationale"`
}

// Generate produces a full interview for the given candidate profile.
// The result is validated for length, type mix, and the difficulty ramp
// before being returned as session items.
func (g *Generator) Generate(ctx context.Context, params assessment.GeneratedParams) ([]assessment.Item, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, "interview-gen")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(params)},
		},
		Schema:      InterviewSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw interviewOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	if err := validate(raw.Interview); err != nil {
		err.Raw = resp.Content
		return nil, err
	}

	items := make([]assessment.Item, len(raw.Interview))
	for i, q := range raw.Interview {
		items[i] = assessment.Item{
			ID:         uuid.NewString(),
			Category:   "Interview",
			Type:       assessment.QuestionType(q.Type),
			Prompt:     q.Text,
			Difficulty: q.Difficulty,
			Rationale:  q.Rationale,
		}
	}
	return items, nil
}

// validate checks the generated sequence against the interview contract:
// exact length, exact type mix, and a non-decreasing difficulty ramp that
// starts at 1 and ends at 5.
func validate(qs []questionOutput) *GenerationError {
	if len(qs) != QuestionCount {
		return &GenerationError{Reason: fmt.Sprintf("expected %d questions, got %d", QuestionCount, len(qs))}
	}

	counts := make(map[assessment.QuestionType]int)
	prev := 0
	for i, q := range qs {
		qt := assessment.QuestionType(q.Type)
		if !qt.Valid() {
			return &GenerationError{Reason: fmt.Sprintf("question %d: unknown type %q", i, q.Type)}
		}
		counts[qt]++

		if q.Text == "" {
			return &GenerationError{Reason: fmt.Sprintf("question %d: empty text", i)}
		}
		if q.Difficulty < 1 || q.Difficulty > 5 {
			return &GenerationError{Reason: fmt.Sprintf("question %d: difficulty %d out of range", i, q.Difficulty)}
		}
		if q.Difficulty < prev {
			return &GenerationError{Reason: fmt.Sprintf("question %d: difficulty %d drops below %d", i, q.Difficulty, prev)}
		}
		prev = q.Difficulty
	}

	if qs[0].Difficulty != 1 {
		return &GenerationError{Reason: fmt.Sprintf("interview must open at difficulty 1, got %d", qs[0].Difficulty)}
	}
	if qs[len(qs)-1].Difficulty != 5 {
		return &GenerationError{Reason: fmt.Sprintf("interview must close at difficulty 5, got %d", qs[len(qs)-1].Difficulty)}
	}

	for qt, want := range typeQuota {
		if counts[qt] != want {
			return &GenerationError{Reason: fmt.Sprintf("expected %d %s questions, got %d", want, qt, counts[qt])}
		}
	}
	return nil
}
