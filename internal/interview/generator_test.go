package interview

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/prepmate/internal/assessment"
	"github.com/abhisek/prepmate/internal/llm"
)

func testParams() assessment.GeneratedParams {
	return assessment.GeneratedParams{
		Domain:     "Go",
		Stack:      "Go, Postgres, Kubernetes",
		Role:       "Backend Engineer",
		Experience: "senior",
	}
}

// validInterviewJSON returns a response satisfying the full contract:
// 8 questions, 3/2/2/1 type mix, difficulty ramping 1 to 5.
func validInterviewJSON() json.RawMessage {
	type q struct {
		Type       string `json:"type"`
		Text       string `json:"text"`
		Difficulty int    `json:"difficulty"`
		Rationale  string `json:"rationale"`
	}
	qs := []q{
		{"behavioral", "Tell me about yourself and your path into backend work.", 1, "warm-up"},
		{"technical", "How do goroutine leaks happen and how do you find them?", 2, "concurrency depth"},
		{"technical", "Walk through what happens when a context is cancelled mid-query.", 2, "context discipline"},
		{"behavioral", "Describe a production incident you owned end to end.", 3, "ownership"},
		{"system-design", "Design a rate limiter shared across 50 API pods.", 3, "distributed state"},
		{"technical", "When would you reach for sync.Map over a mutex-guarded map?", 4, "stdlib judgment"},
		{"system-design", "Design the storage layer for a multi-tenant audit log.", 4, "data modeling at scale"},
		{"curveball", "Your team must delete a third of the codebase this quarter. What goes?", 5, "judgment under ambiguity"},
	}
	out, err := json.Marshal(map[string]any{"interview": qs})
	if err != nil {
		panic(err)
	}
	return out
}

// mutateInterview unmarshals the valid fixture, applies fn, and re-marshals.
func mutateInterview(t *testing.T, fn func(qs []map[string]any) []map[string]any) json.RawMessage {
	t.Helper()
	var doc struct {
		Interview []map[string]any `json:"interview"`
	}
	if err := json.Unmarshal(validInterviewJSON(), &doc); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	doc.Interview = fn(doc.Interview)
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return out
}

func TestGenerate_Valid(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validInterviewJSON()})
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != QuestionCount {
		t.Fatalf("expected %d items, got %d", QuestionCount, len(items))
	}
	if items[0].Type != assessment.TypeBehavioral {
		t.Errorf("expected behavioral opener, got %q", items[0].Type)
	}
	if items[0].Difficulty != 1 || items[7].Difficulty != 5 {
		t.Errorf("expected ramp 1..5, got %d..%d", items[0].Difficulty, items[7].Difficulty)
	}
	if items[3].Prompt != "Describe a production incident you owned end to end." {
		t.Errorf("unexpected prompt: %q", items[3].Prompt)
	}
	if items[7].Rationale != "judgment under ambiguity" {
		t.Errorf("unexpected rationale: %q", items[7].Rationale)
	}
	for i, it := range items {
		if it.ID == "" {
			t.Errorf("item %d: missing ID", i)
		}
		if it.Options != nil {
			t.Errorf("item %d: generated items must not carry options", i)
		}
	}
}

func TestGenerate_PromptCarriesProfile(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validInterviewJSON()})
	gen := New(mock, DefaultConfig())

	if _, err := gen.Generate(context.Background(), testParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(mock.Calls))
	}
	user := mock.Calls[0].Messages[0].Content
	for _, want := range []string{"Go, Postgres, Kubernetes", "Backend Engineer", "senior"} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerate_InvalidParams(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), assessment.GeneratedParams{Stack: "Go"})
	var verr *assessment.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("provider should not be called for invalid params")
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testParams())
	var perr *llm.ErrProviderUnavailable
	if !errors.As(err, &perr) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestGenerate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(qs []map[string]any) []map[string]any
		want   string
	}{
		{
			name:   "too few questions",
			mutate: func(qs []map[string]any) []map[string]any { return qs[:7] },
			want:   "expected 8 questions",
		},
		{
			name: "unknown type",
			mutate: func(qs []map[string]any) []map[string]any {
				qs[2]["type"] = "riddle"
				return qs
			},
			want: "unknown type",
		},
		{
			name: "difficulty regression",
			mutate: func(qs []map[string]any) []map[string]any {
				qs[5]["difficulty"] = 2
				return qs
			},
			want: "drops below",
		},
		{
			name: "difficulty out of range",
			mutate: func(qs []map[string]any) []map[string]any {
				for i := range qs {
					qs[i]["difficulty"] = 6
				}
				return qs
			},
			want: "out of range",
		},
		{
			name: "opener not difficulty 1",
			mutate: func(qs []map[string]any) []map[string]any {
				qs[0]["difficulty"] = 2
				return qs
			},
			want: "open at difficulty 1",
		},
		{
			name: "wrong type mix",
			mutate: func(qs []map[string]any) []map[string]any {
				qs[4]["type"] = "technical" // 4 technical, 1 system-design
				return qs
			},
			want: "questions, got",
		},
		{
			name: "empty text",
			mutate: func(qs []map[string]any) []map[string]any {
				qs[6]["text"] = ""
				return qs
			},
			want: "empty text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Content: mutateInterview(t, tt.mutate)})
			gen := New(mock, DefaultConfig())

			_, err := gen.Generate(context.Background(), testParams())
			var gerr *GenerationError
			if !errors.As(err, &gerr) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
			if !strings.Contains(gerr.Reason, tt.want) {
				t.Errorf("reason %q does not mention %q", gerr.Reason, tt.want)
			}
			if len(gerr.Raw) == 0 {
				t.Errorf("expected raw response attached to error")
			}
		})
	}
}

func TestGenerate_FinalDifficultyEnforced(t *testing.T) {
	content := mutateInterview(t, func(qs []map[string]any) []map[string]any {
		for i := range qs {
			qs[i]["difficulty"] = min(i/2+1, 4) // never reaches 5
		}
		return qs
	})
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), testParams())
	var gerr *GenerationError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !strings.Contains(gerr.Reason, "close at difficulty 5") {
		t.Errorf("unexpected reason: %q", gerr.Reason)
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: validInterviewJSON()})
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]bool)
	for i, it := range items {
		if seen[it.ID] {
			t.Fatalf("duplicate ID at %d: %s", i, it.ID)
		}
		seen[it.ID] = true
	}
}
