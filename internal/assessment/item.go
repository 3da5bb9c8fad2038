// Package assessment holds the core data model and session lifecycle for
// timed assessments: an ordered list of items wrapped in a session that
// moves through Configuring → Active → Submitted → Scored (or Abandoned),
// with a deadline-derived countdown and navigable answer state.
package assessment

// QuestionType classifies a generated interview item.
type QuestionType string

const (
	TypeTechnical    QuestionType = "technical"
	TypeSystemDesign QuestionType = "system-design"
	TypeBehavioral   QuestionType = "behavioral"
	TypeCurveball    QuestionType = "curveball"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeTechnical, TypeSystemDesign, TypeBehavioral, TypeCurveball:
		return true
	}
	return false
}

// Item is one assessable unit within a session. Items are created by the
// bank sampler or the interview generator at session creation and are
// immutable afterwards; the per-item Analysis is attached only when the
// session is scored.
type Item struct {
	// ID is stable and unique within a session.
	ID string `json:"id"`

	// Category and Subcategory classify bank items. Generated items carry
	// a QuestionType instead of a subcategory.
	Category    string       `json:"category"`
	Subcategory string       `json:"subcategory,omitempty"`
	Type        QuestionType `json:"questionType,omitempty"`

	// Tier is the access tier the item was sampled under (e.g. "free").
	// Empty for generated items.
	Tier string `json:"tier,omitempty"`

	// Prompt is the display text of the question.
	Prompt string `json:"prompt"`

	// Options is the ordered choice list for closed-form items.
	// Nil for free-text items.
	Options []string `json:"options,omitempty"`

	// Difficulty is 1-5 for generated items, non-decreasing across the
	// generated sequence. Zero for bank items.
	Difficulty int `json:"difficulty,omitempty"`

	// Rationale explains why a generated question is being asked.
	Rationale string `json:"rationale,omitempty"`

	// Analysis is the evaluator's verdict, present only on scored sessions.
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Analysis is the evaluator's per-item result.
type Analysis struct {
	// Score is 0-100: 50 = minimal pass, 70 = good, 90 = expert.
	Score    int             `json:"score"`
	Feedback Feedback        `json:"feedback"`
	Keywords KeywordAnalysis `json:"keywordAnalysis"`
}

// Feedback carries the evaluator's prose verdict on one answer.
type Feedback struct {
	Strengths    string `json:"strengths"`
	Improvements string `json:"improvements"`
	Suggestions  string `json:"suggestions"`
}

// KeywordAnalysis reports expected-keyword coverage for one answer.
type KeywordAnalysis struct {
	MatchedCount    int      `json:"matchedCount"`
	MissingKeywords []string `json:"missingKeywords,omitempty"`
}
