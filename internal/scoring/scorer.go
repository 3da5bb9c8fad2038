// Package scoring turns a submitted session into a scored one. It builds a
// single batch evaluation request from the session's question/answer pairs,
// decodes the evaluator's parallel per-answer results, and applies them to
// the session atomically. A failure at any point leaves the session in
// Submitted so the caller can retry.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/prepmate/internal/assessment"
	"github.com/abhisek/prepmate/internal/llm"
)

// Config holds evaluation tunables.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the standard evaluation settings. Temperature is
// kept low so scores are stable across retries.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.2,
	}
}

// ScoringError reports an evaluation pass that could not be applied. The
// session it was built for is unchanged.
type ScoringError struct {
	Reason string
	Err    error
}

func (e *ScoringError) Error() string {
	if e.Err != nil {
		return "scoring: " + e.Reason + ": " + e.Err.Error()
	}
	return "scoring: " + e.Reason
}

func (e *ScoringError) Unwrap() error { return e.Err }

// Scorer evaluates submitted sessions through an LLM provider.
type Scorer struct {
	provider llm.Provider
	config   Config
}

// New creates a Scorer with the given provider and config.
func New(provider llm.Provider, cfg Config) *Scorer {
	return &Scorer{provider: provider, config: cfg}
}

const systemPrompt = `You are a strict but fair interviewer grading a completed assessment.

Rules:
- You will receive numbered question/answer pairs. Return one evaluation per pair, in the same order.
- Score each answer 0-100: 50 is a minimal pass, 70 is good, 90 is expert. An empty answer scores 0.
- Grade the answer that was given, not the answer you would have wanted. Partial credit for partially correct reasoning.
- Feedback must be specific to the answer: concrete strengths, concrete improvements, and a concrete suggestion for further study.
- For keyword analysis, decide which key terms a strong answer to the question would contain, then report how many the answer covered and which were missing.`

// evaluationsOutput is the raw evaluator response before mapping.
type evaluationsOutput struct {
	Evaluations []evaluationOutput `json:"evaluations"`
}

// evaluationOutput is one raw evaluator result before mapping.
type evaluationOutput struct {
	Score    int `json:"score"`
	Feedback struct {
		Strengths    string `json:"strengths"`
		Improvements string `json:"improvements"`
		Suggestions  string `json:"suggestions"`
	} `json:"feedback"`
	KeywordAnalysis struct {
		MatchedCount    int      `json:"matched_count"`
		MissingKeywords []string `json:"missing_keywords"`
	} `json:"keyword_analysis"`
}

// Evaluate runs one evaluation pass over a Submitted session and returns
// the per-item results, parallel to the item list. The session is never
// mutated; the caller decides when and under what synchronization to apply
// the results. Every failure is a ScoringError unless the session was in
// the wrong state to begin with.
func (s *Scorer) Evaluate(ctx context.Context, sess *assessment.Session) ([]assessment.Analysis, error) {
	if sess.Status != assessment.StatusSubmitted {
		return nil, &assessment.InvalidStateError{Op: "score", Status: sess.Status}
	}
	if len(sess.Items) == 0 {
		return nil, &ScoringError{Reason: "session has no items"}
	}

	ctx = llm.WithPurpose(ctx, "answer-eval")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(sess)},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, &ScoringError{Reason: "evaluator call failed", Err: err}
	}

	var out evaluationsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &ScoringError{Reason: "malformed evaluator response", Err: err}
	}
	raw := out.Evaluations
	if len(raw) != len(sess.Items) {
		return nil, &ScoringError{
			Reason: fmt.Sprintf("evaluator returned %d results for %d items", len(raw), len(sess.Items)),
		}
	}

	results := make([]assessment.Analysis, len(raw))
	for i, r := range raw {
		if r.Score < 0 || r.Score > 100 {
			return nil, &ScoringError{Reason: fmt.Sprintf("result %d: score %d out of range", i, r.Score)}
		}
		results[i] = assessment.Analysis{
			Score: r.Score,
			Feedback: assessment.Feedback{
				Strengths:    r.Feedback.Strengths,
				Improvements: r.Feedback.Improvements,
				Suggestions:  r.Feedback.Suggestions,
			},
			Keywords: assessment.KeywordAnalysis{
				MatchedCount:    r.KeywordAnalysis.MatchedCount,
				MissingKeywords: r.KeywordAnalysis.MissingKeywords,
			},
		}
	}

	return results, nil
}

// Score evaluates a submitted session and transitions it to Scored,
// stamping now as the completion time. The session is mutated only on full
// success; on any failure it is left as it was, still Submitted, and the
// error is a ScoringError unless the session was in the wrong state to
// begin with.
func (s *Scorer) Score(ctx context.Context, sess *assessment.Session, now time.Time) error {
	results, err := s.Evaluate(ctx, sess)
	if err != nil {
		return err
	}
	if err := sess.ApplyEvaluation(results, now); err != nil {
		return &ScoringError{Reason: "could not apply evaluation", Err: err}
	}
	return nil
}

// buildUserMessage renders the numbered question/answer pairs. Unanswered
// items are sent with an explicit empty-answer marker so the evaluator still
// returns an entry for them.
func buildUserMessage(sess *assessment.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Assessment: %s\n", sess.Config.Name)
	fmt.Fprintf(&b, "Pairs: %d\n", len(sess.Items))

	for i, item := range sess.Items {
		fmt.Fprintf(&b, "\n%d. Question: %s\n", i+1, item.Prompt)
		answer := sess.AnswerAt(i)
		if answer == "" {
			b.WriteString("   Answer: (no answer given)\n")
		} else {
			fmt.Fprintf(&b, "   Answer: %s\n", answer)
		}
	}

	return b.String()
}
