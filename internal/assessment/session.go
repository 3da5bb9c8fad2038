package assessment

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusConfiguring is the initial state while the config is edited.
	StatusConfiguring Status = "configuring"

	// StatusActive accepts answer mutation until submit or timeout.
	StatusActive Status = "active"

	// StatusSubmitted is terminal with respect to answers and awaits scoring.
	StatusSubmitted Status = "submitted"

	// StatusScored is terminal; the session carries its overall score.
	StatusScored Status = "scored"

	// StatusAbandoned is terminal; the user discarded the session.
	StatusAbandoned Status = "abandoned"
)

// DefaultSecondsPerItem is the per-item time budget used when the config
// does not override it. One minute per question, matching the bank's
// total-time estimate shown at configuration time.
const DefaultSecondsPerItem = 60

// Session is one user's instance of an assessment, from configuration
// through scoring. The countdown is derived state: only DeadlineAt is
// persisted, and remaining time is always recomputed as DeadlineAt - now.
type Session struct {
	ID      string        `json:"id"`
	OwnerID string        `json:"ownerId"`
	Config  SessionConfig `json:"config"`

	// Items is fixed in length and order once the session starts.
	Items []Item `json:"items"`

	// Answers maps item index to answer text. Absent or "" = unanswered.
	Answers map[int]string `json:"answers"`

	Status Status `json:"status"`

	// SecondsPerItem sizes the deadline at Start. Zero means
	// DefaultSecondsPerItem.
	SecondsPerItem int `json:"secondsPerItem,omitempty"`

	CreatedAt  time.Time `json:"createdAt,omitzero"`
	DeadlineAt time.Time `json:"deadlineAt,omitzero"`

	// CompletedAt and OverallScore are set when the session is scored.
	CompletedAt  time.Time `json:"completedAt,omitzero"`
	OverallScore int       `json:"overallScore,omitempty"`
}

// New creates a Configuring session owned by ownerID, freezing a snapshot
// of the given config. The config is validated before any state is built.
func New(ownerID string, cfg *SessionConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Config:  cfg.clone(),
		Answers: make(map[int]string),
		Status:  StatusConfiguring,
	}, nil
}

// secondsPerItem resolves the effective per-item budget.
func (s *Session) secondsPerItem() int {
	if s.SecondsPerItem > 0 {
		return s.SecondsPerItem
	}
	return DefaultSecondsPerItem
}

// Duration is the total time budget for the session's item list.
func (s *Session) Duration() time.Duration {
	n := max(1, len(s.Items))
	return time.Duration(n*s.secondsPerItem()) * time.Second
}

// Start moves Configuring → Active with the given item list and stamps the
// deadline: now + len(items) * secondsPerItem. An empty item list is
// rejected with ValidationError and leaves the session in Configuring.
func (s *Session) Start(items []Item, now time.Time) error {
	if s.Status != StatusConfiguring {
		return &InvalidStateError{Op: "start", Status: s.Status}
	}
	if len(items) == 0 {
		return &ValidationError{Field: "items", Message: "session requires at least one item"}
	}
	s.Items = items
	s.Status = StatusActive
	s.CreatedAt = now
	s.DeadlineAt = now.Add(s.Duration())
	return nil
}

// Answer records the answer text for the item at index i, replacing any
// previous answer. Only Active sessions accept answers.
func (s *Session) Answer(i int, text string) error {
	if s.Status != StatusActive {
		return &InvalidStateError{Op: "answer", Status: s.Status}
	}
	if i < 0 || i >= len(s.Items) {
		return &OutOfRangeError{Index: i, Count: len(s.Items)}
	}
	s.Answers[i] = text
	return nil
}

// Clear resets the answer at index i to unanswered.
func (s *Session) Clear(i int) error {
	if s.Status != StatusActive {
		return &InvalidStateError{Op: "clear", Status: s.Status}
	}
	if i < 0 || i >= len(s.Items) {
		return &OutOfRangeError{Index: i, Count: len(s.Items)}
	}
	delete(s.Answers, i)
	return nil
}

// AnswerAt returns the answer text at index i, "" if unanswered.
func (s *Session) AnswerAt(i int) string {
	return s.Answers[i]
}

// Answered reports whether the item at index i has a non-empty answer.
// Completion is derived from the answer map, never tracked separately.
func (s *Session) Answered(i int) bool {
	return s.Answers[i] != ""
}

// AnsweredCount returns the number of items with a non-empty answer.
func (s *Session) AnsweredCount() int {
	n := 0
	for i := range s.Items {
		if s.Answered(i) {
			n++
		}
	}
	return n
}

// Submit moves Active → Submitted. Submitting an already Submitted or
// Scored session is a no-op: the existing state stands and scoring is not
// re-triggered. Submitting from Configuring or Abandoned is an error.
func (s *Session) Submit() error {
	switch s.Status {
	case StatusActive:
		s.Status = StatusSubmitted
		return nil
	case StatusSubmitted, StatusScored:
		return nil
	default:
		return &InvalidStateError{Op: "submit", Status: s.Status}
	}
}

// Abandon discards the session before submission. Valid from Configuring
// and Active only; Abandoned is terminal.
func (s *Session) Abandon() error {
	switch s.Status {
	case StatusConfiguring, StatusActive:
		s.Status = StatusAbandoned
		return nil
	default:
		return &InvalidStateError{Op: "abandon", Status: s.Status}
	}
}

// Remaining returns the time left until the deadline, clamped to zero.
// Derived from DeadlineAt alone, so a reloaded session reconstructs the
// correct remaining time rather than resetting it.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.DeadlineAt.IsZero() {
		return 0
	}
	d := s.DeadlineAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether an Active session has run out its countdown.
func (s *Session) Expired(now time.Time) bool {
	return s.Status == StatusActive && !s.DeadlineAt.IsZero() && !now.Before(s.DeadlineAt)
}

// ApplyEvaluation moves Submitted → Scored atomically: every item receives
// its analysis, the session receives the rounded mean as OverallScore, and
// CompletedAt is stamped. A result count that does not match the item
// count is rejected before any mutation, so the session is never left
// partially scored.
func (s *Session) ApplyEvaluation(results []Analysis, now time.Time) error {
	if s.Status != StatusSubmitted {
		return &InvalidStateError{Op: "score", Status: s.Status}
	}
	if len(results) != len(s.Items) {
		return &ValidationError{
			Field:   "results",
			Message: fmt.Sprintf("evaluator returned %d results for %d items", len(results), len(s.Items)),
		}
	}
	sum := 0
	for i := range results {
		r := results[i]
		s.Items[i].Analysis = &r
		sum += r.Score
	}
	s.OverallScore = int(math.Round(float64(sum) / float64(len(results))))
	s.CompletedAt = now
	s.Status = StatusScored
	return nil
}
