// Package engine is the facade over the session lifecycle: it wires the
// item sampler, the interview generator, the scorer, and the store into the
// operations a front end calls. The engine assumes a single mutation context
// per session and serializes all session mutation behind one mutex; the
// generator and evaluator calls are the only operations that suspend.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/prepmate/internal/assessment"
	"github.com/abhisek/prepmate/internal/bank"
)

// SessionStore is the persistence surface the engine needs. The store
// package's SessionRepo satisfies it.
type SessionStore interface {
	Put(ctx context.Context, sess *assessment.Session) error
	Get(ctx context.Context, ownerID, id string) (*assessment.Session, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*assessment.Session, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Generator produces a generated interview's item list.
type Generator interface {
	Generate(ctx context.Context, params assessment.GeneratedParams) ([]assessment.Item, error)
}

// Scorer produces per-item evaluations for a Submitted session without
// mutating it; the engine applies the results under its own lock.
type Scorer interface {
	Evaluate(ctx context.Context, sess *assessment.Session) ([]assessment.Analysis, error)
}

// Config wires the engine's collaborators. Store is required; Catalog,
// Generator, and Scorer may each be nil when the corresponding mode is not
// used, and the engine rejects operations that need a missing collaborator.
type Config struct {
	Store     SessionStore
	Catalog   *bank.Catalog
	Generator Generator
	Scorer    Scorer

	// Tier filters sampling, e.g. "free". Empty admits every item.
	Tier string

	// Clock overrides time.Now for tests.
	Clock func() time.Time
}

// Engine drives sessions from configuration through scoring.
type Engine struct {
	mu        sync.Mutex
	store     SessionStore
	catalog   *bank.Catalog
	generator Generator
	scorer    Scorer
	tier      string
	clock     func() time.Time
}

// New creates an Engine from the given wiring.
func New(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errors.New("engine: store is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		store:     cfg.Store,
		catalog:   cfg.Catalog,
		generator: cfg.Generator,
		scorer:    cfg.Scorer,
		tier:      cfg.Tier,
		clock:     clock,
	}, nil
}

// NewSession validates the config, creates a Configuring session, and
// persists the initial snapshot.
func (e *Engine) NewSession(ctx context.Context, ownerID string, cfg *assessment.SessionConfig) (*assessment.Session, error) {
	sess, err := assessment.New(ownerID, cfg)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// StartSampled fills the session from the item bank and activates it. The
// sampling result is returned so the caller can surface under-fill; a
// shortfall is not an error.
func (e *Engine) StartSampled(ctx context.Context, sess *assessment.Session) (bank.Result, error) {
	if e.catalog == nil {
		return bank.Result{}, errors.New("engine: no item catalog configured")
	}
	if sess.Config.Mode != assessment.ModeSampled {
		return bank.Result{}, &assessment.ValidationError{Field: "mode", Message: "session is not in sampled mode"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	res := bank.Sample(e.catalog, bank.Request{
		Categories: sess.Config.Categories,
		Quota:      sess.Config.Quota,
		Subtopics:  sess.Config.Subtopics,
		Tier:       e.tier,
	})
	if err := sess.Start(res.Items, e.clock()); err != nil {
		return bank.Result{}, err
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return bank.Result{}, fmt.Errorf("persist session: %w", err)
	}
	return res, nil
}

// StartGenerated asks the generator for the interview and activates the
// session with it. Generation happens at most once per session: the
// Configuring → Active transition consumes the one chance, and a second
// call fails with InvalidStateError without touching the generator. If the
// session was abandoned while the call was in flight, the generated items
// are discarded.
func (e *Engine) StartGenerated(ctx context.Context, sess *assessment.Session) error {
	if e.generator == nil {
		return errors.New("engine: no generator configured")
	}
	if sess.Config.Mode != assessment.ModeGenerated {
		return &assessment.ValidationError{Field: "mode", Message: "session is not in generated mode"}
	}
	if sess.Status != assessment.StatusConfiguring {
		return &assessment.InvalidStateError{Op: "generate", Status: sess.Status}
	}
	if sess.Config.Generated == nil {
		return &assessment.ValidationError{Field: "generated", Message: "generated mode requires generator parameters"}
	}

	// Suspension point: no lock held while the generator runs.
	items, err := e.generator.Generate(ctx, *sess.Config.Generated)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Discard the result if the session moved on while we were waiting.
	if sess.Status != assessment.StatusConfiguring {
		return nil
	}
	if err := sess.Start(items, e.clock()); err != nil {
		return err
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// SaveAnswer records the answer at index i and persists the snapshot.
func (e *Engine) SaveAnswer(ctx context.Context, sess *assessment.Session, i int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := sess.Answer(i, text); err != nil {
		return err
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// ClearAnswer removes the answer at index i and persists the snapshot.
func (e *Engine) ClearAnswer(ctx context.Context, sess *assessment.Session, i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := sess.Clear(i); err != nil {
		return err
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Submit moves the session to Submitted and persists it. Submitting an
// already Submitted or Scored session is a no-op.
func (e *Engine) Submit(ctx context.Context, sess *assessment.Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitLocked(ctx, sess)
}

func (e *Engine) submitLocked(ctx context.Context, sess *assessment.Session) error {
	before := sess.Status
	if err := sess.Submit(); err != nil {
		return err
	}
	if sess.Status == before {
		return nil // idempotent no-op, nothing to persist
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Abandon moves the session to Abandoned and persists it.
func (e *Engine) Abandon(ctx context.Context, sess *assessment.Session) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := sess.Abandon(); err != nil {
		return err
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Score runs one evaluation pass over a Submitted session and persists the
// Scored result. A failed pass leaves the session Submitted; the caller may
// simply call Score again. The evaluator call runs outside the lock; the
// results are applied under it, re-checked against current status, so a
// result arriving for a session that already moved on is dropped.
func (e *Engine) Score(ctx context.Context, sess *assessment.Session) error {
	if e.scorer == nil {
		return errors.New("engine: no scorer configured")
	}

	// Suspension point: no lock held while the evaluator runs.
	results, err := e.scorer.Evaluate(ctx, sess)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if sess.Status != assessment.StatusSubmitted {
		return nil
	}
	if err := sess.ApplyEvaluation(results, e.clock()); err != nil {
		return err
	}
	if err := e.store.Put(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Resume loads a session from the store. An Active session whose deadline
// already passed is submitted before it is returned, so a caller reopening
// an expired session always sees it Submitted, never Active.
func (e *Engine) Resume(ctx context.Context, ownerID, id string) (*assessment.Session, error) {
	sess, err := e.store.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if sess.Status == assessment.StatusActive && sess.Expired(e.clock()) {
		if err := e.submitLocked(ctx, sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// List returns the owner's sessions, most recently touched first.
func (e *Engine) List(ctx context.Context, ownerID string) ([]*assessment.Session, error) {
	return e.store.ListByOwner(ctx, ownerID)
}

// Delete removes a session from the store.
func (e *Engine) Delete(ctx context.Context, ownerID, id string) error {
	return e.store.Delete(ctx, ownerID, id)
}
