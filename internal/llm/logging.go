package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// WithPurpose labels the context so the event log can attribute a request
// to the operation that made it ("interview-gen", "answer-eval").
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label, "unknown" when absent.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// Event is one recorded model request.
type Event struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// Recorder persists model request events. The store package implements it.
type Recorder interface {
	RecordLLMRequest(ctx context.Context, ev Event) error
}

// loggingProvider records every request as an Event.
type loggingProvider struct {
	inner    Provider
	recorder Recorder
}

// WithLogging wraps a Provider with event recording. A nil recorder
// returns the provider unchanged.
func WithLogging(p Provider, rec Recorder) Provider {
	if rec == nil {
		return p
	}
	return &loggingProvider{inner: p, recorder: rec}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	ev := Event{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// Recording failures must not fail the request.
	if recErr := l.recorder.RecordLLMRequest(ctx, ev); recErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to record model request event: %v\n", recErr)
	}

	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
