package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepmate/internal/assessment"
)

func activeSession(t *testing.T, e *Engine) *assessment.Session {
	t.Helper()
	ctx := context.Background()
	sess, err := e.NewSession(ctx, "owner-1", sampledConfig(t))
	require.NoError(t, err)
	_, err = e.StartSampled(ctx, sess)
	require.NoError(t, err)
	return sess
}

func TestRunCountdown_AutoSubmitsOnceAtDeadline(t *testing.T) {
	e, ms, clock := testEngine(t, Config{Catalog: testCatalog(), Tier: "free"})
	sess := activeSession(t, e)

	clock.Set(t0.Add(6 * time.Minute)) // already past the 5-minute deadline

	var ticks []time.Duration
	err := e.RunCountdown(context.Background(), sess, time.Millisecond, func(remaining time.Duration) {
		ticks = append(ticks, remaining)
	})
	require.NoError(t, err)

	assert.Equal(t, assessment.StatusSubmitted, sess.Status)
	assert.Equal(t, assessment.StatusSubmitted, ms.stored("owner-1", sess.ID).Status)
	require.Len(t, ticks, 1, "countdown must stop after the privileged transition")
	assert.Equal(t, time.Duration(0), ticks[0])

	// A second countdown on the submitted session exits immediately
	// without re-submitting.
	puts := ms.putCount()
	require.NoError(t, e.RunCountdown(context.Background(), sess, time.Millisecond, nil))
	assert.Equal(t, puts, ms.putCount())
}

func TestRunCountdown_ReportsRemainingWhileLive(t *testing.T) {
	e, _, clock := testEngine(t, Config{Catalog: testCatalog(), Tier: "free"})
	sess := activeSession(t, e)

	clock.Set(t0.Add(2 * time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan time.Duration, 1)
	go func() {
		_ = e.RunCountdown(ctx, sess, time.Millisecond, func(remaining time.Duration) {
			select {
			case got <- remaining:
			default:
			}
		})
	}()

	select {
	case remaining := <-got:
		assert.Equal(t, 3*time.Minute, remaining)
	case <-time.After(time.Second):
		t.Fatal("no tick observed")
	}
	cancel()

	assert.Equal(t, assessment.StatusActive, sess.Status)
}

func TestRunCountdown_CancelledContext(t *testing.T) {
	e, _, _ := testEngine(t, Config{Catalog: testCatalog(), Tier: "free"})
	sess := activeSession(t, e)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.RunCountdown(ctx, sess, time.Millisecond, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, assessment.StatusActive, sess.Status)
}

func TestRunCountdown_TickNeverBlocksAnswers(t *testing.T) {
	e, _, clock := testEngine(t, Config{Catalog: testCatalog(), Tier: "free"})
	sess := activeSession(t, e)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.RunCountdown(ctx, sess, time.Millisecond, func(time.Duration) {
			time.Sleep(5 * time.Millisecond) // slow consumer
		})
	}()

	// Answer mutation proceeds while ticks fire.
	for i := 0; i < 3; i++ {
		require.NoError(t, e.SaveAnswer(context.Background(), sess, i, "x"))
	}

	clock.Set(t0.Add(10 * time.Minute))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("countdown did not finish after deadline")
	}
	assert.Equal(t, assessment.StatusSubmitted, sess.Status)
	assert.Equal(t, "x", sess.AnswerAt(0))
}
