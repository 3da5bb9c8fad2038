package engine

import (
	"context"
	"time"

	"github.com/abhisek/prepmate/internal/assessment"
)

// DefaultTickInterval is the countdown resolution.
const DefaultTickInterval = time.Second

// RunCountdown ticks until the session's deadline, reporting the remaining
// time on every tick, and auto-submits exactly once when the deadline
// passes. The tick is advisory and never blocks answer mutation; remaining
// time is recomputed from the deadline on each fire, so a stalled ticker
// cannot stretch the session. Returns when the session leaves Active, when
// the auto-submit fires, or when ctx is cancelled.
//
// onTick may be nil. It is called outside the engine lock.
func (e *Engine) RunCountdown(ctx context.Context, sess *assessment.Session, interval time.Duration, onTick func(remaining time.Duration)) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		e.mu.Lock()
		if sess.Status != assessment.StatusActive {
			e.mu.Unlock()
			return nil
		}
		now := e.clock()
		remaining := sess.Remaining(now)
		expired := sess.Expired(now)
		var submitErr error
		if expired {
			submitErr = e.submitLocked(ctx, sess)
		}
		e.mu.Unlock()

		if onTick != nil {
			onTick(remaining)
		}
		if expired {
			return submitErr
		}
	}
}
