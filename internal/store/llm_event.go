package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abhisek/prepmate/internal/llm"
)

// EventRepo appends model request events. It satisfies llm.Recorder so a
// provider wrapped with llm.WithLogging writes straight into the store.
type EventRepo struct {
	db *sql.DB
}

// RecordLLMRequest appends one event row.
func (r *EventRepo) RecordLLMRequest(ctx context.Context, ev llm.Event) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO llm_events
		(recorded_at, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(), ev.Provider, ev.Model, ev.Purpose,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs, ev.Success, ev.ErrorMessage)
	if err != nil {
		return fmt.Errorf("record llm event: %w", err)
	}
	return nil
}

// CountByPurpose returns how many events were recorded per purpose label.
func (r *EventRepo) CountByPurpose(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purpose, COUNT(*) FROM llm_events GROUP BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("count llm events: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var purpose string
		var n int
		if err := rows.Scan(&purpose, &n); err != nil {
			return nil, fmt.Errorf("scan llm event count: %w", err)
		}
		out[purpose] = n
	}
	return out, rows.Err()
}
