package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/prepmate/internal/assessment"
)

// ErrNotFound is returned when a session does not exist for the given key.
var ErrNotFound = errors.New("session not found")

// SessionRepo stores sessions as JSON documents keyed by (owner_id, id).
type SessionRepo struct {
	db *sql.DB
}

// Put inserts or replaces the session snapshot. Last write wins; the engine
// guarantees a single mutation context per session.
func (r *SessionRepo) Put(ctx context.Context, sess *assessment.Session) error {
	doc, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	now := time.Now().Unix()
	_, err = r.db.ExecContext(ctx, `INSERT INTO sessions (owner_id, id, status, overall_score, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, id) DO UPDATE SET
			status = excluded.status,
			overall_score = excluded.overall_score,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		sess.OwnerID, sess.ID, string(sess.Status), sess.OverallScore, string(doc), now, now)
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Get loads one session. Returns ErrNotFound if no row matches.
func (r *SessionRepo) Get(ctx context.Context, ownerID, id string) (*assessment.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT doc FROM sessions WHERE owner_id = ? AND id = ?`, ownerID, id)

	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess assessment.Session
	if err := json.Unmarshal([]byte(doc), &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

// ListByOwner returns all of an owner's sessions, most recently touched
// first.
func (r *SessionRepo) ListByOwner(ctx context.Context, ownerID string) ([]*assessment.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc FROM sessions WHERE owner_id = ? ORDER BY updated_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*assessment.Session
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var sess assessment.Session
		if err := json.Unmarshal([]byte(doc), &sess); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		out = append(out, &sess)
	}
	return out, rows.Err()
}

// Delete removes one session. Deleting a missing session returns
// ErrNotFound so callers can distinguish it from success.
func (r *SessionRepo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
