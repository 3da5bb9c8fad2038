package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/prepmate/internal/assessment"
	"github.com/abhisek/prepmate/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prepmate.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(t *testing.T, ownerID string) *assessment.Session {
	t.Helper()
	cfg, err := assessment.NewConfig("Aptitude Run", assessment.ModeSampled, "Arithmetic Aptitude")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	sess, err := assessment.New(ownerID, cfg)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return sess
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepmate.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	sess := testSession(t, "owner-1")
	if err := s1.Sessions().Put(context.Background(), sess); err != nil {
		t.Fatalf("put: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.Sessions().Get(context.Background(), "owner-1", sess.ID)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("expected session %s, got %s", sess.ID, got.ID)
	}
}

func TestSessionPutGetRoundtrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	sess := testSession(t, "owner-1")
	items := []assessment.Item{
		{ID: "q1", Category: "Arithmetic Aptitude", Subcategory: "Percentages", Prompt: "What is 15% of 80?", Options: []string{"10", "12", "14", "16"}},
		{ID: "q2", Category: "Arithmetic Aptitude", Subcategory: "Ratios", Prompt: "Simplify 12:18."},
	}
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := sess.Start(items, start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sess.Answer(0, "12"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	if err := repo.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(ctx, "owner-1", sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != assessment.StatusActive {
		t.Errorf("expected Active, got %s", got.Status)
	}
	if len(got.Items) != 2 || got.Items[0].Options[1] != "12" {
		t.Errorf("items did not round-trip: %+v", got.Items)
	}
	if got.AnswerAt(0) != "12" || got.AnswerAt(1) != "" {
		t.Errorf("answers did not round-trip: %+v", got.Answers)
	}
	if !got.DeadlineAt.Equal(start.Add(2 * time.Minute)) {
		t.Errorf("deadline did not round-trip: %v", got.DeadlineAt)
	}
	if got.Config.Name != "Aptitude Run" {
		t.Errorf("config did not round-trip: %+v", got.Config)
	}
}

func TestSessionPutIsUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	sess := testSession(t, "owner-1")
	if err := repo.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	items := []assessment.Item{{ID: "q1", Category: "Arithmetic Aptitude", Prompt: "2+2?"}}
	if err := sess.Start(items, time.Now()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := repo.Put(ctx, sess); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := repo.Get(ctx, "owner-1", sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != assessment.StatusActive {
		t.Errorf("expected upserted Active status, got %s", got.Status)
	}

	all, err := repo.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected one row after upsert, got %d", len(all))
	}
}

func TestSessionGetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Sessions().Get(context.Background(), "owner-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionListByOwner(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	a := testSession(t, "owner-1")
	b := testSession(t, "owner-1")
	other := testSession(t, "owner-2")
	for _, sess := range []*assessment.Session{a, b, other} {
		if err := repo.Put(ctx, sess); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	mine, err := repo.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(mine))
	}
	for _, sess := range mine {
		if sess.OwnerID != "owner-1" {
			t.Errorf("leaked session for %s", sess.OwnerID)
		}
	}

	empty, err := repo.ListByOwner(ctx, "owner-3")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no sessions, got %d", len(empty))
	}
}

func TestSessionDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	sess := testSession(t, "owner-1")
	if err := repo.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	if err := repo.Delete(ctx, "owner-1", sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "owner-1", sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "owner-1", sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestEventRecordAndCount(t *testing.T) {
	s := openTestStore(t)
	repo := s.Events()
	ctx := context.Background()

	events := []llm.Event{
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "interview-gen", InputTokens: 900, OutputTokens: 1500, LatencyMs: 2300, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "answer-eval", InputTokens: 2100, OutputTokens: 800, LatencyMs: 1800, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "answer-eval", Success: false, ErrorMessage: "rate limited"},
	}
	for _, ev := range events {
		if err := repo.RecordLLMRequest(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	counts, err := repo.CountByPurpose(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["interview-gen"] != 1 || counts["answer-eval"] != 2 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

var _ llm.Recorder = (*EventRepo)(nil)
