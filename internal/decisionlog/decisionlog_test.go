package decisionlog

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE decision_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id     TEXT NOT NULL,
		epoch      INTEGER NOT NULL,
		score      REAL NOT NULL,
		best_score REAL NOT NULL,
		counter    INTEGER NOT NULL,
		decision   TEXT NOT NULL,
		reason     TEXT,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// #endregion helpers

func TestLogDecision_Success(t *testing.T) {
	db := setupDB(t)

	err := LogDecision(db, Entry{
		RunID:     "run-1",
		Epoch:     4,
		Score:     0.9,
		BestScore: 1.0,
		Counter:   2,
		Decision:  "continue",
		Reason:    "counter 2/3",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("LogDecision: %v", err)
	}

	entries, err := ListDecisions(db, "run-1")
	if err != nil {
		t.Fatalf("ListDecisions: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Epoch != 4 || e.Score != 0.9 || e.BestScore != 1.0 || e.Counter != 2 {
		t.Fatalf("round trip produced %+v", e)
	}
	if e.Decision != "continue" || e.Reason != "counter 2/3" {
		t.Fatalf("decision fields %+v", e)
	}
}

func TestLogDecision_DefaultsCreatedAt(t *testing.T) {
	db := setupDB(t)

	if err := LogDecision(db, Entry{RunID: "run-1", Decision: "stop"}); err != nil {
		t.Fatalf("LogDecision: %v", err)
	}
	entries, err := ListDecisions(db, "run-1")
	if err != nil {
		t.Fatalf("ListDecisions: %v", err)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Fatal("created_at not defaulted")
	}
}

func TestListDecisions_OrderedByEpoch(t *testing.T) {
	db := setupDB(t)

	for _, epoch := range []int{3, 1, 2} {
		if err := LogDecision(db, Entry{RunID: "run-1", Epoch: epoch, Decision: "continue"}); err != nil {
			t.Fatalf("LogDecision epoch %d: %v", epoch, err)
		}
	}
	// Entries for other runs stay out of the listing.
	if err := LogDecision(db, Entry{RunID: "run-2", Epoch: 1, Decision: "stop"}); err != nil {
		t.Fatalf("LogDecision other run: %v", err)
	}

	entries, err := ListDecisions(db, "run-1")
	if err != nil {
		t.Fatalf("ListDecisions: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, e := range entries {
		if e.Epoch != i+1 {
			t.Fatalf("entry %d has epoch %d, want %d", i, e.Epoch, i+1)
		}
	}
}
