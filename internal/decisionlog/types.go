package decisionlog

import "time"

// #region entry
// Entry records one stopping decision for audit and replay export.
type Entry struct {
	ID        int64
	RunID     string
	Epoch     int
	Score     float64
	BestScore float64
	Counter   int
	Decision  string // "continue" | "stop"
	Reason    string
	CreatedAt time.Time
}

// #endregion entry
