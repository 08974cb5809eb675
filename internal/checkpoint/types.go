package checkpoint

import (
	"time"

	"github.com/google/uuid"

	"github.com/mbraddock/trainloop/internal/stopping"
)

// #region record
// Record is a versioned snapshot of a run's resumable state: the epoch it
// was taken at, the stopping tracker's two mutable fields, and the epoch
// metrics at save time.
type Record struct {
	VersionID string
	ParentID  string
	RunID     string
	Epoch     int
	Counter   int
	BestScore *float64
	Metrics   map[string]float64
	CreatedAt time.Time
}

// NewRecord builds a record with a fresh version ID from a tracker state
// dict. parentID is empty for the first checkpoint of a run.
func NewRecord(runID string, epoch int, sd stopping.StateDict, metrics map[string]float64, parentID string) Record {
	return Record{
		VersionID: uuid.New().String(),
		ParentID:  parentID,
		RunID:     runID,
		Epoch:     epoch,
		Counter:   sd.Counter,
		BestScore: sd.BestScore,
		Metrics:   metrics,
		CreatedAt: time.Now().UTC(),
	}
}

// TrackerState converts the record back into a tracker state dict for
// restore.
func (r Record) TrackerState() stopping.StateDict {
	return stopping.StateDict{
		Counter:   r.Counter,
		BestScore: r.BestScore,
	}
}

// #endregion record
