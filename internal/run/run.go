package run

import (
	"time"

	"github.com/google/uuid"
)

// #region run
// Run is the controlled context for a single training run: epoch counters,
// the latest evaluation metrics, and a one-way termination flag. A Run is
// driven by a single goroutine; fields carry no locking.
type Run struct {
	ID        string
	StartedAt time.Time

	Epoch     int
	Iteration int

	// Metrics holds the most recent evaluation results by name,
	// e.g. "val_loss" or "accuracy".
	Metrics map[string]float64

	terminated bool
}

// New creates a run with a fresh ID and an empty metrics map.
func New() *Run {
	return &Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Metrics:   make(map[string]float64),
	}
}

// #endregion run

// #region terminate
// Terminate requests the end of the run. It is a one-way signal: the loop
// driving the run checks Terminated between epochs and winds down.
func (r *Run) Terminate() {
	r.terminated = true
}

// Terminated reports whether termination has been requested.
func (r *Run) Terminated() bool {
	return r.terminated
}

// #endregion terminate

// #region metrics
// SetMetrics replaces the stored values for the given metric names,
// leaving other metrics untouched.
func (r *Run) SetMetrics(values map[string]float64) {
	for name, v := range values {
		r.Metrics[name] = v
	}
}

// Metric returns the named metric and whether it has been recorded.
func (r *Run) Metric(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// #endregion metrics
