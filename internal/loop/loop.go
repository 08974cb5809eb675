package loop

import (
	"fmt"

	"github.com/mbraddock/trainloop/internal/run"
)

// #region types
// EpochFunc performs one epoch of training plus evaluation and returns the
// epoch's metrics. Returned metrics are merged into the run before handlers
// fire.
type EpochFunc func(r *run.Run) (map[string]float64, error)

// Handler is invoked once per completed epoch, in registration order.
type Handler func(r *run.Run) error

// Summary reports how a loop ended.
type Summary struct {
	EpochsRun    int
	Terminated   bool
	FinalMetrics map[string]float64
}

// #endregion types

// #region loop
// Loop drives a run for up to MaxEpochs epochs, checking the run's
// termination flag between epochs. It is deliberately not an event engine:
// handlers fire at one point only, after each epoch's evaluation.
type Loop struct {
	trainer  *run.Run
	epoch    EpochFunc
	handlers []Handler
	max      int
}

// New creates a loop over the given trainer run.
func New(trainer *run.Run, epoch EpochFunc, maxEpochs int) (*Loop, error) {
	if trainer == nil {
		return nil, fmt.Errorf("loop: trainer run is required")
	}
	if epoch == nil {
		return nil, fmt.Errorf("loop: epoch function is required")
	}
	if maxEpochs < 1 {
		return nil, fmt.Errorf("loop: max epochs must be positive, got %d", maxEpochs)
	}
	return &Loop{trainer: trainer, epoch: epoch, max: maxEpochs}, nil
}

// OnEpochCompleted registers a handler to run after each epoch.
func (l *Loop) OnEpochCompleted(h Handler) {
	l.handlers = append(l.handlers, h)
}

// #endregion loop

// #region run
// Run executes the loop. Errors from the epoch function or any handler abort
// the loop immediately; there is no retry or recovery inside the loop.
func (l *Loop) Run() (Summary, error) {
	for epoch := 1; epoch <= l.max; epoch++ {
		if l.trainer.Terminated() {
			break
		}

		l.trainer.Epoch = epoch
		metrics, err := l.epoch(l.trainer)
		if err != nil {
			return Summary{}, fmt.Errorf("epoch %d: %w", epoch, err)
		}
		l.trainer.SetMetrics(metrics)
		l.trainer.Iteration++

		for _, h := range l.handlers {
			if err := h(l.trainer); err != nil {
				return Summary{}, fmt.Errorf("epoch %d handler: %w", epoch, err)
			}
		}
	}

	return Summary{
		EpochsRun:    l.trainer.Epoch,
		Terminated:   l.trainer.Terminated(),
		FinalMetrics: l.trainer.Metrics,
	}, nil
}

// #endregion run
