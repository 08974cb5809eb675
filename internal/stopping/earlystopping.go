package stopping

import (
	"github.com/charmbracelet/log"

	"github.com/mbraddock/trainloop/internal/run"
)

// #region config
// EarlyStoppingConfig configures the stop-the-run specialization of the
// tracker. Validation rules are identical to TrackerConfig.
type EarlyStoppingConfig struct {
	Patience        int
	MinDelta        float64
	CumulativeDelta bool
	Score           ScoreFunc

	// Trainer is the run terminated when patience is exhausted.
	Trainer *run.Run

	// Logger receives the informational stop message. Defaults to the
	// package-level logger when nil.
	Logger *log.Logger
}

// #endregion config

// #region early-stopping
// EarlyStopping wires a tracker whose continue action is a no-op and whose
// limit action logs and terminates the trainer. Built by composition: there
// is no behavior here beyond the two pre-configured actions.
func EarlyStopping(cfg EarlyStoppingConfig) (*Tracker, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return NewTracker(TrackerConfig{
		Patience:        cfg.Patience,
		MinDelta:        cfg.MinDelta,
		CumulativeDelta: cfg.CumulativeDelta,
		Score:           cfg.Score,
		OnContinue:      func(*run.Run) {},
		OnLimitReached: func(trainer *run.Run) {
			logger.Info("early stopping: terminating run", "run_id", trainer.ID, "epoch", trainer.Epoch)
			trainer.Terminate()
		},
		Target: cfg.Trainer,
	})
}

// #endregion early-stopping
