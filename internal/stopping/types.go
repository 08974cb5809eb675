package stopping

import (
	"errors"

	"github.com/mbraddock/trainloop/internal/run"
)

// #region callbacks
// ScoreFunc produces the scalar score for one evaluation event. Higher is
// better; wrap loss-style metrics with score.Negated. An error returned here
// is not caught by the tracker and propagates to the caller of Observe.
type ScoreFunc func(e *run.Run) (float64, error)

// ActionFunc is invoked with the controlled run after each observation:
// either the continue action or the limit action, never both.
type ActionFunc func(target *run.Run)

// Policy bundles the three injected behaviors as a single implementation.
type Policy interface {
	Score(e *run.Run) (float64, error)
	OnContinue(target *run.Run)
	OnLimitReached(target *run.Run)
}

// #endregion callbacks

// #region config
// TrackerConfig configures a non-improvement tracker. All three callbacks,
// the target run, patience >= 1, and min delta >= 0 are validated eagerly
// by NewTracker.
type TrackerConfig struct {
	// Patience is the number of consecutive non-improving observations
	// tolerated before the limit action fires.
	Patience int

	// MinDelta is the margin an improvement must exceed to reset the
	// patience counter.
	MinDelta float64

	// CumulativeDelta measures MinDelta against the best score recorded at
	// the last counter reset instead of tracking sub-threshold improvements.
	CumulativeDelta bool

	Score          ScoreFunc
	OnContinue     ActionFunc
	OnLimitReached ActionFunc

	// Target is the controlled run passed to the two actions.
	Target *run.Run
}

// WithPolicy fills the three callbacks from a Policy implementation.
func (cfg TrackerConfig) WithPolicy(p Policy) TrackerConfig {
	cfg.Score = p.Score
	cfg.OnContinue = p.OnContinue
	cfg.OnLimitReached = p.OnLimitReached
	return cfg
}

// #endregion config

// #region errors
var (
	ErrNilScoreFunc  = errors.New("stopping: score function is required")
	ErrNilContinue   = errors.New("stopping: continue action is required")
	ErrNilLimit      = errors.New("stopping: limit action is required")
	ErrNilTarget     = errors.New("stopping: target run is required")
	ErrPatience      = errors.New("stopping: patience must be a positive integer")
	ErrNegativeDelta = errors.New("stopping: min delta must not be negative")
)

// #endregion errors

// #region decision
// Action enumerates tracker outcomes.
type Action string

const (
	ActionContinue Action = "continue"
	ActionStop     Action = "stop"
)

// Decision is the per-observation outcome, returned for logging and replay.
type Decision struct {
	Action    Action
	Score     float64
	BestScore float64
	Counter   int
	Reason    string
}

// #endregion decision
