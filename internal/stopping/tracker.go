package stopping

import (
	"fmt"

	"github.com/mbraddock/trainloop/internal/run"
)

// #region tracker
// Tracker counts consecutive non-improving evaluations and dispatches to one
// of two injected actions per observation. It is the generalized form of
// early stopping: what happens at the patience limit is caller-defined.
type Tracker struct {
	patience        int
	minDelta        float64
	cumulativeDelta bool

	score      ScoreFunc
	onContinue ActionFunc
	onLimit    ActionFunc
	target     *run.Run

	counter int
	best    *float64 // nil until the first observation
}

// NewTracker validates the configuration and returns a tracker. Validation
// is eager: a malformed tracker is never constructed.
func NewTracker(cfg TrackerConfig) (*Tracker, error) {
	if cfg.Score == nil {
		return nil, ErrNilScoreFunc
	}
	if cfg.OnContinue == nil {
		return nil, ErrNilContinue
	}
	if cfg.OnLimitReached == nil {
		return nil, ErrNilLimit
	}
	if cfg.Target == nil {
		return nil, ErrNilTarget
	}
	if cfg.Patience < 1 {
		return nil, ErrPatience
	}
	if cfg.MinDelta < 0 {
		return nil, ErrNegativeDelta
	}
	return &Tracker{
		patience:        cfg.Patience,
		minDelta:        cfg.MinDelta,
		cumulativeDelta: cfg.CumulativeDelta,
		score:           cfg.Score,
		onContinue:      cfg.OnContinue,
		onLimit:         cfg.OnLimitReached,
		target:          cfg.Target,
	}, nil
}

// #endregion tracker

// #region observe
// Observe scores the given evaluation run, updates the counter, and invokes
// exactly one of the two actions with the target run. A score error aborts
// the observation before any state changes.
func (t *Tracker) Observe(e *run.Run) (Decision, error) {
	score, err := t.score(e)
	if err != nil {
		return Decision{}, err
	}

	t.update(score)

	d := Decision{
		Score:     score,
		BestScore: *t.best,
		Counter:   t.counter,
	}
	if t.counter >= t.patience {
		d.Action = ActionStop
		d.Reason = fmt.Sprintf("no improvement in %d consecutive evaluations (patience %d)", t.counter, t.patience)
		t.onLimit(t.target)
	} else {
		d.Action = ActionContinue
		d.Reason = fmt.Sprintf("counter %d/%d", t.counter, t.patience)
		t.onContinue(t.target)
	}
	return d, nil
}

// update applies the comparison rule. The first observation records the best
// score without counting. A score within minDelta of the best counts as
// non-improvement; when cumulativeDelta is off, a sub-threshold improvement
// still advances the best so the margin is measured against the latest score.
// The counter is not reset once the limit is reached.
func (t *Tracker) update(score float64) {
	switch {
	case t.best == nil:
		b := score
		t.best = &b
	case score <= *t.best+t.minDelta:
		if !t.cumulativeDelta && score > *t.best {
			*t.best = score
		}
		t.counter++
	default:
		b := score
		t.best = &b
		t.counter = 0
	}
}

// #endregion observe

// #region accessors
// Counter returns the current non-improvement count.
func (t *Tracker) Counter() int {
	return t.counter
}

// BestScore returns the best observed score, or nil before the first
// observation.
func (t *Tracker) BestScore() *float64 {
	if t.best == nil {
		return nil
	}
	b := *t.best
	return &b
}

// Patience returns the configured patience threshold.
func (t *Tracker) Patience() int {
	return t.patience
}

// Target returns the controlled run.
func (t *Tracker) Target() *run.Run {
	return t.target
}

// #endregion accessors
