package replay

import (
	"fmt"

	"github.com/mbraddock/trainloop/internal/run"
	"github.com/mbraddock/trainloop/internal/score"
	"github.com/mbraddock/trainloop/internal/stopping"
)

// #region types

// Result captures the outcome of feeding one score through the tracker.
type Result struct {
	Call      int
	Action    stopping.Action
	Score     float64
	BestScore float64
	Counter   int
	Reason    string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalCalls int
	Continues  int
	Stops      int
	FirstStop  int // 1-based call of the first stop decision, 0 if none
}

// #endregion types

// #region replay

// scoreMetric is the metric name the harness stages each score under.
const scoreMetric = "score"

// Replay feeds the score sequence through a fresh tracker, one observation
// per score, and records every decision. The limit action does not terminate
// anything here: replay always runs the full sequence so post-limit behavior
// is visible too.
func Replay(cfg stopping.TrackerConfig, scores []float64) ([]Result, error) {
	trainer := run.New()
	evaluator := run.New()

	cfg.Score = score.FromMetric(scoreMetric)
	cfg.OnContinue = func(*run.Run) {}
	cfg.OnLimitReached = func(*run.Run) {}
	cfg.Target = trainer

	tracker, err := stopping.NewTracker(cfg)
	if err != nil {
		return nil, fmt.Errorf("build tracker: %w", err)
	}

	results := make([]Result, 0, len(scores))
	for i, s := range scores {
		evaluator.Epoch = i + 1
		evaluator.SetMetrics(map[string]float64{scoreMetric: s})

		d, err := tracker.Observe(evaluator)
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", i+1, err)
		}
		results = append(results, Result{
			Call:      i + 1,
			Action:    d.Action,
			Score:     d.Score,
			BestScore: d.BestScore,
			Counter:   d.Counter,
			Reason:    d.Reason,
		})
	}
	return results, nil
}

// #endregion replay

// #region verify

// Verify compares results against a fixture's expectations and returns one
// message per mismatch. Empty slice means the fixture passed.
func Verify(f *Fixture, results []Result) []string {
	var mismatches []string
	for _, exp := range f.Expected {
		if exp.Call < 1 || exp.Call > len(results) {
			mismatches = append(mismatches, fmt.Sprintf("call %d: no result (only %d calls)", exp.Call, len(results)))
			continue
		}
		got := results[exp.Call-1]
		if string(got.Action) != exp.Decision {
			mismatches = append(mismatches, fmt.Sprintf("call %d: decision %s, want %s", exp.Call, got.Action, exp.Decision))
		}
		if got.Counter != exp.Counter {
			mismatches = append(mismatches, fmt.Sprintf("call %d: counter %d, want %d", exp.Call, got.Counter, exp.Counter))
		}
		if exp.BestScore != nil && got.BestScore != *exp.BestScore {
			mismatches = append(mismatches, fmt.Sprintf("call %d: best score %g, want %g", exp.Call, got.BestScore, *exp.BestScore))
		}
	}
	return mismatches
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{TotalCalls: len(results)}
	for _, r := range results {
		switch r.Action {
		case stopping.ActionContinue:
			s.Continues++
		case stopping.ActionStop:
			s.Stops++
			if s.FirstStop == 0 {
				s.FirstStop = r.Call
			}
		}
	}
	return s
}

// #endregion verify
