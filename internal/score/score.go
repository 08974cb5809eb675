package score

import (
	"fmt"

	"github.com/mbraddock/trainloop/internal/run"
	"github.com/mbraddock/trainloop/internal/stopping"
)

// #region from-metric
// FromMetric reads a named metric off the evaluation run. A missing metric
// is an error and propagates out of the tracker.
func FromMetric(name string) stopping.ScoreFunc {
	return func(e *run.Run) (float64, error) {
		v, ok := e.Metric(name)
		if !ok {
			return 0, fmt.Errorf("score: metric %q not recorded on run %s", name, e.ID)
		}
		return v, nil
	}
}

// #endregion from-metric

// #region combinators
// Negated inverts a score so that loss-style metrics, where lower is better,
// fit the higher-is-better tracker contract.
func Negated(f stopping.ScoreFunc) stopping.ScoreFunc {
	return func(e *run.Run) (float64, error) {
		v, err := f(e)
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
}

// Smoothed returns the running mean of the last window scores. window < 2
// returns f unchanged.
func Smoothed(f stopping.ScoreFunc, window int) stopping.ScoreFunc {
	if window < 2 {
		return f
	}
	var recent []float64
	return func(e *run.Run) (float64, error) {
		v, err := f(e)
		if err != nil {
			return 0, err
		}
		recent = append(recent, v)
		if len(recent) > window {
			recent = recent[len(recent)-window:]
		}
		var sum float64
		for _, r := range recent {
			sum += r
		}
		return sum / float64(len(recent)), nil
	}
}

// #endregion combinators

// #region monitor
// ForMonitor builds a producer from a config-style monitor setting: the metric
// name plus "max" or "min" mode. Min-mode metrics are negated.
func ForMonitor(name, mode string) (stopping.ScoreFunc, error) {
	switch mode {
	case "max":
		return FromMetric(name), nil
	case "min":
		return Negated(FromMetric(name)), nil
	default:
		return nil, fmt.Errorf("score: unknown monitor mode %q (want \"min\" or \"max\")", mode)
	}
}

// #endregion monitor
