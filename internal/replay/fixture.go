package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mbraddock/trainloop/internal/stopping"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a tracker
// configuration, a score sequence, and the expected decision per call.
type Fixture struct {
	Description string            `json:"description"`
	Config      FixtureConfig     `json:"config"`
	Scores      []float64         `json:"scores"`
	Expected    []FixtureExpected `json:"expected"`
}

// FixtureConfig mirrors the tracker configuration with JSON tags.
type FixtureConfig struct {
	Patience        int     `json:"patience"`
	MinDelta        float64 `json:"min_delta"`
	CumulativeDelta bool    `json:"cumulative_delta"`
}

// FixtureExpected captures the expected outcome of one call. Call numbers
// are 1-based. BestScore is optional; nil skips the comparison.
type FixtureExpected struct {
	Call      int      `json:"call"`
	Decision  string   `json:"decision"`
	Counter   int      `json:"counter"`
	BestScore *float64 `json:"best_score,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToTrackerConfig converts the fixture config into a partial TrackerConfig;
// the harness fills in the callbacks and target.
func (fc FixtureConfig) ToTrackerConfig() stopping.TrackerConfig {
	return stopping.TrackerConfig{
		Patience:        fc.Patience,
		MinDelta:        fc.MinDelta,
		CumulativeDelta: fc.CumulativeDelta,
	}
}

// #endregion fixture-loader
