package stopping

import (
	"encoding/json"
	"fmt"
)

// #region state-dict
// StateDict is the persisted form of a tracker's two mutable fields, used
// for checkpoint save and restore.
type StateDict struct {
	Counter   int      `json:"counter"`
	BestScore *float64 `json:"best_score"`
}

// StateDict snapshots the tracker's mutable state.
func (t *Tracker) StateDict() StateDict {
	return StateDict{
		Counter:   t.counter,
		BestScore: t.BestScore(),
	}
}

// LoadStateDict overwrites the tracker's mutable fields verbatim. Values are
// not range-checked: a restored checkpoint is trusted as-is.
func (t *Tracker) LoadStateDict(sd StateDict) {
	t.counter = sd.Counter
	if sd.BestScore == nil {
		t.best = nil
		return
	}
	b := *sd.BestScore
	t.best = &b
}

// #endregion state-dict

// #region parse
// ParseStateDict decodes a serialized state dict. Both keys must be present;
// best_score may be null for a tracker that has not yet observed a score.
func ParseStateDict(data []byte) (StateDict, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return StateDict{}, fmt.Errorf("parse state dict: %w", err)
	}
	for _, key := range []string{"counter", "best_score"} {
		if _, ok := raw[key]; !ok {
			return StateDict{}, fmt.Errorf("parse state dict: missing key %q", key)
		}
	}
	var sd StateDict
	if err := json.Unmarshal(data, &sd); err != nil {
		return StateDict{}, fmt.Errorf("parse state dict: %w", err)
	}
	return sd, nil
}

// #endregion parse
