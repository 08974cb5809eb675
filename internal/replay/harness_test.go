package replay

import (
	"testing"

	"github.com/mbraddock/trainloop/internal/stopping"
)

func TestReplay_PlateauScenario(t *testing.T) {
	cfg := stopping.TrackerConfig{Patience: 3, MinDelta: 0}
	results, err := Replay(cfg, []float64{1.0, 0.9, 0.9, 0.9})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	wantCounters := []int{0, 1, 2, 3}
	for i, r := range results {
		if r.Call != i+1 {
			t.Fatalf("result %d has call %d", i, r.Call)
		}
		if r.Counter != wantCounters[i] {
			t.Fatalf("call %d: counter %d, want %d", r.Call, r.Counter, wantCounters[i])
		}
	}
	if results[3].Action != stopping.ActionStop {
		t.Fatalf("call 4 decided %s, want stop", results[3].Action)
	}

	s := Summarize(results)
	if s.TotalCalls != 4 || s.Continues != 3 || s.Stops != 1 || s.FirstStop != 4 {
		t.Fatalf("summary %+v", s)
	}
}

func TestReplay_RunsPastTheLimit(t *testing.T) {
	cfg := stopping.TrackerConfig{Patience: 2}
	results, err := Replay(cfg, []float64{1.0, 0.5, 0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	// Counter keeps climbing after the limit; every call at or past patience
	// is a stop decision.
	if results[4].Counter != 4 {
		t.Fatalf("final counter %d, want 4", results[4].Counter)
	}
	if Summarize(results).Stops != 3 {
		t.Fatalf("stops %d, want 3", Summarize(results).Stops)
	}
}

func TestReplay_RejectsInvalidConfig(t *testing.T) {
	if _, err := Replay(stopping.TrackerConfig{Patience: 0}, []float64{1.0}); err == nil {
		t.Fatal("invalid config accepted")
	}
}

func TestVerify_ReportsMismatches(t *testing.T) {
	f := &Fixture{
		Expected: []FixtureExpected{
			{Call: 1, Decision: "continue", Counter: 0},
			{Call: 2, Decision: "stop", Counter: 1},
			{Call: 9, Decision: "stop", Counter: 0},
		},
	}
	results := []Result{
		{Call: 1, Action: stopping.ActionContinue, Counter: 0},
		{Call: 2, Action: stopping.ActionContinue, Counter: 1},
	}

	mismatches := Verify(f, results)
	if len(mismatches) != 2 {
		t.Fatalf("got %d mismatches, want 2: %v", len(mismatches), mismatches)
	}
}
