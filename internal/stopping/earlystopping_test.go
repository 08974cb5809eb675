package stopping

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mbraddock/trainloop/internal/run"
)

func TestEarlyStopping_TerminatesTrainerAtLimit(t *testing.T) {
	trainer := run.New()
	var buf bytes.Buffer

	es, err := EarlyStopping(EarlyStoppingConfig{
		Patience: 2,
		Score:    seqScore(t, []float64{1.0, 0.8, 0.8}),
		Trainer:  trainer,
		Logger:   log.New(&buf),
	})
	if err != nil {
		t.Fatalf("EarlyStopping: %v", err)
	}

	e := run.New()
	for i := 0; i < 2; i++ {
		if _, err := es.Observe(e); err != nil {
			t.Fatalf("Observe %d: %v", i+1, err)
		}
		if trainer.Terminated() {
			t.Fatalf("terminated after call %d, before patience exhausted", i+1)
		}
	}

	d, err := es.Observe(e)
	if err != nil {
		t.Fatalf("Observe 3: %v", err)
	}
	if d.Action != ActionStop {
		t.Fatalf("third call decided %s, want stop", d.Action)
	}
	if !trainer.Terminated() {
		t.Fatal("trainer not terminated at patience limit")
	}
	if !strings.Contains(buf.String(), "early stopping") {
		t.Fatalf("no stop message logged, got %q", buf.String())
	}
}

func TestEarlyStopping_InheritsValidation(t *testing.T) {
	_, err := EarlyStopping(EarlyStoppingConfig{
		Patience: 0,
		Score:    func(*run.Run) (float64, error) { return 0, nil },
		Trainer:  run.New(),
	})
	if !errors.Is(err, ErrPatience) {
		t.Fatalf("got %v, want ErrPatience", err)
	}

	_, err = EarlyStopping(EarlyStoppingConfig{
		Patience: 1,
		Score:    func(*run.Run) (float64, error) { return 0, nil },
		Trainer:  nil,
	})
	if !errors.Is(err, ErrNilTarget) {
		t.Fatalf("got %v, want ErrNilTarget", err)
	}
}
