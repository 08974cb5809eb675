package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"math"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"

	"github.com/mbraddock/trainloop/internal/checkpoint"
	"github.com/mbraddock/trainloop/internal/config"
	"github.com/mbraddock/trainloop/internal/decisionlog"
	"github.com/mbraddock/trainloop/internal/history"
	"github.com/mbraddock/trainloop/internal/loop"
	"github.com/mbraddock/trainloop/internal/run"
	"github.com/mbraddock/trainloop/internal/score"
	"github.com/mbraddock/trainloop/internal/stopping"
)

// #region main
func main() {
	configPath := flag.String("config", "", "path to YAML run config (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	store, err := checkpoint.NewStore(cfg.Storage.DBPath)
	if err != nil {
		stdlog.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	hist, err := history.NewHistory(store.DB())
	if err != nil {
		stdlog.Fatalf("failed to init history: %v", err)
	}

	trainer := run.New()
	fmt.Printf("Training run %s\n", trainer.ID)
	fmt.Printf("  DB: %s | monitor: %s (%s) | patience: %d\n",
		cfg.Storage.DBPath, cfg.Stopping.Monitor, cfg.Stopping.Mode, cfg.Stopping.Patience)

	scoreFn, err := score.ForMonitor(cfg.Stopping.Monitor, cfg.Stopping.Mode)
	if err != nil {
		stdlog.Fatalf("build score func: %v", err)
	}

	tracker, err := stopping.EarlyStopping(stopping.EarlyStoppingConfig{
		Patience:        cfg.Stopping.Patience,
		MinDelta:        cfg.Stopping.MinDelta,
		CumulativeDelta: cfg.Stopping.CumulativeDelta,
		Score:           scoreFn,
		Trainer:         trainer,
		Logger:          log.New(os.Stderr),
	})
	if err != nil {
		stdlog.Fatalf("build early stopping: %v", err)
	}

	l, err := loop.New(trainer, syntheticEpoch(cfg.Run.Seed), cfg.Run.MaxEpochs)
	if err != nil {
		stdlog.Fatalf("build loop: %v", err)
	}

	lastVersion := ""
	l.OnEpochCompleted(func(r *run.Run) error {
		d, err := tracker.Observe(r)
		if err != nil {
			return err
		}

		if err := hist.RecordEpoch(r.ID, r.Epoch, r.Metrics); err != nil {
			stdlog.Printf("[TRAIN] history error: %v", err)
		}

		rec := checkpoint.NewRecord(r.ID, r.Epoch, tracker.StateDict(), r.Metrics, lastVersion)
		if err := store.Save(rec); err != nil {
			stdlog.Printf("[TRAIN] checkpoint error: %v", err)
		} else {
			lastVersion = rec.VersionID
		}

		err = decisionlog.LogDecision(store.DB(), decisionlog.Entry{
			RunID:     r.ID,
			Epoch:     r.Epoch,
			Score:     d.Score,
			BestScore: d.BestScore,
			Counter:   d.Counter,
			Decision:  string(d.Action),
			Reason:    d.Reason,
		})
		if err != nil {
			stdlog.Printf("[TRAIN] decision log error: %v", err)
		}

		fmt.Printf("[epoch %2d] %s=%.4f score=%.4f best=%.4f counter=%d/%d decision=%s\n",
			r.Epoch, cfg.Stopping.Monitor, r.Metrics[cfg.Stopping.Monitor],
			d.Score, d.BestScore, d.Counter, cfg.Stopping.Patience, d.Action)
		return nil
	})

	summary, err := l.Run()
	if err != nil {
		stdlog.Fatalf("training loop: %v", err)
	}

	fmt.Printf("\nRun finished: %d epochs, terminated=%v\n", summary.EpochsRun, summary.Terminated)
	if epoch, value, err := hist.BestEpoch(trainer.ID, cfg.Stopping.Monitor, cfg.Stopping.Mode); err == nil && epoch > 0 {
		fmt.Printf("Best %s: %.4f at epoch %d\n", cfg.Stopping.Monitor, value, epoch)
	}
}

// #endregion main

// #region synthetic
// syntheticEpoch simulates a validation loss curve that improves quickly,
// then plateaus, so the early stopping path is exercised on every demo run.
func syntheticEpoch(seed int64) loop.EpochFunc {
	rng := rand.New(rand.NewSource(seed))
	return func(r *run.Run) (map[string]float64, error) {
		base := 0.08 + 0.9*math.Exp(-0.35*float64(r.Epoch))
		noise := (rng.Float64() - 0.5) * 0.004
		loss := base + noise
		return map[string]float64{
			"val_loss": loss,
			"accuracy": 1 - loss,
		}, nil
	}
}

// #endregion synthetic
