package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/mbraddock/trainloop/internal/checkpoint"
	"github.com/mbraddock/trainloop/internal/decisionlog"
	"github.com/mbraddock/trainloop/internal/replay"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to trainloop.db")
	outPath := flag.String("out", "", "output fixture JSON path")
	runID := flag.String("run", "", "run ID to export (default: latest)")
	patience := flag.Int("patience", 5, "patience to record in the fixture config")
	minDelta := flag.Float64("min-delta", 0, "min delta to record in the fixture config")
	cumulative := flag.Bool("cumulative", false, "cumulative delta flag for the fixture config")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--run id] [--patience N] [--min-delta D] [--cumulative]")
		os.Exit(2)
	}

	if err := export(*dbPath, *outPath, *runID, *patience, *minDelta, *cumulative); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

// export turns a run's decision log into a replay fixture: the scores become
// the input sequence and the logged decisions become the expectations.
func export(dbPath, outPath, runID string, patience int, minDelta float64, cumulative bool) error {
	store, err := checkpoint.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	if runID == "" {
		err = store.DB().QueryRow(
			`SELECT run_id FROM decision_log ORDER BY created_at DESC LIMIT 1`,
		).Scan(&runID)
		if err != nil {
			return fmt.Errorf("find latest run: %w", err)
		}
	}

	entries, err := decisionlog.ListDecisions(store.DB(), runID)
	if err != nil {
		return fmt.Errorf("list decisions: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no decisions logged for run %s", runID)
	}

	fixture := replay.Fixture{
		Description: fmt.Sprintf("exported from run %s", runID),
		Config: replay.FixtureConfig{
			Patience:        patience,
			MinDelta:        minDelta,
			CumulativeDelta: cumulative,
		},
	}
	for i, e := range entries {
		fixture.Scores = append(fixture.Scores, e.Score)
		best := e.BestScore
		fixture.Expected = append(fixture.Expected, replay.FixtureExpected{
			Call:      i + 1,
			Decision:  e.Decision,
			Counter:   e.Counter,
			BestScore: &best,
		})
	}

	data, err := json.MarshalIndent(fixture, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(outPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	fmt.Printf("exported %d calls from run %s to %s\n", len(entries), runID, outPath)
	return nil
}

// #endregion export
