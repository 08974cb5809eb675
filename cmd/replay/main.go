package main

import (
	"flag"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/mbraddock/trainloop/internal/checkpoint"
	"github.com/mbraddock/trainloop/internal/decisionlog"
	"github.com/mbraddock/trainloop/internal/replay"
	"github.com/mbraddock/trainloop/internal/stopping"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to trainloop.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	runID := flag.String("run", "", "run ID to replay in DB mode (default: latest)")
	patience := flag.Int("patience", 5, "tracker patience for DB mode")
	minDelta := flag.Float64("min-delta", 0, "tracker min delta for DB mode")
	cumulative := flag.Bool("cumulative", false, "cumulative delta mode for DB mode")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --db path/to/trainloop.db [--run id] [--patience N] [--min-delta D] [--cumulative]")
		os.Exit(2)
	}

	var exitCode int
	if *fixturePath != "" {
		exitCode = runFixtureMode(*fixturePath)
	} else {
		exitCode = runDBMode(*dbPath, *runID, *patience, *minDelta, *cumulative)
	}
	os.Exit(exitCode)
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path string) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	results, err := replay.Replay(f.Config.ToTrackerConfig(), f.Scores)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	printResults(f.Description, results)

	mismatches := replay.Verify(f, results)
	if len(mismatches) > 0 {
		fmt.Println("\nFAIL:")
		for _, m := range mismatches {
			fmt.Printf("  %s\n", m)
		}
		return 1
	}
	fmt.Println("\nPASS: fixture expectations hold")
	return 0
}

// #endregion fixture-mode

// #region db-mode

// runDBMode re-feeds the scores recorded in a run's decision log through a
// fresh tracker and reports where the decisions diverge from what was
// logged, e.g. when replaying under a different patience.
func runDBMode(dbPath, runID string, patience int, minDelta float64, cumulative bool) int {
	store, err := checkpoint.NewStore(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer store.Close()

	if runID == "" {
		err = store.DB().QueryRow(
			`SELECT run_id FROM decision_log ORDER BY created_at DESC LIMIT 1`,
		).Scan(&runID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "find latest run: %v\n", err)
			return 2
		}
	}

	entries, err := decisionlog.ListDecisions(store.DB(), runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list decisions: %v\n", err)
		return 2
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "no decisions logged for run %s\n", runID)
		return 2
	}

	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = e.Score
	}

	cfg := stopping.TrackerConfig{Patience: patience, MinDelta: minDelta, CumulativeDelta: cumulative}
	results, err := replay.Replay(cfg, scores)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	printResults(fmt.Sprintf("run %s (%d decisions)", runID, len(entries)), results)

	divergences := 0
	for i, e := range entries {
		if string(results[i].Action) != e.Decision {
			divergences++
			fmt.Printf("epoch %d: replay decided %s, log has %s\n", e.Epoch, results[i].Action, e.Decision)
		}
	}
	if divergences > 0 {
		fmt.Printf("\n%d decision(s) diverge from the log\n", divergences)
		return 1
	}
	fmt.Println("\nreplay matches the logged decisions")
	return 0
}

// #endregion db-mode

// #region output

func printResults(header string, results []replay.Result) {
	fmt.Printf("Replaying: %s\n\n", header)
	fmt.Printf("%-5s %-10s %-10s %-10s %s\n", "call", "score", "best", "counter", "decision")
	for _, r := range results {
		fmt.Printf("%-5d %-10.4f %-10.4f %-10d %s\n", r.Call, r.Score, r.BestScore, r.Counter, r.Action)
	}

	s := replay.Summarize(results)
	fmt.Printf("\n%d calls: %d continue, %d stop", s.TotalCalls, s.Continues, s.Stops)
	if s.FirstStop > 0 {
		fmt.Printf(" (first stop at call %d)", s.FirstStop)
	}
	fmt.Println()
}

// #endregion output
