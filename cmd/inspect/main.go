package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/mbraddock/trainloop/internal/checkpoint"
	"github.com/mbraddock/trainloop/internal/decisionlog"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to trainloop.db")
	last := flag.Int("last", 20, "show N most recent checkpoints")
	runID := flag.String("run", "", "show decision log for one run")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/trainloop.db [--last N] [--run id] [--json]")
		os.Exit(2)
	}

	store, err := checkpoint.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *runID != "" {
		if err := runDecisionMode(store, *runID, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runListMode(store, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	VersionID string   `json:"version_id"`
	RunID     string   `json:"run_id"`
	Epoch     int      `json:"epoch"`
	Counter   int      `json:"counter"`
	BestScore *float64 `json:"best_score,omitempty"`
	Active    bool     `json:"active"`
}

func runListMode(store *checkpoint.Store, last int, jsonOut bool) error {
	records, err := store.ListVersions(last)
	if err != nil {
		return err
	}

	activeID := ""
	if cur, err := store.GetCurrent(); err == nil {
		activeID = cur.VersionID
	}

	rows := make([]listRow, len(records))
	for i, rec := range records {
		rows[i] = listRow{
			VersionID: rec.VersionID,
			RunID:     rec.RunID,
			Epoch:     rec.Epoch,
			Counter:   rec.Counter,
			BestScore: rec.BestScore,
			Active:    rec.VersionID == activeID,
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Printf("%-36s %-8s %-7s %-10s %s\n", "version", "epoch", "counter", "best", "active")
	for _, row := range rows {
		best := "-"
		if row.BestScore != nil {
			best = fmt.Sprintf("%.4f", *row.BestScore)
		}
		active := ""
		if row.Active {
			active = "*"
		}
		fmt.Printf("%-36s %-8d %-7d %-10s %s\n", row.VersionID, row.Epoch, row.Counter, best, active)
	}
	return nil
}

// #endregion list-mode

// #region decision-mode

func runDecisionMode(store *checkpoint.Store, runID string, jsonOut bool) error {
	entries, err := decisionlog.ListDecisions(store.DB(), runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no decisions logged for run %s", runID)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	fmt.Printf("%-7s %-10s %-10s %-8s %-9s %s\n", "epoch", "score", "best", "counter", "decision", "reason")
	for _, e := range entries {
		fmt.Printf("%-7d %-10.4f %-10.4f %-8d %-9s %s\n",
			e.Epoch, e.Score, e.BestScore, e.Counter, e.Decision, e.Reason)
	}
	return nil
}

// #endregion decision-mode
