package history

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// #region schema

const epochMetricsSchema = `
CREATE TABLE IF NOT EXISTS epoch_metrics (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id        TEXT NOT NULL,
    epoch         INTEGER NOT NULL,
    name          TEXT NOT NULL,
    value         REAL NOT NULL,
    created_at    TEXT NOT NULL
);
`

const epochMetricsIndex = `
CREATE INDEX IF NOT EXISTS idx_epoch_metrics_lookup
ON epoch_metrics(run_id, name, epoch);
`

// #endregion

// #region history-struct

// History persists per-epoch metric values in SQLite and answers
// best-epoch and series queries over them.
type History struct {
	db *sql.DB
}

// NewHistory initializes the epoch_metrics table and returns a History.
func NewHistory(db *sql.DB) (*History, error) {
	if _, err := db.Exec(epochMetricsSchema); err != nil {
		return nil, err
	}
	if _, err := db.Exec(epochMetricsIndex); err != nil {
		return nil, err
	}
	return &History{db: db}, nil
}

// #endregion

// #region record-epoch

// RecordEpoch persists one row per metric for the given epoch.
func (h *History) RecordEpoch(runID string, epoch int, metrics map[string]float64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for name, value := range metrics {
		_, err := h.db.Exec(`
			INSERT INTO epoch_metrics (run_id, epoch, name, value, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			runID, epoch, name, value, now,
		)
		if err != nil {
			return fmt.Errorf("record epoch metric %s: %w", name, err)
		}
	}
	return nil
}

// #endregion

// #region best-epoch

// BestEpoch returns the epoch with the best value for a metric in the given
// mode ("min" or "max"). Returns (0, 0, nil) if no rows exist.
func (h *History) BestEpoch(runID, metric, mode string) (int, float64, error) {
	if mode != "min" && mode != "max" {
		return 0, 0, fmt.Errorf("best epoch: unknown mode %q", mode)
	}

	rows, err := h.db.Query(`
		SELECT epoch, value FROM epoch_metrics
		WHERE run_id = ? AND name = ?`,
		runID, metric,
	)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	bestEpoch := 0
	bestValue := math.Inf(1)
	if mode == "max" {
		bestValue = math.Inf(-1)
	}
	found := false

	for rows.Next() {
		var epoch int
		var value float64
		if err := rows.Scan(&epoch, &value); err != nil {
			return 0, 0, err
		}
		better := value < bestValue
		if mode == "max" {
			better = value > bestValue
		}
		if better {
			bestValue = value
			bestEpoch = epoch
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, nil
	}
	return bestEpoch, bestValue, nil
}

// #endregion

// #region series

// MetricSeries returns a metric's values in epoch order.
func (h *History) MetricSeries(runID, metric string) ([]float64, error) {
	rows, err := h.db.Query(`
		SELECT value FROM epoch_metrics
		WHERE run_id = ? AND name = ? ORDER BY epoch ASC`,
		runID, metric,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// #endregion
