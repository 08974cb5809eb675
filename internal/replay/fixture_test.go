package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const plateauFixture = `{
  "description": "patience 3 plateau stops on the fourth call",
  "config": {"patience": 3, "min_delta": 0, "cumulative_delta": false},
  "scores": [1.0, 0.9, 0.9, 0.9],
  "expected": [
    {"call": 1, "decision": "continue", "counter": 0, "best_score": 1.0},
    {"call": 2, "decision": "continue", "counter": 1},
    {"call": 3, "decision": "continue", "counter": 2},
    {"call": 4, "decision": "stop", "counter": 3, "best_score": 1.0}
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, plateauFixture))
	require.NoError(t, err)

	require.Equal(t, 3, f.Config.Patience)
	require.Len(t, f.Scores, 4)
	require.Len(t, f.Expected, 4)
	require.Equal(t, "stop", f.Expected[3].Decision)
}

func TestLoadFixture_Errors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = LoadFixture(writeFixture(t, "{not json"))
	require.Error(t, err)
}

func TestFixture_EndToEnd(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, plateauFixture))
	require.NoError(t, err)

	results, err := Replay(f.Config.ToTrackerConfig(), f.Scores)
	require.NoError(t, err)

	require.Empty(t, Verify(f, results))
}
