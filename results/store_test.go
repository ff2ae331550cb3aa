package results

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
	"github.com/kiteco/streamal/strategy"
	"github.com/kiteco/streamal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	// migrating twice is fine
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

var steps = []stream.Step{
	{
		Index:      0,
		Truth:      1,
		Prediction: sample.Missing,
		Decision:   strategy.Decision{Queried: true, Utility: 1, BudgetLeft: true},
		WindowLen:  1,
		FitErr:     errors.RecoverableFitf("single class"),
	},
	{
		Index:         1,
		Truth:         0,
		Prediction:    0,
		HasPrediction: true,
		Correct:       true,
		Decision:      strategy.Decision{Utility: 0.25},
		WindowLen:     2,
	},
}

func TestSaveRun(t *testing.T) {
	s := openStore(t)

	run := Run{
		Batch:      "b1",
		Experiment: "blobs",
		Strategy:   "uncertainty",
		Seed:       42,
		Rate:       0.5,
		Seen:       2,
		Queried:    1,
		Fits:       3,
		FitErrors:  1,
		Accuracy:   1,
	}
	id, err := s.SaveRun(run, steps)
	require.NoError(t, err)

	second, err := s.SaveRun(Run{Experiment: "blobs", Strategy: "random", Rate: 0.5}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, id, second)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
	got.ID, got.CreatedAt = 0, time.Time{}
	assert.Equal(t, run, got)
	assert.Equal(t, "random", runs[1].Strategy)

	rows, err := s.Steps(id)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, NewStepRow(id, steps[0]), rows[0])
	assert.Equal(t, NewStepRow(id, steps[1]), rows[1])
	assert.Equal(t, -1, rows[0].Prediction)
	assert.Contains(t, rows[0].FitError, "single class")

	rows, err = s.Steps(second)
	require.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestSaveRunRollsBack(t *testing.T) {
	s := openStore(t)

	dup := []stream.Step{steps[0], steps[0]}
	_, err := s.SaveRun(Run{Experiment: "blobs", Strategy: "random"}, dup)
	require.Error(t, err)

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 0)
}

func TestWriteStepsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStepsCSV(&buf, "random", steps, true))
	require.NoError(t, WriteStepsCSV(&buf, "periodic", steps[:1], false))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "strategy,index,truth,prediction"))
	assert.True(t, strings.HasPrefix(lines[1], "random,0,1,-1"))
	assert.True(t, strings.HasPrefix(lines[3], "periodic,0,1,-1"))
}
