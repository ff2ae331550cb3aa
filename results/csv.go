package results

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/kiteco/streamal/stream"
)

type stepRecord struct {
	Strategy string `csv:"strategy"`
	StepRow
}

// WriteStepsCSV writes one row per step, tagged with the strategy that made the decisions. The
// header is only written when header is true so several strategies can share a file.
func WriteStepsCSV(w io.Writer, strategy string, steps []stream.Step, header bool) error {
	records := make([]stepRecord, 0, len(steps))
	for _, st := range steps {
		records = append(records, stepRecord{Strategy: strategy, StepRow: NewStepRow(0, st)})
	}
	if header {
		return gocsv.Marshal(&records, w)
	}
	return gocsv.MarshalWithoutHeaders(&records, w)
}
