package main

import (
	"fmt"
	"os"
	"strconv"

	humanize "github.com/dustin/go-humanize"
	"github.com/kiteco/streamal/cmdline"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/results"
	"github.com/olekukonko/tablewriter"
)

var reportCmd = cmdline.Command{
	Name:     "report",
	Synopsis: "list the runs stored in a results db",
	Args:     &reportArgs{},
}

type reportArgs struct {
	DB    string `arg:"required" help:"sqlite results db written by run"`
	Steps int64  `help:"also list the steps of this run id"`
}

func (a *reportArgs) Handle() (err error) {
	if _, err := os.Stat(a.DB); err != nil {
		return err
	}
	store, err := results.OpenSQLite(a.DB)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, store.Close)

	runs, err := store.Runs()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"id", "batch", "experiment", "strategy", "rate", "queried", "seen", "accuracy", "fit errors", "created"})
	for _, r := range runs {
		table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			shortBatch(r.Batch),
			r.Experiment,
			r.Strategy,
			strconv.FormatFloat(r.Rate, 'g', -1, 64),
			humanize.Comma(int64(r.Queried)),
			humanize.Comma(int64(r.Seen)),
			fmt.Sprintf("%.1f%%", 100*r.Accuracy),
			humanize.Comma(int64(r.FitErrors)),
			humanize.Time(r.CreatedAt),
		})
	}
	table.Render()

	if a.Steps == 0 {
		return nil
	}
	steps, err := store.Steps(a.Steps)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun %d: %s steps\n", a.Steps, humanize.Comma(int64(len(steps))))
	table = tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"index", "truth", "prediction", "queried", "utility", "window", "fit error"})
	for _, s := range steps {
		prediction := "-"
		if s.HasPrediction {
			prediction = strconv.Itoa(s.Prediction)
		}
		table.Append([]string{
			strconv.Itoa(s.Index),
			strconv.Itoa(s.Truth),
			prediction,
			strconv.FormatBool(s.Queried),
			strconv.FormatFloat(s.Utility, 'f', 4, 64),
			strconv.Itoa(s.WindowLen),
			s.FitError,
		})
	}
	table.Render()
	return nil
}

// shortBatch keeps the first group of a batch uuid
func shortBatch(b string) string {
	if len(b) > 8 {
		return b[:8]
	}
	return b
}
