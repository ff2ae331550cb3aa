package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	humanize "github.com/dustin/go-humanize"
	"github.com/kiteco/streamal/cmdline"
	"github.com/kiteco/streamal/envutil"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/experiment"
	"github.com/kiteco/streamal/results"
	"github.com/kiteco/streamal/serialization"
	uuid "github.com/satori/go.uuid"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
	"go.uber.org/zap"
)

var runCmd = cmdline.Command{
	Name:     "run",
	Synopsis: "run an experiment config and store its results",
	Args:     &runArgs{},
}

type runArgs struct {
	Config  string `arg:"required" help:"experiment config (.yaml, .yml or .json, optionally .gz)"`
	DB      string `help:"sqlite db to append the runs to"`
	CSV     string `help:"file to write every step of every run to"`
	Summary string `help:"file to write the run summaries to (.json or .yaml, optionally .gz)"`
	Workers int    `help:"strategies run concurrently, overrides the config and $STREAMAL_WORKERS"`
}

func (a *runArgs) Validate() error {
	if a.Workers < 0 {
		return errors.Configurationf("workers must not be negative, got %d", a.Workers)
	}
	return nil
}

func (a *runArgs) Handle() (err error) {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var cfg experiment.Config
	if err := serialization.Decode(a.Config, &cfg); err != nil {
		return errors.Wrapf(err, "error reading config %s", a.Config)
	}
	if cfg.Budget.Rate, err = envutil.GetenvDefaultFloat("STREAMAL_RATE", cfg.Budget.Rate); err != nil {
		return err
	}
	switch {
	case a.Workers > 0:
		cfg.Workers = a.Workers
	case cfg.Workers == 0:
		if cfg.Workers, err = envutil.GetenvDefaultInt("STREAMAL_WORKERS", runtime.NumCPU()); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		select {
		case s := <-sig:
			logger.Warn("stopping after the current instance", zap.Stringer("signal", s))
			cancel()
		case <-ctx.Done():
		}
	}()

	res, runErr := experiment.NewRunner(logger).Run(ctx, cfg)
	var done []experiment.Result
	for _, r := range res {
		if r.Strategy != "" {
			done = append(done, r)
		}
	}
	printResults(cfg, done)

	if a.DB != "" {
		if err := storeResults(a.DB, cfg, done); err != nil {
			return errors.Combine(runErr, err)
		}
	}
	if a.CSV != "" {
		if err := writeSteps(a.CSV, done); err != nil {
			return errors.Combine(runErr, err)
		}
	}
	if a.Summary != "" {
		if err := serialization.Encode(a.Summary, done); err != nil {
			return errors.Combine(runErr, err)
		}
	}
	return runErr
}

func printResults(cfg experiment.Config, res []experiment.Result) {
	fmt.Printf("%s: %d strategies at rate %v\n", cfg.Name, len(res), cfg.Budget.Rate)
	for _, r := range res {
		fmt.Printf("  %-16s accuracy %5.1f%%  queried %s of %s (%.3f)  refit failures %s  in %v\n",
			r.Strategy, 100*r.Accuracy,
			humanize.Comma(int64(r.Queried)), humanize.Comma(int64(r.Seen)), r.QueryRate,
			humanize.Comma(int64(r.FitErrors)), r.Duration)
	}
}

func storeResults(path string, cfg experiment.Config, res []experiment.Result) (err error) {
	batch, err := uuid.NewV4()
	if err != nil {
		return err
	}
	store, err := results.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, store.Close)

	if err := store.Migrate(); err != nil {
		return err
	}

	var saveErr error
	err = tqdm.With(iterators.Interval(0, len(res)), "Saving runs", func(v interface{}) (brk bool) {
		r := res[v.(int)]
		run := results.Run{
			Batch:      batch.String(),
			Experiment: cfg.Name,
			Strategy:   r.Strategy,
			Seed:       r.Seed,
			Rate:       cfg.Budget.Rate,
			Seen:       r.Seen,
			Queried:    r.Queried,
			Fits:       r.Fits,
			FitErrors:  r.FitErrors,
			Accuracy:   r.Accuracy,
		}
		if _, saveErr = store.SaveRun(run, r.Steps); saveErr != nil {
			saveErr = errors.Wrapf(saveErr, "error saving run %s", r.Strategy)
			return true
		}
		return false
	})
	if err != nil {
		return err
	}
	if saveErr != nil {
		return saveErr
	}
	fmt.Printf("stored %d runs in %s as batch %s\n", len(res), path, batch)
	return nil
}

func writeSteps(path string, res []experiment.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, f.Close)

	for i, r := range res {
		if err := results.WriteStepsCSV(f, r.Strategy, r.Steps, i == 0); err != nil {
			return err
		}
	}
	return nil
}
