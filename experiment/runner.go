// Package experiment runs several query strategies over the same labeled stream and collects
// their results. Each strategy gets its own classifier, window, budget manager and random
// sequence, so runs are independent and can execute concurrently.
package experiment

import (
	"context"
	"time"

	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/dataset"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/logging"
	"github.com/kiteco/streamal/sample"
	"github.com/kiteco/streamal/strategy"
	"github.com/kiteco/streamal/stream"
	"github.com/kiteco/streamal/window"
	"github.com/kiteco/streamal/workerpool"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// Result is the outcome of one strategy.
type Result struct {
	Strategy  string        `json:"strategy"`
	Seed      int64         `json:"seed"`
	Seen      int           `json:"seen"`
	Queried   int           `json:"queried"`
	QueryRate float64       `json:"query_rate"`
	Accuracy  float64       `json:"accuracy"`
	Fits      int           `json:"fits"`
	FitErrors int           `json:"fit_errors"`
	Duration  time.Duration `json:"duration"`

	CacheHits   int `json:"cache_hits,omitempty"`
	CacheMisses int `json:"cache_misses,omitempty"`

	Steps []stream.Step `json:"-"`
}

// Runner executes experiments.
type Runner struct {
	logger *zap.Logger
}

// NewRunner returns a runner logging to l, which may be nil
func NewRunner(l *zap.Logger) *Runner {
	return &Runner{logger: logging.OrNop(l)}
}

// Run validates cfg, loads its dataset once and streams it through every configured strategy.
// Results are returned in configuration order. If some runs fail, the results of the others are
// still returned along with the combined errors.
func (r *Runner) Run(ctx context.Context, cfg Config) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger.With(zap.String("experiment", cfg.Name))

	var timings logging.Durations
	start := time.Now()
	data, err := cfg.Dataset.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "error loading dataset")
	}
	seed, rest, err := dataset.Split(data, cfg.SeedSize)
	if err != nil {
		return nil, err
	}
	classes := dataset.Classes(data)
	if len(classes) == 0 {
		return nil, errors.Configurationf("dataset has no labeled instances")
	}
	timings.Since("load", start)
	logger.Info("dataset loaded",
		zap.Int("seed", len(seed)),
		zap.Int("stream", len(rest)),
		zap.Int("classes", len(classes)),
	)

	results := make([]Result, len(cfg.Strategies))
	jobs := make([]workerpool.Job, 0, len(cfg.Strategies))
	for i, sc := range cfg.Strategies {
		i, sc := i, sc
		jobs = append(jobs, func() error {
			res, err := r.runOne(ctx, cfg, sc, classes, seed, rest, logger)
			if err != nil {
				return errors.WrapfOrNil(err, "strategy %s", sc.Key())
			}
			results[i] = res
			return nil
		})
	}

	pool := workerpool.New(cfg.Workers)
	pool.Add(jobs)
	err = pool.Wait()

	var accuracies []float64
	for _, res := range results {
		if res.Strategy != "" {
			timings.Record(res.Strategy, res.Duration)
			accuracies = append(accuracies, res.Accuracy)
		}
	}
	timings.Flush(logger, "experiment timings")
	if mean, merr := stats.Mean(accuracies); merr == nil {
		best, _ := stats.Max(accuracies)
		logger.Info("experiment finished",
			zap.Int("runs", len(accuracies)),
			zap.Float64("mean_accuracy", mean),
			zap.Float64("max_accuracy", best),
		)
	}
	return results, err
}

func (r *Runner) runOne(ctx context.Context, cfg Config, sc StrategyConfig, classes []sample.Label,
	seed, rest []sample.Labeled, logger *zap.Logger) (Result, error) {

	start := time.Now()
	runSeed := DeriveSeed(cfg.Seed, sc.Key())
	logger = logger.With(zap.String("run", sc.Key()))

	bm, err := budget.New(cfg.Budget.Kind, cfg.Budget.Rate, cfg.Budget.Options)
	if err != nil {
		return Result{}, err
	}
	w, err := window.New(cfg.Window)
	if err != nil {
		return Result{}, err
	}
	strat, err := strategy.New(sc.Name, runSeed, sc.Options)
	if err != nil {
		return Result{}, err
	}
	clf, err := classifier.New(cfg.Classifier.Kind, classes, cfg.Classifier.Options)
	if err != nil {
		return Result{}, err
	}

	o, err := stream.New(stream.Options{
		Classifier: clf,
		Strategy:   strat,
		Budget:     bm,
		Window:     w,
		Logger:     logger,
	})
	if err != nil {
		return Result{}, err
	}
	if err := o.Seed(seed); err != nil {
		return Result{}, err
	}
	sum, err := o.Run(ctx, stream.NewSliceSource(rest), nil)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Strategy:  sc.Key(),
		Seed:      runSeed,
		Seen:      sum.Seen,
		Queried:   sum.Queried,
		Accuracy:  sum.Accuracy,
		Fits:      sum.Fits,
		FitErrors: errors.Count(sum.FitErrors),
		Duration:  time.Since(start),
		Steps:     sum.Steps,
	}
	if sum.Seen > 0 {
		res.QueryRate = float64(sum.Queried) / float64(sum.Seen)
	}
	if cached, ok := clf.(*classifier.Cached); ok {
		res.CacheHits, res.CacheMisses = cached.Stats()
	}
	return res, nil
}
