// Package stream runs the stream-based active learning loop: for every arriving instance it
// predicts with the current classifier, lets the query strategy decide whether to buy the label,
// appends the instance to the training window (with its label or the missing sentinel), advances
// the budget and refits the classifier on the window.
package stream

import (
	"context"
	"time"

	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/logging"
	"github.com/kiteco/streamal/sample"
	"github.com/kiteco/streamal/strategy"
	"github.com/kiteco/streamal/window"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// Options wires the collaborators of an Orchestrator. All of them are owned by the orchestrator
// for the duration of a run and must not be shared with another run.
type Options struct {
	// Classifier may be nil when the strategy is classifier independent; the loop then makes no
	// predictions and no refits. A typed nil pointer is treated as nil.
	Classifier classifier.Classifier
	Strategy   strategy.Strategy
	Budget     budget.Manager
	Window     *window.Window
	Logger     *zap.Logger
}

// Step reports what happened to one instance.
type Step struct {
	Index         int
	Truth         sample.Label
	Prediction    sample.Label
	HasPrediction bool
	Correct       bool
	Decision      strategy.Decision
	WindowLen     int
	// FitErr is the recoverable refit failure of this step, if any.
	FitErr  error
	FitTime time.Duration
}

// Summary aggregates a run.
type Summary struct {
	Steps   []Step
	Seen    int
	Queried int
	Fits    int
	// Accuracy is the fraction of correct predictions among steps that had one.
	Accuracy float64
	// FitErrors collects every recoverable refit failure, nil if there was none.
	FitErrors error
}

// Observer is notified after every completed step
type Observer interface {
	Observe(Step)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Step)

// Observe implements Observer
func (f ObserverFunc) Observe(s Step) {
	f(s)
}

// Orchestrator drives one run. It is strictly sequential and not safe for concurrent use.
type Orchestrator struct {
	clf      classifier.Classifier
	strategy strategy.Strategy
	budget   budget.Manager
	window   *window.Window
	logger   *zap.Logger

	state   State
	index   int
	fits    int
	fitErrs errors.Errors
}

// New validates opts and returns an orchestrator waiting for its first instance
func New(opts Options) (*Orchestrator, error) {
	switch {
	case opts.Strategy == nil:
		return nil, errors.Configurationf("no query strategy given")
	case opts.Budget == nil:
		return nil, errors.Configurationf("no budget manager given")
	case opts.Window == nil:
		return nil, errors.Configurationf("no training window given")
	}
	if classifier.IsNil(opts.Classifier) {
		opts.Classifier = nil
	}
	if opts.Strategy.Kind() == strategy.ClassifierDependent && opts.Classifier == nil {
		return nil, errors.Unavailablef("strategy %s needs a classifier", opts.Strategy.Name())
	}
	return &Orchestrator{
		clf:      opts.Classifier,
		strategy: opts.Strategy,
		budget:   opts.Budget,
		window:   opts.Window,
		logger:   logging.OrNop(opts.Logger).With(zap.String("strategy", opts.Strategy.Name())),
		state:    AwaitingInstance,
	}, nil
}

// State returns the current state
func (o *Orchestrator) State() State {
	return o.state
}

// Window returns the training window
func (o *Orchestrator) Window() *window.Window {
	return o.window
}

// Fits is the number of refits attempted so far, including the one made by Seed
func (o *Orchestrator) Fits() int {
	return o.fits
}

// Seed pre-populates the window with labeled pairs and fits the initial classifier. It must be
// called before the first instance. A recoverable fit failure is logged and not returned.
func (o *Orchestrator) Seed(pairs []sample.Labeled) error {
	if o.state != AwaitingInstance || o.index != 0 {
		return errors.Statef("seed must happen before the first instance, orchestrator is %s after %d instances", o.state, o.index)
	}
	for _, p := range pairs {
		o.window.Append(p.X, p.Y)
	}
	if o.clf == nil {
		return nil
	}
	if _, err := o.refit(); err != nil {
		return o.halt(err)
	}
	return nil
}

// Step runs the full cycle for one instance whose true label is truth. The label is only
// revealed to the window if the strategy decides to query it.
func (o *Orchestrator) Step(x sample.Instance, truth sample.Label) (Step, error) {
	if o.state != AwaitingInstance {
		return Step{}, errors.Fatal(errors.Statef("cannot process an instance while %s", o.state))
	}
	st := Step{Index: o.index, Truth: truth, Prediction: sample.Missing}

	o.state = Scoring
	if o.clf != nil {
		pred, err := o.clf.Predict(x)
		switch {
		case err == nil:
			st.Prediction = pred
			st.HasPrediction = true
			st.Correct = pred == truth
		case errors.Is(err, classifier.ErrNotFitted):
		default:
			return Step{}, o.halt(errors.Wrapf(err, "predicting instance %d", o.index))
		}
	}

	o.state = Deciding
	d, err := o.strategy.Decide(x, o.clf, o.budget)
	if err != nil {
		return Step{}, o.halt(errors.Wrapf(err, "deciding instance %d", o.index))
	}
	st.Decision = d

	if d.Queried {
		o.state = LabelRevealed
		o.window.Append(x, truth)
	} else {
		o.state = LabelWithheld
		o.window.Append(x, sample.Missing)
	}

	o.state = Retraining
	if err := o.budget.Update(d.Queried); err != nil {
		return Step{}, o.halt(errors.Wrapf(err, "updating budget for instance %d", o.index))
	}
	if o.clf != nil {
		start := time.Now()
		fitErr, err := o.refit()
		if err != nil {
			return Step{}, o.halt(errors.Wrapf(err, "refitting after instance %d", o.index))
		}
		st.FitErr = fitErr
		st.FitTime = time.Since(start)
	}
	st.WindowLen = o.window.Len()

	o.logger.Debug("step",
		zap.Int("index", st.Index),
		zap.Bool("queried", d.Queried),
		zap.Float64("utility", d.Utility),
		zap.Bool("correct", st.Correct),
		zap.Int("window", st.WindowLen),
	)

	o.index++
	o.state = AwaitingInstance
	return st, nil
}

// Run processes src until it is exhausted, ctx is done or a fatal error occurs. ctx is only
// checked between instances. The summary covers the steps completed so far in every case. An
// orchestrator that is exhausted or halted returns a state error without reading from src.
func (o *Orchestrator) Run(ctx context.Context, src Source, obs Observer) (Summary, error) {
	var steps []Step
	for {
		if o.state.Terminal() {
			return o.summarize(steps), errors.Statef("cannot run an orchestrator that is %s", o.state)
		}
		if err := ctx.Err(); err != nil {
			return o.summarize(steps), err
		}
		pair, ok := src.Next()
		if !ok {
			o.state = Exhausted
			break
		}
		st, err := o.Step(pair.X, pair.Y)
		if err != nil {
			return o.summarize(steps), err
		}
		steps = append(steps, st)
		if obs != nil {
			obs.Observe(st)
		}
	}

	s := o.summarize(steps)
	o.logger.Info("stream exhausted",
		zap.Int("seen", s.Seen),
		zap.Int("queried", s.Queried),
		zap.Int("fits", s.Fits),
		zap.Float64("accuracy", s.Accuracy),
	)
	return s, nil
}

// refit retrains on the window. A recoverable failure is returned as fitErr, anything else as err.
func (o *Orchestrator) refit() (fitErr error, err error) {
	X, y := o.window.Split()
	o.fits++
	err = o.clf.Fit(X, y)
	switch {
	case err == nil:
		return nil, nil
	case errors.Is(err, errors.ErrRecoverableFit):
		o.logger.Warn("refit failed, keeping previous classifier",
			zap.Int("index", o.index),
			zap.Int("labeled", o.window.NumLabeled()),
			zap.Error(err),
		)
		o.fitErrs = errors.Append(o.fitErrs, err)
		return err, nil
	default:
		return nil, err
	}
}

func (o *Orchestrator) halt(err error) error {
	o.state = Halted
	err = errors.Fatal(err)
	o.logger.Error("stream halted", zap.Int("index", o.index), zap.Error(err))
	return err
}

func (o *Orchestrator) summarize(steps []Step) Summary {
	s := Summary{
		Steps:   steps,
		Seen:    o.budget.Seen(),
		Queried: o.budget.Queried(),
		Fits:    o.fits,
	}
	var correct []float64
	for _, st := range steps {
		if !st.HasPrediction {
			continue
		}
		if st.Correct {
			correct = append(correct, 1)
		} else {
			correct = append(correct, 0)
		}
	}
	if acc, err := stats.Mean(correct); err == nil {
		s.Accuracy = acc
	}
	if o.fitErrs != nil {
		s.FitErrors = o.fitErrs
	}
	return s
}
