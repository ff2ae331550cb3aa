// Package classifier provides the classifiers refit by the stream loop after every step.
//
// A Classifier is always retrained from scratch on the whole training window. Labels equal to
// sample.Missing mark unqueried instances and are ignored by the fitting code; a window that
// holds fewer than all classes is valid input. When a window is too degenerate to fit, Fit
// returns an error matching errors.ErrRecoverableFit and the previously fitted state stays in use.
package classifier

import (
	"reflect"

	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// ErrNotFitted is returned by predictions made before the first successful Fit.
var ErrNotFitted = errors.New("classifier has not been fitted")

// Classifier is the collaborator refit on the training window.
type Classifier interface {
	// Fit retrains on the given window contents. X and y have the same length.
	Fit(X []sample.Instance, y []sample.Label) error
	// Predict returns the predicted label of x.
	Predict(x sample.Instance) (sample.Label, error)
}

// Probabilistic is a Classifier that exposes class posteriors.
type Probabilistic interface {
	Classifier
	// Classes is the fixed label set, in the order used by PredictProba.
	Classes() []sample.Label
	// PredictProba returns one probability per class, summing to 1.
	PredictProba(x sample.Instance) ([]float64, error)
}

// IsNil reports whether c is nil or holds a nil pointer, such as (*ParzenWindow)(nil).
func IsNil(c Classifier) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Kind names a classifier in configuration files.
type Kind string

const (
	// KindParzen selects the Parzen window classifier.
	KindParzen Kind = "parzen"
	// KindLogistic selects binary logistic regression.
	KindLogistic Kind = "logistic"
)

// Options holds the parameters of every classifier; each ignores the fields it does not use.
type Options struct {
	Gamma        float64 `yaml:"gamma" json:"gamma"`
	Prior        float64 `yaml:"prior" json:"prior"`
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
	Iterations   int     `yaml:"iterations" json:"iterations"`
	L2           float64 `yaml:"l2" json:"l2"`
	// CacheSize > 0 wraps the classifier in a prediction cache of that many entries.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// New constructs the classifier named by kind over the given label set
func New(kind Kind, classes []sample.Label, opts Options) (Probabilistic, error) {
	var clf Probabilistic
	var err error
	switch kind {
	case KindParzen, "":
		clf, err = NewParzenWindow(classes, ParzenOptions{
			Kernel: RBFKernel{Gamma: opts.Gamma},
			Prior:  opts.Prior,
		})
	case KindLogistic:
		clf, err = NewLogistic(LogisticOptions{
			LearningRate: opts.LearningRate,
			Iterations:   opts.Iterations,
			L2:           opts.L2,
		})
	default:
		return nil, errors.Configurationf("unknown classifier %q", kind)
	}
	if err != nil {
		return nil, err
	}
	if opts.CacheSize > 0 {
		return NewCached(clf, opts.CacheSize)
	}
	return clf, nil
}

// argmax returns the index of the first largest value
func argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func checkLengths(X []sample.Instance, y []sample.Label) error {
	if len(X) != len(y) {
		return errors.Errorf("got %d instances but %d labels", len(X), len(y))
	}
	return nil
}
