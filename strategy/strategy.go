// Package strategy contains the query strategies of the stream loop. A strategy scores an
// instance and combines that utility with the budget manager's answer into the final query
// decision.
package strategy

import (
	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// Kind tells whether a strategy reads the classifier. It is fixed at construction.
type Kind int

const (
	// ClassifierIndependent strategies accept a nil classifier.
	ClassifierIndependent Kind = iota
	// ClassifierDependent strategies fail with errors.ErrUnavailableCollaborator on a nil classifier.
	ClassifierDependent
)

func (k Kind) String() string {
	if k == ClassifierDependent {
		return "classifier-dependent"
	}
	return "classifier-independent"
}

// Decision is the outcome of Decide for one instance.
type Decision struct {
	Queried    bool
	Utility    float64
	BudgetLeft bool
}

// Strategy scores instances and decides whether to query their labels.
type Strategy interface {
	Name() string
	Kind() Kind
	// Score returns the utility of labeling x. It does not modify clf.
	Score(x sample.Instance, clf classifier.Classifier) (float64, error)
	// Decide scores x, consults bm exactly once and returns the combined decision. A nil clf,
	// including a typed nil pointer, counts as no classifier.
	Decide(x sample.Instance, clf classifier.Classifier, bm budget.Manager) (Decision, error)
}

// Names of the strategies understood by New.
const (
	NameRandom      = "random"
	NamePeriodic    = "periodic"
	NameUncertainty = "uncertainty"
)

// Options configures New; each strategy ignores the fields it does not use.
type Options struct {
	// Period is the query period of the periodic strategy.
	Period int `yaml:"period" json:"period"`
	// MinUtility overrides the strategy's default minimum utility for a query.
	MinUtility *float64 `yaml:"min_utility" json:"min_utility"`
}

// New constructs the strategy with the given name; seed is used by randomized strategies only
func New(name string, seed int64, opts Options) (Strategy, error) {
	var extra []Option
	if opts.MinUtility != nil {
		extra = append(extra, WithMinUtility(*opts.MinUtility))
	}
	switch name {
	case NameRandom:
		return NewRandom(seed, extra...), nil
	case NamePeriodic:
		return NewPeriodic(opts.Period, extra...)
	case NameUncertainty:
		return NewUncertainty(extra...), nil
	default:
		return nil, errors.Configurationf("unknown query strategy %q", name)
	}
}

// Option customizes a strategy
type Option func(*base)

// WithMinUtility only queries instances whose utility is at least u
func WithMinUtility(u float64) Option {
	return func(b *base) {
		b.minUtility = u
	}
}

// base holds what every strategy shares.
type base struct {
	name       string
	kind       Kind
	minUtility float64
}

func newBase(name string, kind Kind, minUtility float64, opts []Option) base {
	b := base{name: name, kind: kind, minUtility: minUtility}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Name implements Strategy
func (b base) Name() string {
	return b.name
}

// Kind implements Strategy
func (b base) Kind() Kind {
	return b.kind
}

type scorer interface {
	Score(x sample.Instance, clf classifier.Classifier) (float64, error)
}

// decide is the shared Decide: utility first, then exactly one budget call.
func (b base) decide(s scorer, x sample.Instance, clf classifier.Classifier, bm budget.Manager) (Decision, error) {
	if b.kind == ClassifierDependent && classifier.IsNil(clf) {
		return Decision{}, errors.Unavailablef("strategy %s needs a classifier", b.name)
	}
	utility, err := s.Score(x, clf)
	if err != nil {
		return Decision{}, err
	}
	ok, err := bm.IsBudgetLeft(utility)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Queried:    ok && utility >= b.minUtility,
		Utility:    utility,
		BudgetLeft: ok,
	}, nil
}
