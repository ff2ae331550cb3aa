package strategy

import (
	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// Periodic gives utility 1 to every period-th instance and 0 to the others, so by default it
// queries every period-th instance the budget allows.
type Periodic struct {
	base
	period int
	// decided counts the instances Decide has returned a decision for
	decided int
}

// NewPeriodic returns a periodic strategy; period must be at least 1
func NewPeriodic(period int, opts ...Option) (*Periodic, error) {
	if period < 1 {
		return nil, errors.Configurationf("period must be at least 1, got %d", period)
	}
	return &Periodic{
		base:   newBase(NamePeriodic, ClassifierIndependent, 1, opts),
		period: period,
	}, nil
}

// Score implements Strategy. The utility refers to the next instance to be decided.
func (p *Periodic) Score(x sample.Instance, clf classifier.Classifier) (float64, error) {
	if (p.decided+1)%p.period == 0 {
		return 1, nil
	}
	return 0, nil
}

// Decide implements Strategy
func (p *Periodic) Decide(x sample.Instance, clf classifier.Classifier, bm budget.Manager) (Decision, error) {
	d, err := p.decide(p, x, clf, bm)
	if err != nil {
		return Decision{}, err
	}
	p.decided++
	return d, nil
}
