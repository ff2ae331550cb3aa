package strategy

import (
	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// Uncertainty is least-confidence sampling: utility = 1 - max_c P(c|x). It needs a
// classifier.Probabilistic. Before the classifier's first successful fit every instance is
// maximally uncertain and scores 1.
type Uncertainty struct {
	base
}

// NewUncertainty returns a least-confidence strategy
func NewUncertainty(opts ...Option) *Uncertainty {
	return &Uncertainty{base: newBase(NameUncertainty, ClassifierDependent, 0, opts)}
}

// Score implements Strategy
func (u *Uncertainty) Score(x sample.Instance, clf classifier.Classifier) (float64, error) {
	if classifier.IsNil(clf) {
		return 0, errors.Unavailablef("strategy %s needs a classifier", u.name)
	}
	p, ok := clf.(classifier.Probabilistic)
	if !ok {
		return 0, errors.Unavailablef("strategy %s needs a probabilistic classifier, got %T", u.name, clf)
	}

	proba, err := p.PredictProba(x)
	if errors.Is(err, classifier.ErrNotFitted) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	var max float64
	for _, v := range proba {
		if v > max {
			max = v
		}
	}
	return 1 - max, nil
}

// Decide implements Strategy
func (u *Uncertainty) Decide(x sample.Instance, clf classifier.Classifier, bm budget.Manager) (Decision, error) {
	return u.decide(u, x, clf, bm)
}
