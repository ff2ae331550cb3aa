package strategy

import (
	"math/rand"

	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/sample"
)

// Random draws every utility uniformly from [0, 1) and ignores the classifier. With the default
// minimum utility of 0 the budget manager alone decides.
type Random struct {
	base
	rng *rand.Rand
}

// NewRandom returns a random strategy whose draws are fully determined by seed
func NewRandom(seed int64, opts ...Option) *Random {
	return &Random{
		base: newBase(NameRandom, ClassifierIndependent, 0, opts),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Score implements Strategy. Each call advances the random sequence.
func (r *Random) Score(x sample.Instance, clf classifier.Classifier) (float64, error) {
	return r.rng.Float64(), nil
}

// Decide implements Strategy
func (r *Random) Decide(x sample.Instance, clf classifier.Classifier, bm budget.Manager) (Decision, error) {
	return r.decide(r, x, clf, bm)
}
