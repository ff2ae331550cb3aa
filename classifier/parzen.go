package classifier

import (
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// ParzenOptions configures a ParzenWindow.
type ParzenOptions struct {
	// Kernel defaults to RBFKernel{Gamma: 1}.
	Kernel Kernel
	// Prior is added to every class frequency before normalizing.
	Prior float64
}

// ParzenWindow is a Parzen window classifier: the frequency estimate of class c at x is the sum
// of kernel similarities between x and the labeled instances of class c.
type ParzenWindow struct {
	classes []sample.Label
	index   map[sample.Label]int
	kernel  Kernel
	prior   float64

	state *parzenState
}

type parzenState struct {
	dim     int
	support [][]float64
	class   []int
}

// NewParzenWindow returns an unfitted classifier over the given label set
func NewParzenWindow(classes []sample.Label, opts ParzenOptions) (*ParzenWindow, error) {
	if len(classes) == 0 {
		return nil, errors.Configurationf("parzen window needs at least one class")
	}
	if opts.Prior < 0 {
		return nil, errors.Configurationf("parzen window prior must not be negative, got %v", opts.Prior)
	}
	index := make(map[sample.Label]int, len(classes))
	for i, c := range classes {
		if c.IsMissing() {
			return nil, errors.Configurationf("the missing label cannot be a class")
		}
		if _, dup := index[c]; dup {
			return nil, errors.Configurationf("duplicate class %v", c)
		}
		index[c] = i
	}
	kernel := opts.Kernel
	if k, ok := kernel.(RBFKernel); kernel == nil || (ok && k.Gamma == 0) {
		kernel = RBFKernel{Gamma: 1}
	}
	return &ParzenWindow{
		classes: append([]sample.Label(nil), classes...),
		index:   index,
		kernel:  kernel,
		prior:   opts.Prior,
	}, nil
}

// Classes implements Probabilistic
func (p *ParzenWindow) Classes() []sample.Label {
	return append([]sample.Label(nil), p.classes...)
}

// Fit implements Classifier
func (p *ParzenWindow) Fit(X []sample.Instance, y []sample.Label) error {
	if err := checkLengths(X, y); err != nil {
		return err
	}

	next := &parzenState{dim: -1}
	for i, l := range y {
		if l.IsMissing() {
			continue
		}
		c, ok := p.index[l]
		if !ok {
			return errors.Errorf("label %v is not one of the classes %v", l, p.classes)
		}
		if next.dim == -1 {
			next.dim = X[i].Dim()
		} else if X[i].Dim() != next.dim {
			return errors.Errorf("instance %d has %d features, expected %d", i, X[i].Dim(), next.dim)
		}
		next.support = append(next.support, X[i].RawFeatures())
		next.class = append(next.class, c)
	}
	if len(next.support) == 0 {
		return errors.RecoverableFitf("no labeled instances among %d in the window", len(X))
	}

	p.state = next
	return nil
}

// PredictFreq returns the kernel frequency estimate of every class at x
func (p *ParzenWindow) PredictFreq(x sample.Instance) ([]float64, error) {
	if p.state == nil {
		return nil, ErrNotFitted
	}
	if x.Dim() != p.state.dim {
		return nil, errors.Errorf("instance has %d features, expected %d", x.Dim(), p.state.dim)
	}
	freq := make([]float64, len(p.classes))
	features := x.RawFeatures()
	for i, s := range p.state.support {
		freq[p.state.class[i]] += p.kernel.Evaluate(s, features)
	}
	return freq, nil
}

// PredictProba implements Probabilistic. A point far from every labeled instance gets the
// uniform distribution.
func (p *ParzenWindow) PredictProba(x sample.Instance) ([]float64, error) {
	freq, err := p.PredictFreq(x)
	if err != nil {
		return nil, err
	}
	var total float64
	for i := range freq {
		freq[i] += p.prior
		total += freq[i]
	}
	for i := range freq {
		if total > 0 {
			freq[i] /= total
		} else {
			freq[i] = 1 / float64(len(freq))
		}
	}
	return freq, nil
}

// Predict implements Classifier
func (p *ParzenWindow) Predict(x sample.Instance) (sample.Label, error) {
	proba, err := p.PredictProba(x)
	if err != nil {
		return sample.Missing, err
	}
	return p.classes[argmax(proba)], nil
}
