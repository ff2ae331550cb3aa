package classifier

import (
	"math"

	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
	"gonum.org/v1/gonum/floats"
)

// LogisticOptions configures batch gradient descent for Logistic.
type LogisticOptions struct {
	LearningRate float64 // defaults to 0.5
	Iterations   int     // defaults to 200
	L2           float64 // ridge penalty on the coefficients
}

// Logistic is a binary logistic regression classifier over the labels 0 and 1.
type Logistic struct {
	opts  LogisticOptions
	model *logisticModel
}

// logisticModel represents a fitted binary logistic regression
type logisticModel struct {
	Bias  float64
	Coefs []float64
}

// evaluate returns the probability of x being class 1
func (m *logisticModel) evaluate(x []float64) float64 {
	return sigmoid(floats.Dot(x, m.Coefs) + m.Bias)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// NewLogistic returns an unfitted logistic regression
func NewLogistic(opts LogisticOptions) (*Logistic, error) {
	if opts.LearningRate == 0 {
		opts.LearningRate = 0.5
	}
	if opts.Iterations == 0 {
		opts.Iterations = 200
	}
	switch {
	case opts.LearningRate < 0:
		return nil, errors.Configurationf("learning rate must be positive, got %v", opts.LearningRate)
	case opts.Iterations < 0:
		return nil, errors.Configurationf("iterations must be positive, got %d", opts.Iterations)
	case opts.L2 < 0:
		return nil, errors.Configurationf("l2 penalty must not be negative, got %v", opts.L2)
	}
	return &Logistic{opts: opts}, nil
}

// Classes implements Probabilistic
func (l *Logistic) Classes() []sample.Label {
	return []sample.Label{0, 1}
}

// Fit implements Classifier
func (l *Logistic) Fit(X []sample.Instance, y []sample.Label) error {
	if err := checkLengths(X, y); err != nil {
		return err
	}

	var xs [][]float64
	var ys []float64
	var seen [2]bool
	for i, lab := range y {
		if lab.IsMissing() {
			continue
		}
		if lab != 0 && lab != 1 {
			return errors.Errorf("logistic regression is binary, got label %v", lab)
		}
		if len(xs) > 0 && X[i].Dim() != len(xs[0]) {
			return errors.Errorf("instance %d has %d features, expected %d", i, X[i].Dim(), len(xs[0]))
		}
		seen[lab] = true
		xs = append(xs, X[i].RawFeatures())
		ys = append(ys, float64(lab))
	}
	if !seen[0] || !seen[1] {
		return errors.RecoverableFitf("logistic regression needs both classes, window has %d labeled instances of one", len(xs))
	}

	dim := len(xs[0])
	m := &logisticModel{Coefs: make([]float64, dim)}
	grad := make([]float64, dim)
	n := float64(len(xs))
	for iter := 0; iter < l.opts.Iterations; iter++ {
		for i := range grad {
			grad[i] = 0
		}
		var gradBias float64
		for i, x := range xs {
			residual := m.evaluate(x) - ys[i]
			floats.AddScaled(grad, residual/n, x)
			gradBias += residual / n
		}
		floats.AddScaled(grad, l.opts.L2, m.Coefs)
		floats.AddScaled(m.Coefs, -l.opts.LearningRate, grad)
		m.Bias -= l.opts.LearningRate * gradBias
	}

	l.model = m
	return nil
}

// PredictProba implements Probabilistic
func (l *Logistic) PredictProba(x sample.Instance) ([]float64, error) {
	if l.model == nil {
		return nil, ErrNotFitted
	}
	if x.Dim() != len(l.model.Coefs) {
		return nil, errors.Errorf("instance has %d features, expected %d", x.Dim(), len(l.model.Coefs))
	}
	p := l.model.evaluate(x.RawFeatures())
	return []float64{1 - p, p}, nil
}

// Predict implements Classifier
func (l *Logistic) Predict(x sample.Instance) (sample.Label, error) {
	proba, err := l.PredictProba(x)
	if err != nil {
		return sample.Missing, err
	}
	return sample.Label(argmax(proba)), nil
}
