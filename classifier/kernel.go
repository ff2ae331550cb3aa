package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// A Kernel represents a Mercer kernel function.
type Kernel interface {
	Evaluate(a, b []float64) float64
}

// RBFKernel implements the radial basis function exp(-Gamma * ||a-b||^2).
type RBFKernel struct {
	Gamma float64
}

// Evaluate returns the result of RBF(a, b). a and b must have the same length.
func (k RBFKernel) Evaluate(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return math.Exp(-k.Gamma * d * d)
}
