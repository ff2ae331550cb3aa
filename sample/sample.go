// Package sample defines the instances and labels that flow through the stream loop.
package sample

import "fmt"

// Label is a class label. Real labels are non-negative.
type Label int

// Missing marks an instance whose true label was not queried.
const Missing Label = -1

// IsMissing reports whether l is the missing sentinel
func (l Label) IsMissing() bool {
	return l == Missing
}

// String implements fmt.Stringer
func (l Label) String() string {
	if l.IsMissing() {
		return "missing"
	}
	return fmt.Sprintf("%d", int(l))
}

// Instance is an immutable feature vector.
type Instance struct {
	features []float64
}

// NewInstance copies features into a new Instance
func NewInstance(features ...float64) Instance {
	return Instance{features: append([]float64(nil), features...)}
}

// Dim is the number of features
func (x Instance) Dim() int {
	return len(x.features)
}

// At returns the i-th feature
func (x Instance) At(i int) float64 {
	return x.features[i]
}

// Features returns a copy of the feature vector
func (x Instance) Features() []float64 {
	return append([]float64(nil), x.features...)
}

// RawFeatures returns the backing slice without copying. Callers must not modify it.
func (x Instance) RawFeatures() []float64 {
	return x.features
}

// Equal reports whether both instances have identical features
func (x Instance) Equal(o Instance) bool {
	if len(x.features) != len(o.features) {
		return false
	}
	for i := range x.features {
		if x.features[i] != o.features[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer
func (x Instance) String() string {
	return fmt.Sprint(x.features)
}

// Labeled pairs an instance with its label, which may be Missing.
type Labeled struct {
	X Instance
	Y Label
}

// Unzip splits pairs into parallel feature and label sequences
func Unzip(pairs []Labeled) ([]Instance, []Label) {
	xs := make([]Instance, len(pairs))
	ys := make([]Label, len(pairs))
	for i, p := range pairs {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}
