package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstanceIsImmutable(t *testing.T) {
	src := []float64{1, 2}
	x := NewInstance(src...)
	src[0] = 9
	assert.Equal(t, 1.0, x.At(0))

	f := x.Features()
	f[1] = 9
	assert.Equal(t, 2.0, x.At(1))
	assert.Equal(t, 2, x.Dim())
}

func TestLabel(t *testing.T) {
	assert.True(t, Missing.IsMissing())
	assert.False(t, Label(0).IsMissing())
	assert.Equal(t, "missing", Missing.String())
	assert.Equal(t, "3", Label(3).String())
}

func TestUnzip(t *testing.T) {
	a, b := NewInstance(1), NewInstance(2)
	xs, ys := Unzip([]Labeled{{a, 0}, {b, Missing}})
	assert.True(t, xs[0].Equal(a))
	assert.True(t, xs[1].Equal(b))
	assert.Equal(t, []Label{0, Missing}, ys)
}
