package window

import (
	"math/rand"
	"testing"

	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(pairs []sample.Labeled) []sample.Label {
	var out []sample.Label
	for _, p := range pairs {
		out = append(out, p.Y)
	}
	return out
}

func TestNewInvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		_, err := New(c)
		assert.True(t, errors.Is(err, errors.ErrConfiguration), "capacity %d", c)
	}
}

func TestEviction(t *testing.T) {
	w, err := New(3)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		w.Append(sample.NewInstance(float64(i)), sample.Label(i))
	}

	assert.Equal(t, 3, w.Len())
	assert.Equal(t, 3, w.Cap())
	assert.Equal(t, []sample.Label{2, 3, 4}, labels(w.Contents()))

	xs, ys := w.Split()
	require.Len(t, xs, 3)
	assert.Equal(t, 2.0, xs[0].At(0))
	assert.Equal(t, []sample.Label{2, 3, 4}, ys)
}

func TestNumLabeled(t *testing.T) {
	w, err := New(4)
	require.NoError(t, err)
	w.Append(sample.NewInstance(0), 1)
	w.Append(sample.NewInstance(1), sample.Missing)
	w.Append(sample.NewInstance(2), 0)
	assert.Equal(t, 2, w.NumLabeled())
}

// The window always holds the most recent min(n, capacity) appends in order.
func TestMostRecentInOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		capacity := 1 + rng.Intn(10)
		appends := rng.Intn(40)

		w, err := New(capacity)
		require.NoError(t, err)

		var all []sample.Label
		for i := 0; i < appends; i++ {
			l := sample.Label(rng.Intn(1000))
			all = append(all, l)
			w.Append(sample.NewInstance(float64(i)), l)
			require.True(t, w.Len() <= capacity)
		}

		want := all
		if len(want) > capacity {
			want = want[len(want)-capacity:]
		}
		assert.Equal(t, want, labels(w.Contents()), "capacity=%d appends=%d", capacity, appends)
	}
}
