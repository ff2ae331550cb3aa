package classifier

import (
	"encoding/binary"
	"math"

	"github.com/dgryski/go-spooky"
	lru "github.com/hashicorp/golang-lru"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// Cached memoizes PredictProba of a Probabilistic classifier between fits. Every successful Fit
// purges the cache; a failed Fit keeps it, since the wrapped state is unchanged.
type Cached struct {
	Probabilistic
	cache *lru.Cache

	hits   int
	misses int
}

type cachedProba struct {
	x     sample.Instance
	proba []float64
}

// NewCached wraps p with an LRU cache holding up to size predictions
func NewCached(p Probabilistic, size int) (*Cached, error) {
	if size < 1 {
		return nil, errors.Configurationf("cache size must be at least 1, got %d", size)
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cached{Probabilistic: p, cache: cache}, nil
}

// Fit implements Classifier
func (c *Cached) Fit(X []sample.Instance, y []sample.Label) error {
	if err := c.Probabilistic.Fit(X, y); err != nil {
		return err
	}
	c.cache.Purge()
	return nil
}

// PredictProba implements Probabilistic
func (c *Cached) PredictProba(x sample.Instance) ([]float64, error) {
	key := hashInstance(x)
	if v, ok := c.cache.Get(key); ok {
		if e := v.(cachedProba); e.x.Equal(x) {
			c.hits++
			return append([]float64(nil), e.proba...), nil
		}
	}
	c.misses++

	proba, err := c.Probabilistic.PredictProba(x)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, cachedProba{x: x, proba: append([]float64(nil), proba...)})
	return proba, nil
}

// Predict implements Classifier
func (c *Cached) Predict(x sample.Instance) (sample.Label, error) {
	proba, err := c.PredictProba(x)
	if err != nil {
		return sample.Missing, err
	}
	return c.Classes()[argmax(proba)], nil
}

// Stats returns the number of cache hits and misses so far
func (c *Cached) Stats() (hits, misses int) {
	return c.hits, c.misses
}

func hashInstance(x sample.Instance) uint64 {
	buf := make([]byte, 8*x.Dim())
	for i, f := range x.RawFeatures() {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(f))
	}
	return spooky.Hash64(buf)
}
