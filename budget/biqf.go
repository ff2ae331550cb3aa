package budget

import (
	"math"

	"github.com/kiteco/streamal/errors"
	"github.com/montanaflynn/stats"
)

const (
	defaultW    = 100
	defaultWTol = 50
)

// BIQF is the balanced incremental quantile filter. It keeps the last W utilities and accepts a
// utility above the (1-rate) quantile of that history; the threshold is lowered while fewer
// labels than rate*seen have been acquired and raised while more have been, at a speed set by
// WTol.
type BIQF struct {
	counter
	w    int
	wTol float64

	// history holds the utilities of finalized instances, oldest first, at most w of them.
	history        []float64
	pendingUtility float64
}

// NewBIQF returns a BIQF manager. Zero values in opts select W=100 and WTol=50; negative
// values are rejected.
func NewBIQF(rate float64, opts Options) (*BIQF, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	w, wTol := opts.W, opts.WTol
	if w == 0 {
		w = defaultW
	}
	if wTol == 0 {
		wTol = defaultWTol
	}
	if w < 1 {
		return nil, errors.Configurationf("biqf history length w must be at least 1, got %d", w)
	}
	if !(wTol > 0) {
		return nil, errors.Configurationf("biqf tolerance w_tol must be positive, got %v", wTol)
	}
	return &BIQF{
		counter: counter{rate: rate},
		w:       w,
		wTol:    wTol,
		history: make([]float64, 0, w),
	}, nil
}

// IsBudgetLeft implements Manager
func (b *BIQF) IsBudgetLeft(utility float64) (bool, error) {
	if math.IsNaN(utility) {
		return false, errors.Statef("utility for instance %d is NaN", b.seen+1)
	}

	hist := b.withUtility(utility)
	theta := quantile(hist, 1-b.rate)
	lo, _ := stats.Min(hist)
	hi, _ := stats.Max(hist)

	acqLeft := b.rate*float64(b.seen+1) - float64(b.queried)
	var ok bool
	if hi == lo {
		// all utilities tie, so the threshold cannot rank them: spend only what the rate allows
		ok = acqLeft > ratioSlack
	} else {
		thetaBal := theta - (hi-lo)*(acqLeft/b.wTol)
		ok = utility >= thetaBal
	}
	b.open(ok)
	b.pendingUtility = utility
	return ok, nil
}

// Update implements Manager
func (b *BIQF) Update(queried bool) error {
	if err := b.commit(queried); err != nil {
		return err
	}
	b.history = b.withUtility(b.pendingUtility)
	return nil
}

// withUtility returns a fresh slice holding the last w utilities once u is added.
func (b *BIQF) withUtility(u float64) []float64 {
	hist := make([]float64, 0, b.w)
	drop := len(b.history) + 1 - b.w
	if drop < 0 {
		drop = 0
	}
	hist = append(hist, b.history[drop:]...)
	return append(hist, u)
}

// quantile returns the q-quantile of data, falling back to the minimum when the rank falls below
// the first element.
func quantile(data []float64, q float64) float64 {
	if q > 0 {
		if p, err := stats.Percentile(data, q*100); err == nil {
			return p
		}
	}
	lo, _ := stats.Min(data)
	return lo
}
