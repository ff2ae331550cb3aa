// Package budget decides whether a label query is affordable under a target labeling rate.
//
// Every Manager follows the same protocol for each instance of the stream: IsBudgetLeft may be
// called any number of times while the decision is being made (it never advances the counters),
// then Update is called exactly once with the final decision.
package budget

import (
	"github.com/kiteco/streamal/errors"
)

// Manager tracks instances seen and labels queried against a target rate.
type Manager interface {
	// IsBudgetLeft reports whether one more query is permitted for the current instance.
	IsBudgetLeft(utility float64) (bool, error)
	// Update finalizes the current instance.
	Update(queried bool) error
	// Seen is the number of finalized instances.
	Seen() int
	// Queried is the number of finalized instances that were queried.
	Queried() int
	// Rate is the target fraction of instances to query.
	Rate() float64
}

// Kind names a budget policy in configuration files.
type Kind string

const (
	// KindGreedy selects the greedy ratio policy.
	KindGreedy Kind = "greedy"
	// KindBIQF selects the balanced incremental quantile filter.
	KindBIQF Kind = "biqf"
)

// Options holds the parameters of every policy; policies ignore the fields they do not use.
type Options struct {
	// W is the BIQF utility history length.
	W int `yaml:"w" json:"w"`
	// WTol is the BIQF tolerance window controlling how fast the threshold is rebalanced.
	WTol float64 `yaml:"w_tol" json:"w_tol"`
}

// New constructs the policy named by kind
func New(kind Kind, rate float64, opts Options) (Manager, error) {
	switch kind {
	case KindGreedy, "":
		return NewGreedy(rate)
	case KindBIQF:
		return NewBIQF(rate, opts)
	default:
		return nil, errors.Configurationf("unknown budget manager %q", kind)
	}
}

func checkRate(rate float64) error {
	// also rejects NaN
	if !(rate > 0 && rate <= 1) {
		return errors.Configurationf("budget rate must be in (0, 1], got %v", rate)
	}
	return nil
}

// counter implements the shared per-instance protocol.
type counter struct {
	rate    float64
	seen    int
	queried int

	pending   bool
	pendingOK bool
}

// open records the answer of the latest IsBudgetLeft for the current instance.
func (c *counter) open(ok bool) {
	c.pending = true
	c.pendingOK = ok
}

// commit advances the counters for the current instance.
func (c *counter) commit(queried bool) error {
	if !c.pending {
		return errors.Statef("update called without a budget decision for instance %d", c.seen+1)
	}
	if queried && !c.pendingOK {
		return errors.Statef("instance %d queried although no budget was left", c.seen+1)
	}
	c.pending = false
	c.seen++
	if queried {
		c.queried++
	}
	return nil
}

// Seen implements Manager
func (c *counter) Seen() int {
	return c.seen
}

// Queried implements Manager
func (c *counter) Queried() int {
	return c.queried
}

// Rate implements Manager
func (c *counter) Rate() float64 {
	return c.rate
}
