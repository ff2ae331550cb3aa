package budget

// ratioSlack absorbs floating point error in the ratio comparison.
const ratioSlack = 1e-9

// Greedy is the reference policy: a query is accepted iff the spend ratio after taking it,
// (queried+1)/(seen+1), stays at or below the target rate. The utility is ignored.
type Greedy struct {
	counter
}

// NewGreedy returns a greedy manager for the given rate in (0, 1]
func NewGreedy(rate float64) (*Greedy, error) {
	if err := checkRate(rate); err != nil {
		return nil, err
	}
	return &Greedy{counter{rate: rate}}, nil
}

// IsBudgetLeft implements Manager
func (g *Greedy) IsBudgetLeft(utility float64) (bool, error) {
	ok := float64(g.queried+1)/float64(g.seen+1) <= g.rate+ratioSlack
	g.open(ok)
	return ok, nil
}

// Update implements Manager
func (g *Greedy) Update(queried bool) error {
	return g.commit(queried)
}
