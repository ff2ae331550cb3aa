package strategy

import (
	"testing"

	"github.com/kiteco/streamal/budget"
	"github.com/kiteco/streamal/classifier"
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingManager answers a fixed value and counts its calls.
type recordingManager struct {
	answer    bool
	calls     int
	utilities []float64
}

func (m *recordingManager) IsBudgetLeft(u float64) (bool, error) {
	m.calls++
	m.utilities = append(m.utilities, u)
	return m.answer, nil
}

func (m *recordingManager) Update(bool) error { return nil }
func (m *recordingManager) Seen() int         { return 0 }
func (m *recordingManager) Queried() int      { return 0 }
func (m *recordingManager) Rate() float64     { return 1 }

// hardClassifier is a non-probabilistic classifier.
type hardClassifier struct{}

func (hardClassifier) Fit([]sample.Instance, []sample.Label) error { return nil }
func (hardClassifier) Predict(sample.Instance) (sample.Label, error) {
	return 0, nil
}

var x = sample.NewInstance(0.5)

func fitted(t *testing.T) classifier.Probabilistic {
	p, err := classifier.NewParzenWindow([]sample.Label{0, 1}, classifier.ParzenOptions{})
	require.NoError(t, err)
	require.NoError(t, p.Fit(
		[]sample.Instance{sample.NewInstance(0), sample.NewInstance(1)},
		[]sample.Label{0, 1},
	))
	return p
}

func TestUncertaintyWithoutClassifier(t *testing.T) {
	s := NewUncertainty()
	assert.Equal(t, ClassifierDependent, s.Kind())

	bm := &recordingManager{answer: true}
	_, err := s.Decide(x, nil, bm)
	assert.True(t, errors.Is(err, errors.ErrUnavailableCollaborator))
	assert.Equal(t, 0, bm.calls)

	_, err = s.Score(x, nil)
	assert.True(t, errors.Is(err, errors.ErrUnavailableCollaborator))
}

func TestUncertaintyTypedNilClassifier(t *testing.T) {
	var clf *classifier.ParzenWindow
	bm := &recordingManager{answer: true}
	_, err := NewUncertainty().Decide(x, clf, bm)
	assert.True(t, errors.Is(err, errors.ErrUnavailableCollaborator))
	assert.Equal(t, 0, bm.calls)

	_, err = NewUncertainty().Score(x, clf)
	assert.True(t, errors.Is(err, errors.ErrUnavailableCollaborator))
}

func TestUncertaintyNeedsProbabilistic(t *testing.T) {
	bm := &recordingManager{answer: true}
	_, err := NewUncertainty().Decide(x, hardClassifier{}, bm)
	assert.True(t, errors.Is(err, errors.ErrUnavailableCollaborator))
	assert.Equal(t, 0, bm.calls)
}

func TestUncertaintyScore(t *testing.T) {
	clf := fitted(t)
	s := NewUncertainty()

	// halfway between the two classes is the most uncertain point
	mid, err := s.Score(sample.NewInstance(0.5), clf)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mid, 1e-9)

	edge, err := s.Score(sample.NewInstance(-2), clf)
	require.NoError(t, err)
	assert.True(t, edge < mid)

	unfitted, err := classifier.NewParzenWindow([]sample.Label{0, 1}, classifier.ParzenOptions{})
	require.NoError(t, err)
	u, err := s.Score(x, unfitted)
	require.NoError(t, err)
	assert.Equal(t, 1.0, u)
}

func TestDecideCombinesBudgetAndUtility(t *testing.T) {
	clf := fitted(t)
	s := NewUncertainty(WithMinUtility(0.4))

	d, err := s.Decide(sample.NewInstance(0.5), clf, &recordingManager{answer: true})
	require.NoError(t, err)
	assert.True(t, d.Queried)
	assert.True(t, d.BudgetLeft)

	d, err = s.Decide(sample.NewInstance(0.5), clf, &recordingManager{answer: false})
	require.NoError(t, err)
	assert.False(t, d.Queried)
	assert.False(t, d.BudgetLeft)

	d, err = s.Decide(sample.NewInstance(-3), clf, &recordingManager{answer: true})
	require.NoError(t, err)
	assert.False(t, d.Queried, "utility %v below the minimum", d.Utility)
}

func TestRandomIsDeterministic(t *testing.T) {
	run := func(seed int64) []float64 {
		s := NewRandom(seed)
		bm := &recordingManager{answer: true}
		for i := 0; i < 20; i++ {
			_, err := s.Decide(x, nil, bm)
			require.NoError(t, err)
		}
		return bm.utilities
	}
	assert.Equal(t, run(3), run(3))
	assert.NotEqual(t, run(3), run(4))
	assert.Equal(t, ClassifierIndependent, NewRandom(0).Kind())
}

func TestPeriodic(t *testing.T) {
	s, err := NewPeriodic(3)
	require.NoError(t, err)
	assert.Equal(t, ClassifierIndependent, s.Kind())

	bm := &recordingManager{answer: true}
	var queried []bool
	for i := 0; i < 7; i++ {
		d, err := s.Decide(x, nil, bm)
		require.NoError(t, err)
		queried = append(queried, d.Queried)
	}
	assert.Equal(t, []bool{false, false, true, false, false, true, false}, queried)
	assert.Equal(t, 7, bm.calls)

	_, err = NewPeriodic(0)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestPeriodicWithGreedyBudget(t *testing.T) {
	s, err := NewPeriodic(1)
	require.NoError(t, err)
	bm, err := budget.NewGreedy(0.5)
	require.NoError(t, err)

	var queried int
	for i := 0; i < 10; i++ {
		d, err := s.Decide(x, nil, bm)
		require.NoError(t, err)
		require.NoError(t, bm.Update(d.Queried))
		if d.Queried {
			queried++
		}
	}
	assert.Equal(t, 5, queried)
}

func TestNew(t *testing.T) {
	s, err := New(NameRandom, 1, Options{})
	require.NoError(t, err)
	assert.Equal(t, NameRandom, s.Name())

	min := 0.5
	s, err = New(NamePeriodic, 0, Options{Period: 2, MinUtility: &min})
	require.NoError(t, err)
	assert.Equal(t, 0.5, s.(*Periodic).minUtility)

	s, err = New(NameUncertainty, 0, Options{})
	require.NoError(t, err)
	assert.Equal(t, ClassifierDependent, s.Kind())

	_, err = New(NamePeriodic, 0, Options{})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))

	_, err = New("margin", 0, Options{})
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}
