package stream

import "github.com/kiteco/streamal/sample"

// Source produces a finite, non-restartable sequence of instances with their true labels.
// Next is called until it returns false; consuming a pair advances the source for good.
type Source interface {
	Next() (sample.Labeled, bool)
}

// SliceSource streams a fixed slice once.
type SliceSource struct {
	pairs []sample.Labeled
	pos   int
}

// NewSliceSource returns a source over pairs. The slice is not copied.
func NewSliceSource(pairs []sample.Labeled) *SliceSource {
	return &SliceSource{pairs: pairs}
}

// Next implements Source
func (s *SliceSource) Next() (sample.Labeled, bool) {
	if s.pos >= len(s.pairs) {
		return sample.Labeled{}, false
	}
	p := s.pairs[s.pos]
	s.pos++
	return p, true
}

// Remaining is the number of pairs not consumed yet
func (s *SliceSource) Remaining() int {
	return len(s.pairs) - s.pos
}

// FuncSource wraps a function that emits pairs as a Source
func FuncSource(f func() (sample.Labeled, bool)) Source {
	return funcSource(f)
}

type funcSource func() (sample.Labeled, bool)

func (f funcSource) Next() (sample.Labeled, bool) {
	return f()
}
