// Package window implements the bounded training window of the stream loop: a fixed-capacity
// ring of (instance, label) pairs where appending past capacity evicts the oldest entry.
package window

import (
	"github.com/kiteco/streamal/errors"
	"github.com/kiteco/streamal/sample"
)

// Window is a fixed-capacity FIFO of labeled instances. It is not safe for concurrent use.
type Window struct {
	buf   []sample.Labeled
	start int // index of the oldest entry
	n     int
}

// New returns an empty window holding at most capacity entries
func New(capacity int) (*Window, error) {
	if capacity < 1 {
		return nil, errors.Configurationf("window capacity must be at least 1, got %d", capacity)
	}
	return &Window{buf: make([]sample.Labeled, capacity)}, nil
}

// Append adds (x, y) at the end, evicting the oldest entry if the window is full
func (w *Window) Append(x sample.Instance, y sample.Label) {
	end := (w.start + w.n) % len(w.buf)
	w.buf[end] = sample.Labeled{X: x, Y: y}
	if w.n < len(w.buf) {
		w.n++
		return
	}
	w.start = (w.start + 1) % len(w.buf)
}

// Contents returns the entries oldest first
func (w *Window) Contents() []sample.Labeled {
	out := make([]sample.Labeled, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}

// Split returns Contents as parallel feature and label sequences
func (w *Window) Split() ([]sample.Instance, []sample.Label) {
	return sample.Unzip(w.Contents())
}

// Len is the number of entries currently held
func (w *Window) Len() int {
	return w.n
}

// Cap is the capacity given to New
func (w *Window) Cap() int {
	return len(w.buf)
}

// NumLabeled counts entries whose label is not missing
func (w *Window) NumLabeled() int {
	var count int
	for i := 0; i < w.n; i++ {
		if !w.buf[(w.start+i)%len(w.buf)].Y.IsMissing() {
			count++
		}
	}
	return count
}
