package stage

import (
	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
)

// Map presents every upstream item passed through a function.
// Positions are unchanged, so upstream events are forwarded as is.
// The function runs on every Get and should be cheap and pure.
type Map[In, Out any] struct {
	list.Notifier
	upstream list.List[In]
	fn       func(In) Out
	link     *link
}

// NewMap creates a Map over upstream.
func NewMap[In, Out any](upstream list.List[In], fn func(In) Out) *Map[In, Out] {
	s := &Map[In, Out]{upstream: upstream, fn: fn}
	s.link = newLink(upstream, s.forward)
	s.SetActivation(s.link.open, s.link.close)
	return s
}

// Size returns the upstream size.
func (s *Map[In, Out]) Size() int {
	return s.upstream.Size()
}

// Get returns the mapped item at pos.
func (s *Map[In, Out]) Get(pos int) (Out, error) {
	v, err := s.upstream.Get(pos)
	if err != nil {
		var zero Out
		return zero, err
	}
	return s.fn(v), nil
}

// Active reports whether the stage listens to its upstream.
func (s *Map[In, Out]) Active() bool {
	return s.link.active
}

// Dispose removes all listeners and releases the upstream.
func (s *Map[In, Out]) Dispose() {
	s.ClearListeners()
	s.link.close()
}

func (s *Map[In, Out]) forward(e change.Event) {
	if s.Notify(e) != nil {
		s.NotifyInvalidated()
	}
}

var _ Stage[string] = (*Map[int, string])(nil)
