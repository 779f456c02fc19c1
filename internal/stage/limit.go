package stage

import (
	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
)

// Limit exposes at most the first N items of its upstream.
//
// Event translation uses the upstream size implied by the events seen so
// far rather than the live one, so an upstream that reports one mutation
// as several events is followed step by step. While active, Size reports
// the size implied by the events sent so far, which is min(N, upstream
// size) after every event a listener receives.
type Limit[T any] struct {
	list.Notifier
	upstream list.List[T]
	limit    int
	link     *link

	// n is the upstream size after the last event received.
	n int
	// size is the own size after the last event sent.
	size int
}

// NewLimit creates a Limit over upstream. A negative limit is treated as 0.
func NewLimit[T any](upstream list.List[T], limit int) *Limit[T] {
	s := &Limit[T]{
		upstream: upstream,
		limit:    max(0, limit),
	}
	s.link = newLink(upstream, s.forward)
	s.link.onOpen = s.sync
	s.SetActivation(s.link.open, s.link.close)
	return s
}

// Limit returns the maximum size.
func (s *Limit[T]) Limit() int {
	return s.limit
}

// Size returns min(upstream.Size(), Limit()). While active it is the size
// as of the last event sent.
func (s *Limit[T]) Size() int {
	if s.link.active {
		return s.size
	}
	return min(s.upstream.Size(), s.limit)
}

// Get returns the item at pos.
func (s *Limit[T]) Get(pos int) (T, error) {
	if err := list.CheckIndex(pos, s.Size()); err != nil {
		var zero T
		return zero, err
	}
	return s.upstream.Get(pos)
}

// Active reports whether the stage listens to its upstream.
func (s *Limit[T]) Active() bool {
	return s.link.active
}

// Dispose removes all listeners and releases the upstream.
func (s *Limit[T]) Dispose() {
	s.ClearListeners()
	s.link.close()
}

func (s *Limit[T]) sync() {
	s.n = s.upstream.Size()
	s.size = min(s.n, s.limit)
}

// emit dispatches e after applying it to the reported size.
func (s *Limit[T]) emit(e change.Event) {
	if e.Kind == change.KindInvalidated {
		s.size = min(s.n, s.limit)
	} else {
		s.size += e.SizeDelta()
	}
	// Translations of a valid upstream event are valid.
	_ = s.Notify(e)
}

func (s *Limit[T]) forward(e change.Event) {
	if e.Validate() != nil {
		s.sync()
		s.emit(change.Invalidated())
		return
	}
	switch e.Kind {
	case change.KindChanged:
		s.changed(e.Start, e.Count)
	case change.KindInserted:
		s.inserted(e.Start, e.Count)
	case change.KindRemoved:
		s.removed(e.Start, e.Count)
	case change.KindMoved:
		s.moved(e.Start, e.To, e.Count)
	case change.KindInvalidated:
		s.n = s.upstream.Size()
		s.emit(e)
	}
}

func (s *Limit[T]) changed(start, count int) {
	if start >= s.limit {
		return
	}
	s.emit(change.Changed(start, min(count, s.limit-start)))
}

func (s *Limit[T]) inserted(start, count int) {
	pre := s.n
	s.n += count
	if start >= s.limit {
		return
	}
	if pre >= s.limit {
		// Full window: the visible tail now shows different items.
		s.emit(change.Changed(start, s.limit-start))
		return
	}

	insertCount := min(s.limit-start, count)
	if start <= pre {
		// Trailing items pushed past the limit leave first, so the view
		// never exceeds the limit between the two events.
		removeCount := insertCount - (s.limit - pre)
		if removeCount > 0 {
			s.emit(change.Removed(pre-removeCount, removeCount))
		}
	}
	s.emit(change.Inserted(start, insertCount))
}

func (s *Limit[T]) removed(start, count int) {
	pre := s.n
	s.n -= count
	post := s.n
	if start >= s.limit {
		return
	}
	if post >= s.limit {
		s.emit(change.Changed(start, s.limit-start))
		return
	}

	removeCount := min(s.limit-start, count)
	s.emit(change.Removed(start, removeCount))

	// Items hidden behind the limit before the removal are revealed at the
	// end of what is left.
	remaining := min(pre, s.limit) - removeCount
	if revealed := post - remaining; revealed > 0 {
		s.emit(change.Inserted(remaining, revealed))
	}
}

func (s *Limit[T]) moved(from, to, count int) {
	if from >= s.limit && to >= s.limit {
		return
	}
	if max(from+count, to+count) < s.limit {
		s.emit(change.Moved(from, to, count))
		return
	}
	// TODO: split a move across the limit into a removal and an insertion.
	s.emit(change.Invalidated())
}

var _ Stage[int] = (*Limit[int])(nil)
