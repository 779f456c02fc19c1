package stage

import (
	"slices"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
)

// Filter presents the upstream items for which a predicate holds, in
// upstream order.
//
// While active, Filter keeps the predicate result of every upstream item
// and updates it from upstream events, evaluating the predicate only on
// inserted and changed items. While inactive it has no way to tell that
// the upstream changed, so it evaluates the predicate on each access: Size
// tests every upstream item and Get(pos) tests items until the pos-th
// match. Copying an inactive Filter item by item is quadratic in predicate
// calls; register a listener first when the predicate is expensive.
type Filter[T any] struct {
	list.Notifier
	upstream list.List[T]
	pred     func(T) bool
	link     *link

	keep  []bool
	index []int // upstream positions of kept items; nil when stale
	size  int   // own size after the last event sent
	batch change.Batch
}

// NewFilter creates a Filter over upstream.
func NewFilter[T any](upstream list.List[T], pred func(T) bool) *Filter[T] {
	s := &Filter[T]{upstream: upstream, pred: pred}
	s.link = newLink(upstream, s.forward)
	s.link.onOpen = s.rebuild
	s.SetActivation(s.link.open, s.link.close)
	return s
}

// Size returns the number of kept items.
func (s *Filter[T]) Size() int {
	if s.link.active {
		return s.size
	}
	n := 0
	for i := range s.upstream.Size() {
		if s.test(i) {
			n++
		}
	}
	return n
}

// Get returns the kept item at pos.
func (s *Filter[T]) Get(pos int) (T, error) {
	if !s.link.active {
		return s.scan(pos)
	}
	idx := s.positions()
	if err := list.CheckIndex(pos, min(len(idx), s.size)); err != nil {
		var zero T
		return zero, err
	}
	return s.upstream.Get(idx[pos])
}

// Active reports whether the stage listens to its upstream.
func (s *Filter[T]) Active() bool {
	return s.link.active
}

// Dispose removes all listeners and releases the upstream.
func (s *Filter[T]) Dispose() {
	s.ClearListeners()
	s.link.close()
	s.keep, s.index = nil, nil
}

// scan finds the kept item at pos without the cache.
func (s *Filter[T]) scan(pos int) (T, error) {
	if pos >= 0 {
		seen := 0
		for i := range s.upstream.Size() {
			v, err := s.upstream.Get(i)
			if err != nil || !s.pred(v) {
				continue
			}
			if seen == pos {
				return v, nil
			}
			seen++
		}
	}
	var zero T
	return zero, list.CheckIndex(pos, s.Size())
}

func (s *Filter[T]) positions() []int {
	if s.index == nil {
		s.index = make([]int, 0, len(s.keep))
		for i, k := range s.keep {
			if k {
				s.index = append(s.index, i)
			}
		}
	}
	return s.index
}

func (s *Filter[T]) rebuild() {
	n := s.upstream.Size()
	s.keep = make([]bool, n)
	for i := range n {
		s.keep[i] = s.test(i)
	}
	s.index = nil
	s.size = countKept(s.keep)
}

func (s *Filter[T]) test(pos int) bool {
	v, err := s.upstream.Get(pos)
	return err == nil && s.pred(v)
}

// rank returns the number of kept items before upstream position pos.
func (s *Filter[T]) rank(pos int) int {
	r := 0
	for _, k := range s.keep[:pos] {
		if k {
			r++
		}
	}
	return r
}

func countKept(keep []bool) int {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	return n
}

// emit dispatches e after applying it to the reported size.
func (s *Filter[T]) emit(e change.Event) {
	if e.Kind == change.KindInvalidated {
		s.size = countKept(s.keep)
	} else {
		s.size += e.SizeDelta()
	}
	// Translations of a valid upstream event are valid.
	_ = s.Notify(e)
}

func (s *Filter[T]) forward(e change.Event) {
	s.index = nil
	if e.Validate() != nil {
		s.resync()
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
		s.resync()
	}
}

func (s *Filter[T]) inserted(start, count int) {
	if start > len(s.keep) {
		s.resync()
		return
	}
	added := make([]bool, count)
	for i := range added {
		added[i] = s.test(start + i)
	}
	s.keep = slices.Insert(s.keep, start, added...)
	s.emit(change.Inserted(s.rank(start), countKept(added)))
}

func (s *Filter[T]) removed(start, count int) {
	if start+count > len(s.keep) {
		s.resync()
		return
	}
	r := s.rank(start)
	k := countKept(s.keep[start : start+count])
	s.keep = slices.Delete(s.keep, start, start+count)
	s.emit(change.Removed(r, k))
}

// changed re-tests each item. Kept items that still match are changed,
// items that start or stop matching are inserted or removed. Events are
// produced in ascending position and coalesced.
func (s *Filter[T]) changed(start, count int) {
	if start+count > len(s.keep) {
		s.resync()
		return
	}
	r := s.rank(start)
	for i := start; i < start+count; i++ {
		was, now := s.keep[i], s.test(i)
		s.keep[i] = now
		switch {
		case was && now:
			s.batch.Add(change.Changed(r, 1))
		case was:
			s.batch.Add(change.Removed(r, 1))
		case now:
			s.batch.Add(change.Inserted(r, 1))
		}
		if now {
			r++
		}
	}
	s.batch.Flush(s.emit)
}

func (s *Filter[T]) moved(from, to, count int) {
	if from+count > len(s.keep) || to+count > len(s.keep) {
		s.resync()
		return
	}
	rFrom := s.rank(from)
	span := slices.Clone(s.keep[from : from+count])
	s.keep = slices.Delete(s.keep, from, from+count)
	s.keep = slices.Insert(s.keep, to, span...)
	rTo := s.rank(to)
	if k := countKept(span); k > 0 && rFrom != rTo {
		s.emit(change.Moved(rFrom, rTo, k))
	}
}

// resync handles an event that does not fit the cached state.
func (s *Filter[T]) resync() {
	s.rebuild()
	s.emit(change.Invalidated())
}

var _ Stage[int] = (*Filter[int])(nil)
