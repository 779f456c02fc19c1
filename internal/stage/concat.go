package stage

import (
	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
)

// Concat presents several lists one after the other.
//
// Events from a part are shifted by the combined size of the parts before
// it, as implied by the events already forwarded. While active, sizes
// and positions follow those forwarded events too. A list must not appear
// more than once among the parts.
type Concat[T any] struct {
	list.Notifier
	parts []list.List[T]
	links links

	// sizes holds each part's size as of its last event.
	sizes []int
}

// NewConcat creates a Concat over parts.
func NewConcat[T any](parts ...list.List[T]) *Concat[T] {
	s := &Concat[T]{parts: parts, sizes: make([]int, len(parts))}
	s.links = make(links, len(parts))
	for i, p := range parts {
		s.links[i] = newLink(p, func(e change.Event) { s.forward(i, e) })
		s.links[i].onOpen = func() { s.sizes[i] = p.Size() }
	}
	s.SetActivation(s.links.open, s.links.close)
	return s
}

// Parts returns the number of parts.
func (s *Concat[T]) Parts() int {
	return len(s.parts)
}

// Size returns the sum of the part sizes.
func (s *Concat[T]) Size() int {
	total := 0
	for i := range s.parts {
		total += s.partSize(i)
	}
	return total
}

// Get returns the item at pos.
func (s *Concat[T]) Get(pos int) (T, error) {
	if pos >= 0 {
		rel := pos
		for i, p := range s.parts {
			n := s.partSize(i)
			if rel < n {
				return p.Get(rel)
			}
			rel -= n
		}
	}
	var zero T
	return zero, list.CheckIndex(pos, s.Size())
}

// Active reports whether the stage listens to its parts.
func (s *Concat[T]) Active() bool {
	return s.links.active()
}

// Dispose removes all listeners and releases the parts.
func (s *Concat[T]) Dispose() {
	s.ClearListeners()
	s.links.close()
}

func (s *Concat[T]) partSize(i int) int {
	if s.links[i].active {
		return s.sizes[i]
	}
	return s.parts[i].Size()
}

func (s *Concat[T]) forward(part int, e change.Event) {
	if e.Validate() != nil {
		e = change.Invalidated()
	}
	offset := 0
	for _, n := range s.sizes[:part] {
		offset += n
	}
	if e.Kind == change.KindInvalidated {
		s.sizes[part] = s.parts[part].Size()
	} else {
		s.sizes[part] += e.SizeDelta()
	}
	// Offsets are non-negative, so a valid event stays valid.
	_ = s.Notify(e.Offset(offset))
}

var _ Stage[int] = (*Concat[int])(nil)
