package list

import (
	"fmt"
	"slices"
)

// Slice is a mutable observable list backed by a Go slice.
//
// Every mutation validates its arguments, updates the storage and then
// dispatches one event. Mutations that affect no items dispatch nothing.
type Slice[T any] struct {
	Notifier
	items []T
}

// NewSlice creates a Slice holding a copy of items.
func NewSlice[T any](items ...T) *Slice[T] {
	return &Slice[T]{items: slices.Clone(items)}
}

// Size returns the number of items.
func (s *Slice[T]) Size() int {
	return len(s.items)
}

// Get returns the item at pos.
func (s *Slice[T]) Get(pos int) (T, error) {
	if err := CheckIndex(pos, len(s.items)); err != nil {
		var zero T
		return zero, err
	}
	return s.items[pos], nil
}

// Items returns a copy of the content.
func (s *Slice[T]) Items() []T {
	return slices.Clone(s.items)
}

// Insert inserts items so the first one ends up at start.
// start may equal Size to append.
func (s *Slice[T]) Insert(start int, items ...T) error {
	if start < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidArgument, start)
	}
	if start > len(s.items) {
		return &IndexError{Index: start, Size: len(s.items) + 1}
	}
	if len(items) == 0 {
		return nil
	}
	s.items = slices.Insert(s.items, start, items...)
	return s.NotifyInserted(start, len(items))
}

// Append adds items at the end.
func (s *Slice[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	start := len(s.items)
	s.items = append(s.items, items...)
	_ = s.NotifyInserted(start, len(items))
}

// Remove removes count items starting at start.
func (s *Slice[T]) Remove(start, count int) error {
	if err := s.checkSpan(start, count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	s.items = slices.Delete(s.items, start, start+count)
	return s.NotifyRemoved(start, count)
}

// Set replaces the items starting at start. It cannot grow the list.
func (s *Slice[T]) Set(start int, items ...T) error {
	if err := s.checkSpan(start, len(items)); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	copy(s.items[start:], items)
	return s.NotifyChanged(start, len(items))
}

// Move relocates count items starting at from so that they start at to
// afterwards. Both spans must fit in the list.
func (s *Slice[T]) Move(from, to, count int) error {
	if err := s.checkSpan(from, count); err != nil {
		return err
	}
	if err := s.checkSpan(to, count); err != nil {
		return err
	}
	if count == 0 || from == to {
		return nil
	}
	span := slices.Clone(s.items[from : from+count])
	s.items = slices.Delete(s.items, from, from+count)
	s.items = slices.Insert(s.items, to, span...)
	return s.NotifyMoved(from, to, count)
}

// Replace swaps the whole content and dispatches Invalidated.
func (s *Slice[T]) Replace(items []T) {
	s.items = slices.Clone(items)
	s.NotifyInvalidated()
}

// Clear removes every item with a single Removed event.
func (s *Slice[T]) Clear() {
	n := len(s.items)
	if n == 0 {
		return
	}
	s.items = nil
	_ = s.NotifyRemoved(0, n)
}

func (s *Slice[T]) checkSpan(start, count int) error {
	if start < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidArgument, start)
	}
	if count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidArgument, count)
	}
	if start+count > len(s.items) {
		return &IndexError{Index: start + count - 1, Size: len(s.items)}
	}
	return nil
}

var _ List[int] = (*Slice[int])(nil)
