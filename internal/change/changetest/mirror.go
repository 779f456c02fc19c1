package changetest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
)

// Mirror keeps a shadow copy of a list by replaying its events.
//
// Items covered by Inserted or Changed events become pending: their value
// is only known once the whole mutation has been dispatched. Check fills
// pending slots from the list and requires every other slot to hold the
// item the list has at that position. An event stream that does not
// describe the mutation leaves a stale item, a missing one, or the wrong
// size behind.
//
// Invalidated marks the whole shadow pending at the list's current size.
// After every event the shadow must have the size the list reports.
type Mirror[T comparable] struct {
	src           list.List[T]
	items         []T
	known         []bool
	events        []change.Event
	errs          []error
	invalidations int
}

// NewMirror copies the content of l and registers on it.
func NewMirror[T comparable](l list.List[T]) (*Mirror[T], error) {
	m := &Mirror[T]{src: l}
	if err := m.sync(); err != nil {
		return nil, err
	}
	l.RegisterListener(m)
	return m, nil
}

// Close unregisters the mirror.
func (m *Mirror[T]) Close() {
	m.src.UnregisterListener(m)
}

// Items returns a copy of the shadow content. Pending slots hold the zero
// value until Check runs.
func (m *Mirror[T]) Items() []T {
	return slices.Clone(m.items)
}

// Events returns the events received since the last Reset.
func (m *Mirror[T]) Events() []change.Event {
	return slices.Clone(m.events)
}

// Invalidations returns how many Invalidated events were received.
func (m *Mirror[T]) Invalidations() int {
	return m.invalidations
}

// Reset forgets received events and errors. The shadow is kept.
func (m *Mirror[T]) Reset() {
	m.events = nil
	m.errs = nil
}

// Check verifies the shadow against the list and then resolves pending
// slots. It also reports malformed events and events that did not fit the
// shadow.
func (m *Mirror[T]) Check() error {
	if err := errors.Join(m.errs...); err != nil {
		return err
	}
	want, err := list.ToSlice(m.src)
	if err != nil {
		return err
	}
	if len(m.items) != len(want) {
		return fmt.Errorf("mirror size %d != list size %d after %s", len(m.items), len(want), Format(m.events))
	}
	for i, v := range m.items {
		if m.known[i] && v != want[i] {
			return fmt.Errorf("mirror[%d] = %v, list has %v after %s", i, v, want[i], Format(m.events))
		}
	}
	m.items = want
	m.known = known(len(want), true)
	return nil
}

// OnChanged implements change.Listener.
func (m *Mirror[T]) OnChanged(start, count int) {
	if !m.accept(change.Changed(start, count), start+count <= len(m.items)) {
		return
	}
	var zero T
	for i := start; i < start+count; i++ {
		m.items[i] = zero
		m.known[i] = false
	}
	m.checkSize()
}

// OnInserted implements change.Listener.
func (m *Mirror[T]) OnInserted(start, count int) {
	if !m.accept(change.Inserted(start, count), start <= len(m.items)) {
		return
	}
	m.items = slices.Insert(m.items, start, make([]T, count)...)
	m.known = slices.Insert(m.known, start, known(count, false)...)
	m.checkSize()
}

// OnRemoved implements change.Listener.
func (m *Mirror[T]) OnRemoved(start, count int) {
	if !m.accept(change.Removed(start, count), start+count <= len(m.items)) {
		return
	}
	m.items = slices.Delete(m.items, start, start+count)
	m.known = slices.Delete(m.known, start, start+count)
	m.checkSize()
}

// OnMoved implements change.Listener.
func (m *Mirror[T]) OnMoved(from, to, count int) {
	fits := from+count <= len(m.items) && to+count <= len(m.items)
	if !m.accept(change.Moved(from, to, count), fits) {
		return
	}
	m.items = move(m.items, from, to, count)
	m.known = move(m.known, from, to, count)
	m.checkSize()
}

// OnInvalidated implements change.Listener.
func (m *Mirror[T]) OnInvalidated() {
	m.events = append(m.events, change.Invalidated())
	m.invalidations++
	n := m.src.Size()
	m.items = make([]T, n)
	m.known = known(n, false)
}

func (m *Mirror[T]) sync() error {
	items, err := list.ToSlice(m.src)
	if err != nil {
		return err
	}
	m.items = items
	m.known = known(len(items), true)
	return nil
}

func (m *Mirror[T]) accept(e change.Event, fits bool) bool {
	m.events = append(m.events, e)
	if err := e.Validate(); err != nil {
		m.errs = append(m.errs, fmt.Errorf("%s: %w", e, err))
		return false
	}
	if !fits {
		m.errs = append(m.errs, fmt.Errorf("%s does not fit mirror of size %d", e, len(m.items)))
		return false
	}
	return true
}

func (m *Mirror[T]) checkSize() {
	if n := m.src.Size(); n != len(m.items) {
		e := m.events[len(m.events)-1]
		m.errs = append(m.errs, fmt.Errorf("list reports size %d after %s, mirror has %d", n, e, len(m.items)))
	}
}

func known(n int, v bool) []bool {
	out := make([]bool, n)
	if v {
		for i := range out {
			out[i] = true
		}
	}
	return out
}

func move[E any](s []E, from, to, count int) []E {
	span := slices.Clone(s[from : from+count])
	s = slices.Delete(s, from, from+count)
	return slices.Insert(s, to, span...)
}

var _ change.Listener = (*Mirror[int])(nil)
