package change

import (
	"fmt"
)

// Kind identifies the shape of a range event.
type Kind uint8

const (
	// KindChanged means items were replaced in place.
	KindChanged Kind = iota

	// KindInserted means items were inserted.
	KindInserted

	// KindRemoved means items were removed.
	KindRemoved

	// KindMoved means a contiguous span of items was relocated.
	KindMoved

	// KindInvalidated means the whole content is stale.
	KindInvalidated
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChanged:
		return "changed"
	case KindInserted:
		return "inserted"
	case KindRemoved:
		return "removed"
	case KindMoved:
		return "moved"
	case KindInvalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

// Event is a single range event.
//
// Start is the first affected position. For KindMoved, Start is the
// source position and To is the destination the span begins at after
// the move. Count is zero only for KindInvalidated.
type Event struct {
	Kind  Kind
	Start int
	To    int
	Count int
}

// Changed returns a Changed event.
func Changed(start, count int) Event {
	return Event{Kind: KindChanged, Start: start, Count: count}
}

// Inserted returns an Inserted event.
func Inserted(start, count int) Event {
	return Event{Kind: KindInserted, Start: start, Count: count}
}

// Removed returns a Removed event.
func Removed(start, count int) Event {
	return Event{Kind: KindRemoved, Start: start, Count: count}
}

// Moved returns a Moved event.
func Moved(from, to, count int) Event {
	return Event{Kind: KindMoved, Start: from, To: to, Count: count}
}

// Invalidated returns an Invalidated event.
func Invalidated() Event {
	return Event{Kind: KindInvalidated}
}

// IsRange reports whether the event carries positional meaning.
func (e Event) IsRange() bool {
	return e.Kind != KindInvalidated
}

// End returns the position just past the affected span.
// For KindMoved it is the end of the source span.
func (e Event) End() int {
	return e.Start + e.Count
}

// Validate checks the event parameters.
// Invalidated events are always valid.
func (e Event) Validate() error {
	switch e.Kind {
	case KindInvalidated:
		return nil
	case KindChanged, KindInserted, KindRemoved, KindMoved:
	default:
		return fmt.Errorf("%w: unknown event kind %d", ErrInvalidArgument, e.Kind)
	}
	if e.Start < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidArgument, e.Start)
	}
	if e.Kind == KindMoved && e.To < 0 {
		return fmt.Errorf("%w: negative destination %d", ErrInvalidArgument, e.To)
	}
	if e.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidArgument, e.Count)
	}
	return nil
}

// Offset returns the event with its positions shifted by delta.
func (e Event) Offset(delta int) Event {
	if e.Kind == KindInvalidated || delta == 0 {
		return e
	}
	e.Start += delta
	if e.Kind == KindMoved {
		e.To += delta
	}
	return e
}

// SizeDelta returns how much the event changes the size of a list.
// The result is meaningless for Invalidated events.
func (e Event) SizeDelta() int {
	switch e.Kind {
	case KindInserted:
		return e.Count
	case KindRemoved:
		return -e.Count
	default:
		return 0
	}
}

// String returns a compact representation such as "inserted{1,2}".
func (e Event) String() string {
	switch e.Kind {
	case KindInvalidated:
		return "invalidated"
	case KindMoved:
		return fmt.Sprintf("moved{%d,%d,%d}", e.Start, e.To, e.Count)
	default:
		return fmt.Sprintf("%s{%d,%d}", e.Kind, e.Start, e.Count)
	}
}
