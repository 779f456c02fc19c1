package change

// Merge combines two consecutive events into one with the same effect.
// It returns false when the pair cannot be expressed as a single event.
//
// Rules:
//   - Changed spans that touch or overlap merge into their union.
//   - An Inserted span starting inside or right after a previous Inserted
//     span extends it.
//   - A Removed span at the same start as the previous one, or ending
//     where the previous one started, extends it.
//
// Moved and Invalidated events never merge.
func Merge(prev, next Event) (Event, bool) {
	if prev.Kind != next.Kind || prev.Count <= 0 || next.Count <= 0 {
		return Event{}, false
	}

	switch prev.Kind {
	case KindChanged:
		if next.Start > prev.End() || prev.Start > next.End() {
			return Event{}, false
		}
		start := min(prev.Start, next.Start)
		end := max(prev.End(), next.End())
		return Changed(start, end-start), true

	case KindInserted:
		if next.Start < prev.Start || next.Start > prev.End() {
			return Event{}, false
		}
		return Inserted(prev.Start, prev.Count+next.Count), true

	case KindRemoved:
		if next.Start == prev.Start {
			return Removed(prev.Start, prev.Count+next.Count), true
		}
		if next.End() == prev.Start {
			return Removed(next.Start, prev.Count+next.Count), true
		}
		return Event{}, false
	}

	return Event{}, false
}

// Batch accumulates events and coalesces neighbours with Merge.
// Once an Invalidated event is added the batch collapses to that single
// event and absorbs everything that follows until it is flushed.
//
// The zero value is ready to use.
type Batch struct {
	events []Event
}

// Add appends an event. Positional events with a non-positive count are
// dropped.
func (b *Batch) Add(e Event) {
	if e.Kind == KindInvalidated {
		b.events = append(b.events[:0], e)
		return
	}
	if e.Count <= 0 {
		return
	}
	if n := len(b.events); n > 0 {
		last := b.events[n-1]
		if last.Kind == KindInvalidated {
			return
		}
		if merged, ok := Merge(last, e); ok {
			b.events[n-1] = merged
			return
		}
	}
	b.events = append(b.events, e)
}

// Len returns the number of pending events.
func (b *Batch) Len() int {
	return len(b.events)
}

// Events returns a copy of the pending events.
func (b *Batch) Events() []Event {
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Reset discards pending events.
func (b *Batch) Reset() {
	b.events = b.events[:0]
}

// Flush delivers pending events to fn in order and empties the batch.
// The batch may be refilled by fn.
func (b *Batch) Flush(fn func(Event)) {
	events := b.events
	b.events = nil
	for _, e := range events {
		fn(e)
	}
}
