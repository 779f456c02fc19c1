package change

// Listener receives range events from an observable list.
//
// Callbacks run synchronously on the goroutine that mutated the list,
// after the list has been updated. A listener may read the list it is
// registered on, register or unregister listeners, or mutate other lists.
type Listener interface {
	OnChanged(start, count int)
	OnInserted(start, count int)
	OnRemoved(start, count int)
	OnMoved(from, to, count int)
	OnInvalidated()
}

// Deliver calls the Listener method matching the event kind.
func Deliver(l Listener, e Event) {
	switch e.Kind {
	case KindChanged:
		l.OnChanged(e.Start, e.Count)
	case KindInserted:
		l.OnInserted(e.Start, e.Count)
	case KindRemoved:
		l.OnRemoved(e.Start, e.Count)
	case KindMoved:
		l.OnMoved(e.Start, e.To, e.Count)
	case KindInvalidated:
		l.OnInvalidated()
	}
}

// Funcs adapts optional callbacks to Listener. Nil callbacks are skipped.
// Use it through a pointer so registration can tell instances apart.
type Funcs struct {
	Changed     func(start, count int)
	Inserted    func(start, count int)
	Removed     func(start, count int)
	Moved       func(from, to, count int)
	Invalidated func()
}

// OnChanged implements Listener.
func (f *Funcs) OnChanged(start, count int) {
	if f.Changed != nil {
		f.Changed(start, count)
	}
}

// OnInserted implements Listener.
func (f *Funcs) OnInserted(start, count int) {
	if f.Inserted != nil {
		f.Inserted(start, count)
	}
}

// OnRemoved implements Listener.
func (f *Funcs) OnRemoved(start, count int) {
	if f.Removed != nil {
		f.Removed(start, count)
	}
}

// OnMoved implements Listener.
func (f *Funcs) OnMoved(from, to, count int) {
	if f.Moved != nil {
		f.Moved(from, to, count)
	}
}

// OnInvalidated implements Listener.
func (f *Funcs) OnInvalidated() {
	if f.Invalidated != nil {
		f.Invalidated()
	}
}

// EventListener funnels every callback into a single function taking an Event.
type EventListener struct {
	fn func(Event)
}

// OnEvent returns a Listener that calls fn for every event.
func OnEvent(fn func(Event)) *EventListener {
	return &EventListener{fn: fn}
}

// OnAnyChange returns a Listener that calls fn for every event, whatever
// its kind. It suits consumers that only redraw or recount.
func OnAnyChange(fn func()) *EventListener {
	return &EventListener{fn: func(Event) { fn() }}
}

// OnChanged implements Listener.
func (l *EventListener) OnChanged(start, count int) { l.fn(Changed(start, count)) }

// OnInserted implements Listener.
func (l *EventListener) OnInserted(start, count int) { l.fn(Inserted(start, count)) }

// OnRemoved implements Listener.
func (l *EventListener) OnRemoved(start, count int) { l.fn(Removed(start, count)) }

// OnMoved implements Listener.
func (l *EventListener) OnMoved(from, to, count int) { l.fn(Moved(from, to, count)) }

// OnInvalidated implements Listener.
func (l *EventListener) OnInvalidated() { l.fn(Invalidated()) }

var (
	_ Listener = (*Funcs)(nil)
	_ Listener = (*EventListener)(nil)
)
