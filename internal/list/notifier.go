package list

import (
	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/observe"
)

// Notifier owns the listeners of a list and dispatches events to them.
// Embed it to get RegisterListener and UnregisterListener.
//
// The zero value is ready to use.
type Notifier struct {
	listeners observe.Registry[change.Listener]
}

// RegisterListener adds l.
func (n *Notifier) RegisterListener(l change.Listener) {
	n.listeners.Register(l)
}

// UnregisterListener removes l.
func (n *Notifier) UnregisterListener(l change.Listener) {
	n.listeners.Unregister(l)
}

// SetActivation installs hooks run when the first listener is registered
// and when the last one is removed.
func (n *Notifier) SetActivation(onActivate, onDeactivate func()) {
	n.listeners.SetActivation(onActivate, onDeactivate)
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	return n.listeners.Len()
}

// HasListeners reports whether anyone is listening.
func (n *Notifier) HasListeners() bool {
	return n.listeners.Len() > 0
}

// ClearListeners removes every listener.
func (n *Notifier) ClearListeners() {
	n.listeners.Clear()
}

// Notify dispatches e. A range event with a zero count is dropped. An
// event with a negative position or count is not dispatched and Notify
// returns an error wrapping ErrInvalidArgument.
func (n *Notifier) Notify(e change.Event) error {
	if e.IsRange() && e.Count == 0 {
		return nil
	}
	if err := e.Validate(); err != nil {
		return err
	}
	for _, l := range n.listeners.Snapshot() {
		change.Deliver(l, e)
	}
	return nil
}

// NotifyChanged dispatches Changed{start,count}.
func (n *Notifier) NotifyChanged(start, count int) error {
	return n.Notify(change.Changed(start, count))
}

// NotifyInserted dispatches Inserted{start,count}.
func (n *Notifier) NotifyInserted(start, count int) error {
	return n.Notify(change.Inserted(start, count))
}

// NotifyRemoved dispatches Removed{start,count}.
func (n *Notifier) NotifyRemoved(start, count int) error {
	return n.Notify(change.Removed(start, count))
}

// NotifyMoved dispatches Moved{from,to,count}.
func (n *Notifier) NotifyMoved(from, to, count int) error {
	return n.Notify(change.Moved(from, to, count))
}

// NotifyInvalidated dispatches Invalidated.
func (n *Notifier) NotifyInvalidated() {
	_ = n.Notify(change.Invalidated())
}
