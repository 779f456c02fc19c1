// Package observe provides the listener registry shared by observable lists.
//
// Registry keeps listeners in registration order, deduplicated by identity.
// Mutations replace the backing slice instead of editing it, so a dispatch
// pass always iterates the snapshot that was current when it started:
// listeners added during a pass are not called by it, and listeners removed
// during a pass are still called by it.
//
// A Registry also drives lazy activation. OnActivate fires when the first
// listener arrives and OnDeactivate when the last one leaves, letting a
// derived list hold its upstream subscription only while it is observed.
//
// Registry is not safe for concurrent use. Owners serialize access on the
// goroutine that mutates and dispatches.
package observe

// Registry holds listeners of type L.
//
// The zero value is ready to use.
type Registry[L comparable] struct {
	listeners []L

	onActivate   func()
	onDeactivate func()
}

// SetActivation installs the hooks fired on the 0→1 and 1→0 listener
// count transitions. Either hook may be nil.
func (r *Registry[L]) SetActivation(onActivate, onDeactivate func()) {
	r.onActivate = onActivate
	r.onDeactivate = onDeactivate
}

// Register adds a listener. It returns false if the listener is already
// registered, leaving the registry unchanged.
func (r *Registry[L]) Register(l L) bool {
	if r.Contains(l) {
		return false
	}

	next := make([]L, len(r.listeners), len(r.listeners)+1)
	copy(next, r.listeners)
	r.listeners = append(next, l)

	if len(r.listeners) == 1 && r.onActivate != nil {
		r.onActivate()
	}
	return true
}

// Unregister removes a listener. Removing an unknown listener is a no-op
// and returns false.
func (r *Registry[L]) Unregister(l L) bool {
	idx := r.indexOf(l)
	if idx < 0 {
		return false
	}

	next := make([]L, 0, len(r.listeners)-1)
	next = append(next, r.listeners[:idx]...)
	next = append(next, r.listeners[idx+1:]...)
	r.listeners = next

	if len(r.listeners) == 0 && r.onDeactivate != nil {
		r.onDeactivate()
	}
	return true
}

// Contains reports whether l is registered.
func (r *Registry[L]) Contains(l L) bool {
	return r.indexOf(l) >= 0
}

// Len returns the number of registered listeners.
func (r *Registry[L]) Len() int {
	return len(r.listeners)
}

// Snapshot returns the current listeners in registration order.
// The returned slice is never modified by the registry and must not be
// modified by the caller.
func (r *Registry[L]) Snapshot() []L {
	return r.listeners
}

// Clear removes all listeners, firing the deactivation hook once if any
// listener was registered.
func (r *Registry[L]) Clear() {
	if len(r.listeners) == 0 {
		return
	}
	r.listeners = nil
	if r.onDeactivate != nil {
		r.onDeactivate()
	}
}

func (r *Registry[L]) indexOf(l L) int {
	for i, existing := range r.listeners {
		if existing == l {
			return i
		}
	}
	return -1
}
