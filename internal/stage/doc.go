// Package stage provides derived lists that transform an upstream list.
//
// Every stage implements list.List, so stages stack to any depth. A stage
// translates each upstream event into zero or more events describing the
// same mutation of its own view, dispatched before the upstream mutation
// returns.
//
// A malformed upstream event is never forwarded: the stage resynchronizes
// with its upstream and emits Invalidated instead. While active, Size
// reports the size implied by the events already sent, so a listener that
// registers in the middle of a multi-event translation starts from a size
// consistent with the events it will receive.
//
// Stages activate lazily: a stage registers on its upstream when it gains
// its first listener and unregisters when it loses its last one. Dispose
// removes every listener, which also releases the upstream.
//
// Stages:
//   - Limit exposes at most N leading items.
//   - Map applies a function to every item.
//   - Filter keeps the items matching a predicate.
//   - Concat lays several lists end to end.
package stage

import "github.com/dshills/rangelist/internal/list"

// Stage is a list derived from one or more upstream lists.
type Stage[T any] interface {
	list.List[T]

	// Active reports whether the stage is registered on its upstream.
	Active() bool

	// Dispose removes all listeners and releases the upstream.
	Dispose()
}
