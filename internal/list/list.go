package list

import (
	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/observe"
)

// List is a read-only observable ordered collection.
type List[T any] interface {
	// Size returns the number of items.
	Size() int

	// Get returns the item at pos. It fails with ErrIndexOutOfRange if
	// pos is not in [0,Size()).
	Get(pos int) (T, error)

	// RegisterListener adds l. Registering the same listener twice has no
	// effect.
	RegisterListener(l change.Listener)

	// UnregisterListener removes l. Unknown listeners are ignored.
	UnregisterListener(l change.Listener)
}

// Subscribe registers listener on l and returns a handle that removes it.
func Subscribe[T any](l List[T], listener change.Listener) *observe.Subscription[change.Listener] {
	l.RegisterListener(listener)
	return observe.NewSubscription(listener, l.UnregisterListener)
}

// ToSlice copies the current content of l.
func ToSlice[T any](l List[T]) ([]T, error) {
	n := l.Size()
	out := make([]T, 0, n)
	for i := range n {
		v, err := l.Get(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
