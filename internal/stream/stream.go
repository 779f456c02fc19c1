// Package stream bridges observable lists to Go channels.
//
// Subscribe delivers every range event of a list on a channel. Events are
// sent from the goroutine that mutates the list, so the overflow policy
// decides whether a slow consumer loses events or stalls that goroutine.
//
// Subscribe and Close must be called on the goroutine that owns the list.
// Receiving and Drops are safe from any goroutine.
package stream

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
	"github.com/dshills/rangelist/internal/observe"
)

// Stream is a channel subscription to a list.
type Stream[V any] struct {
	ch      chan V
	cfg     config
	sub     *observe.Subscription[change.Listener]
	dropped atomic.Uint64
	closed  atomic.Bool
	once    sync.Once
}

// Subscribe streams l's range events.
func Subscribe[T any](l list.List[T], opts ...Option) *Stream[change.Event] {
	cfg := newConfig(opts)
	s := &Stream[change.Event]{
		ch:  make(chan change.Event, cfg.buffer),
		cfg: cfg,
	}
	s.sub = list.Subscribe(l, change.OnEvent(func(e change.Event) {
		if len(s.cfg.kinds) > 0 && !slices.Contains(s.cfg.kinds, e.Kind) {
			return
		}
		s.send(e)
	}))
	return s
}

// ID returns the identifier of the underlying list subscription.
func (s *Stream[V]) ID() string {
	return s.sub.ID()
}

// C returns the receive channel. It is closed by Close.
func (s *Stream[V]) C() <-chan V {
	return s.ch
}

// Drops returns the number of values lost to overflow.
func (s *Stream[V]) Drops() uint64 {
	return s.dropped.Load()
}

// Close unregisters from the list and closes the channel. Calling it more
// than once is safe.
func (s *Stream[V]) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		s.sub.Unsubscribe()
		close(s.ch)
	})
}

func (s *Stream[V]) send(v V) {
	if s.closed.Load() {
		return
	}

	switch s.cfg.policy {
	case Block:
		s.ch <- v

	case DropNewest:
		select {
		case s.ch <- v:
		default:
			s.dropped.Add(1)
		}

	case DropOldest:
		for {
			select {
			case s.ch <- v:
				return
			default:
			}
			select {
			case <-s.ch:
				s.dropped.Add(1)
			default:
			}
			if cap(s.ch) == 0 {
				s.dropped.Add(1)
				return
			}
		}

	default:
		panic(fmt.Errorf("unknown overflow policy: %v", s.cfg.policy))
	}
}
