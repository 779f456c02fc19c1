package observe

import "github.com/google/uuid"

// Subscription is a handle for one registered listener. It remembers how
// to remove the listener, so holders need not keep the source around.
type Subscription[L comparable] struct {
	id       string
	listener L
	cancel   func(L)
}

// NewSubscription returns a handle for l, already registered by the
// caller. cancel is called once by Unsubscribe.
func NewSubscription[L comparable](l L, cancel func(L)) *Subscription[L] {
	return &Subscription[L]{
		id:       uuid.New().String(),
		listener: l,
		cancel:   cancel,
	}
}

// ID returns the unique subscription identifier.
func (s *Subscription[L]) ID() string {
	return s.id
}

// Listener returns the subscribed listener.
func (s *Subscription[L]) Listener() L {
	return s.listener
}

// Active reports whether Unsubscribe has not been called yet.
func (s *Subscription[L]) Active() bool {
	return s.cancel != nil
}

// Unsubscribe removes the listener. Calling it more than once is safe.
func (s *Subscription[L]) Unsubscribe() {
	if s.cancel == nil {
		return
	}
	cancel := s.cancel
	s.cancel = nil
	cancel(s.listener)
}
