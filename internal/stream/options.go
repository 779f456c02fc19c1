package stream

import "github.com/dshills/rangelist/internal/change"

// OverflowPolicy controls what a Stream does when its buffer is full.
type OverflowPolicy uint8

const (
	// DropNewest discards the value being sent.
	DropNewest OverflowPolicy = iota

	// DropOldest discards one buffered value to make room for the new one.
	// Suited to consumers that only care about the latest state.
	DropOldest

	// Block waits until the consumer receives. This stalls the goroutine
	// that mutates the list.
	Block
)

// DefaultBufferSize is the channel capacity used when none is given.
const DefaultBufferSize = 256

// Option configures a Stream.
type Option func(*config)

type config struct {
	buffer int
	policy OverflowPolicy
	kinds  []change.Kind
}

// WithBuffer sets the channel capacity.
func WithBuffer(n int) Option {
	return func(c *config) {
		c.buffer = n
	}
}

// WithOverflowPolicy sets the overflow policy.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithKinds restricts an event stream to the given kinds. It has no
// effect on a size stream.
func WithKinds(kinds ...change.Kind) Option {
	return func(c *config) {
		c.kinds = append(c.kinds, kinds...)
	}
}

func newConfig(opts []Option) config {
	c := config{buffer: DefaultBufferSize, policy: DropNewest}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.buffer < 0 {
		c.buffer = 0
	}
	return c
}
