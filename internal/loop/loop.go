// Package loop runs functions one at a time on a single goroutine.
//
// Observable lists are not safe for concurrent use. Every goroutine that
// wants to mutate a list, such as a file watcher or a terminal input
// reader, posts a function to the Loop instead; the Loop runs each one to
// completion, including the whole notification cascade, before starting
// the next.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Errors returned by Loop.
var (
	// ErrClosed is returned when posting to a stopped loop.
	ErrClosed = errors.New("loop closed")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("loop already running")
)

// DefaultQueueSize is the number of pending functions Post accepts
// without blocking.
const DefaultQueueSize = 64

// Loop is a serial executor.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	stop    sync.Once
	running atomic.Bool

	onPanic func(v any)
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the queue capacity.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// WithPanicHandler installs a handler for panics raised by posted
// functions. Without one a panic stops the loop and Run returns it as an
// error.
func WithPanicHandler(fn func(v any)) Option {
	return func(l *Loop) {
		l.onPanic = fn
	}
}

// New creates a Loop. It does nothing until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		tasks: make(chan func(), DefaultQueueSize),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn. It blocks while the queue is full and fails with
// ErrClosed once the loop is stopped.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be
// called from the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes queued functions until ctx is done or Stop is called.
// It returns nil on a normal stop.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)
	defer l.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			if err := l.run(fn); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if l.onPanic != nil {
				l.onPanic(r)
				return
			}
			err = fmt.Errorf("loop task panicked: %v", r)
		}
	}()
	fn()
	return nil
}

// Stop ends Run and rejects further posts. Queued functions that have not
// started are dropped. Stop is safe to call more than once.
func (l *Loop) Stop() {
	l.stop.Do(func() { close(l.done) })
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// IsRunning reports whether Run is executing.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}
