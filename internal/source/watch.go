package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last file event
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

type watchConfig struct {
	debounce time.Duration
	onError  func(error)
	onReload func(error)
}

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithErrorHandler receives watcher errors. They are dropped by default.
func WithErrorHandler(fn func(error)) WatchOption {
	return func(c *watchConfig) {
		c.onError = fn
	}
}

// WithReloadHook is called on the owning goroutine after every reload
// with the reload's result.
func WithReloadHook(fn func(error)) WatchOption {
	return func(c *watchConfig) {
		c.onReload = fn
	}
}

// Watch reloads the file whenever it changes until ctx is done.
//
// The parent directory is watched so that editors which replace the file
// by rename are still seen. Bursts of events are collapsed by a debounce
// timer, and each reload is handed to post so that it runs on the
// goroutine that owns the list. Watch returns nil when ctx is done and an
// error if the watcher cannot be set up or post fails.
func (l *Lines) Watch(ctx context.Context, post func(func()) error, opts ...WatchOption) error {
	cfg := watchConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(l.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	timer := time.NewTimer(cfg.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !l.affects(ev) {
				continue
			}
			timer.Reset(cfg.debounce)
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if cfg.onError != nil {
				cfg.onError(err)
			}

		case <-fire:
			fire = nil
			if err := post(l.reloadFunc(cfg.onReload)); err != nil {
				return fmt.Errorf("post reload: %w", err)
			}
		}
	}
}

func (l *Lines) affects(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	return filepath.Clean(ev.Name) == l.path
}

func (l *Lines) reloadFunc(hook func(error)) func() {
	return func() {
		err := l.Reload()
		if hook != nil {
			hook(err)
		}
	}
}
