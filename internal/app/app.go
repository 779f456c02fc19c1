package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/config"
	"github.com/dshills/rangelist/internal/list"
	"github.com/dshills/rangelist/internal/loop"
	"github.com/dshills/rangelist/internal/observe"
	"github.com/dshills/rangelist/internal/pipeline"
	"github.com/dshills/rangelist/internal/source"
	"github.com/dshills/rangelist/internal/stream"
	"github.com/dshills/rangelist/internal/view"
)

// shutdownTimeout bounds the metrics server shutdown.
const shutdownTimeout = 5 * time.Second

// Options configures the application. Non-zero fields override the
// configuration file.
type Options struct {
	// ConfigPath is the path to a TOML or YAML pipeline file.
	ConfigPath string

	// SourcePath is the file whose lines feed the pipeline.
	SourcePath string

	// Watch reloads sources when they change on disk.
	Watch bool

	// Limit appends a limit stage when positive.
	Limit int

	// LogLevel sets the logging verbosity.
	LogLevel string

	// MetricsAddr serves Prometheus metrics on this address.
	MetricsAddr string

	// Output receives the pipeline output when no screen is set.
	// Defaults to os.Stdout.
	Output io.Writer

	// Logger replaces the logger built from the configuration.
	Logger *Logger
}

// Application owns a pipeline over a file and drives it from a single
// mutation loop.
type Application struct {
	mu sync.Mutex

	cfg      *config.Config
	logger   *Logger
	metrics  *Metrics
	loop     *loop.Loop
	sources  []*source.Lines
	pipeline *pipeline.Pipeline

	screen tcell.Screen
	view   *view.View
	stream *stream.Stream[change.Event]

	observed []*observe.Subscription[change.Listener]
	closers  []io.Closer

	running  atomic.Bool
	done     chan struct{}
	ready    chan struct{}
	stopOnce sync.Once
	relOnce  sync.Once
	released atomic.Bool

	opts Options
}

// New loads the configuration, opens the sources and builds the pipeline.
// A failure is reported as an *InitError naming the component.
func New(opts Options) (*Application, error) {
	app := &Application{
		done:  make(chan struct{}),
		ready: make(chan struct{}),
		opts:  opts,
	}
	b := &bootstrapper{app: app, opts: opts}
	if err := b.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// SetScreen makes Run display the pipeline on screen instead of printing
// it. Run initializes and finalizes the screen.
func (app *Application) SetScreen(screen tcell.Screen) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	app.screen = screen
	return nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Metrics returns the metrics collectors.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Loop returns the mutation loop. Lists may only be touched from
// functions posted to it while Run is executing.
func (app *Application) Loop() *loop.Loop {
	return app.loop
}

// Output returns the last list of the pipeline.
func (app *Application) Output() list.List[string] {
	return app.pipeline.Output()
}

// Ready is closed once the output is first displayed or printed.
func (app *Application) Ready() <-chan struct{} {
	return app.ready
}

// Run starts the loop, the watchers and the metrics server, then displays
// the output until the user quits, Shutdown is called or, when printing
// without watching, the output has been written once.
func (app *Application) Run() error {
	if app.released.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-app.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	loopErr := make(chan error, 1)
	go func() { loopErr <- app.loop.Run(ctx) }()

	var wg sync.WaitGroup
	stopServer := app.startMetricsServer(&wg)

	err := app.loop.Do(ctx, app.observeLists)
	if err == nil {
		app.startWatchers(ctx, &wg)
		err = app.runFrontend(ctx)
	}

	cancel()
	stopServer()
	wg.Wait()
	if lerr := <-loopErr; lerr != nil && err == nil {
		err = lerr
	}
	// The loop has exited, so the lists are ours again.
	app.release()

	if errors.Is(err, context.Canceled) || errors.Is(err, loop.ErrClosed) {
		return nil
	}
	return err
}

// Shutdown stops a running application. On an application that is not
// running it releases the resources acquired by New.
func (app *Application) Shutdown() {
	if !app.running.Load() {
		app.release()
		return
	}
	app.stopOnce.Do(func() { close(app.done) })
}

func (app *Application) observeLists() {
	root := app.pipeline.Root()
	app.observeList("root", root)
	if out := app.Output(); out != root {
		app.observeList("output", out)
	}
}

func (app *Application) observeList(name string, l list.List[string]) {
	sub := app.metrics.Observe(name, l)
	app.observed = append(app.observed, sub)
	app.logger.WithComponent("metrics").Debug("observing %s list, subscription %s", name, sub.ID())
}

func (app *Application) startWatchers(ctx context.Context, wg *sync.WaitGroup) {
	if !app.cfg.Source.Watch {
		return
	}
	debounce, _ := app.cfg.DebounceDuration()
	log := app.logger.WithComponent("source")

	for _, src := range app.sources {
		onReload := func(err error) {
			app.metrics.RecordReload(err)
			if err != nil {
				log.Err(err, "reload %s", src.Path())
				return
			}
			log.Debug("reloaded %s: %d lines", src.Path(), src.Size())
		}
		wg.Go(func() {
			err := src.Watch(ctx, app.loop.Post,
				source.WithDebounce(debounce),
				source.WithErrorHandler(func(err error) { log.Err(err, "watch %s", src.Path()) }),
				source.WithReloadHook(onReload),
			)
			if err != nil && !errors.Is(err, loop.ErrClosed) {
				log.Err(err, "watcher stopped")
			}
		})
	}
}

func (app *Application) startMetricsServer(wg *sync.WaitGroup) (stop func()) {
	addr := app.cfg.Metrics.Addr
	if addr == "" {
		return func() {}
	}
	log := app.logger.WithComponent("metrics")
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.metrics.Handler(),
		ReadHeaderTimeout: shutdownTimeout,
	}
	wg.Go(func() {
		log.Info("serving metrics on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err, "metrics server failed")
		}
	})
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Err(err, "metrics server shutdown")
		}
	}
}

func (app *Application) runFrontend(ctx context.Context) error {
	app.mu.Lock()
	screen := app.screen
	app.mu.Unlock()

	if screen != nil {
		return app.runView(ctx, screen)
	}
	return app.runPrint(ctx)
}

func (app *Application) runView(ctx context.Context, screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer screen.Fini()

	log := app.logger.WithComponent("view")
	err := app.loop.Do(ctx, func() {
		app.view = view.New(screen, app.Output(), view.WithEventHook(func(e change.Event) {
			log.Debug("event %s", e)
		}))
	})
	if err != nil {
		return err
	}
	log.Debug("view subscribed, subscription %s", app.view.ID())
	close(app.ready)
	return app.view.Run(ctx, app.loop.Post)
}

func (app *Application) runPrint(ctx context.Context) error {
	out := app.opts.Output
	if out == nil {
		out = os.Stdout
	}

	// A one-slot stream that drops the oldest value coalesces bursts of
	// events into a single reprint.
	err := app.loop.Do(ctx, func() {
		if app.cfg.Source.Watch {
			app.stream = stream.Subscribe(app.Output(),
				stream.WithBuffer(1),
				stream.WithOverflowPolicy(stream.DropOldest),
			)
			app.logger.WithComponent("output").Debug("watching output, subscription %s", app.stream.ID())
		}
	})
	if err != nil {
		return err
	}

	if err := app.print(ctx, out, false); err != nil {
		return err
	}
	close(app.ready)
	if app.stream == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-app.stream.C():
			if !ok {
				return nil
			}
			if err := app.print(ctx, out, true); err != nil {
				return err
			}
		}
	}
}

func (app *Application) print(ctx context.Context, out io.Writer, separate bool) error {
	var items []string
	var err error
	if derr := app.loop.Do(ctx, func() { items, err = list.ToSlice(app.Output()) }); derr != nil {
		return derr
	}
	if err != nil {
		return err
	}

	var b strings.Builder
	if separate {
		b.WriteString("--\n")
	}
	for _, item := range items {
		b.WriteString(item)
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// release disposes the pipeline and everything registered on the lists.
// It must not run while the loop is running.
func (app *Application) release() {
	app.relOnce.Do(func() {
		app.released.Store(true)
		if app.stream != nil {
			app.stream.Close()
		}
		if app.view != nil {
			app.view.Close()
		}
		for _, sub := range app.observed {
			sub.Unsubscribe()
		}
		if app.pipeline != nil {
			if err := app.pipeline.Close(); err != nil {
				app.logger.WithComponent("pipeline").Err(err, "close")
			}
		}
		for _, c := range app.closers {
			_ = c.Close()
		}
	})
}
