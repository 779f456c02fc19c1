package app

import (
	"os"

	"github.com/dshills/rangelist/internal/config"
	"github.com/dshills/rangelist/internal/list"
	"github.com/dshills/rangelist/internal/loop"
	"github.com/dshills/rangelist/internal/pipeline"
	"github.com/dshills/rangelist/internal/source"
)

// bootstrapper initializes components in dependency order.
type bootstrapper struct {
	app  *Application
	opts Options
}

func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogger,
		b.initMetrics,
		b.initSource,
		b.initPipeline,
		b.initLoop,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.app.release()
			return err
		}
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg := config.Default()
	if b.opts.ConfigPath != "" {
		loaded, err := config.Load(b.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if b.opts.SourcePath != "" {
		cfg.Source.Path = b.opts.SourcePath
	}
	if b.opts.Watch {
		cfg.Source.Watch = true
	}
	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
	}
	if b.opts.MetricsAddr != "" {
		cfg.Metrics.Addr = b.opts.MetricsAddr
	}
	if b.opts.Limit > 0 {
		cfg.Stages = append(cfg.Stages, config.StageConfig{Kind: config.KindLimit, Limit: b.opts.Limit})
	}

	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if cfg.Source.Path == "" {
		return &InitError{Component: "config", Err: ErrNoSource}
	}
	b.app.cfg = cfg
	return nil
}

func (b *bootstrapper) initLogger() error {
	if b.opts.Logger != nil {
		b.app.logger = b.opts.Logger
		return nil
	}

	lc := DefaultLoggerConfig()
	lc.Level = ParseLogLevel(b.app.cfg.Log.Level)
	if b.app.cfg.Log.Format != "" {
		lc.Format = b.app.cfg.Log.Format
	}
	if path := b.app.cfg.Log.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		lc.Output = f
		b.app.closers = append(b.app.closers, f)
	}
	b.app.logger = NewLogger(lc)
	return nil
}

func (b *bootstrapper) initMetrics() error {
	b.app.metrics = NewMetrics()
	return nil
}

func (b *bootstrapper) initSource() error {
	root, err := source.Open(b.app.cfg.Source.Path)
	if err != nil {
		return &InitError{Component: "source", Err: err}
	}
	b.app.sources = append(b.app.sources, root)
	b.app.logger.WithComponent("source").Debug("opened %s with %d lines", root.Path(), root.Size())
	return nil
}

func (b *bootstrapper) initPipeline() error {
	log := b.app.logger.WithComponent("pipeline")
	open := func(path string) (list.List[string], error) {
		l, err := source.Open(path)
		if err != nil {
			return nil, err
		}
		b.app.sources = append(b.app.sources, l)
		return l, nil
	}
	onScriptError := func(stage, item string, err error) {
		b.app.metrics.RecordScriptError(stage)
		log.WithField("stage", stage).Err(err, "script failed on %q", item)
	}

	p, err := pipeline.Build(b.app.cfg, b.app.sources[0], open, pipeline.WithScriptErrorHandler(onScriptError))
	if err != nil {
		return &InitError{Component: "pipeline", Err: err}
	}
	b.app.pipeline = p
	for _, st := range p.Steps() {
		log.Debug("stage %s (%s)", st.Label, st.Kind)
	}
	return nil
}

func (b *bootstrapper) initLoop() error {
	log := b.app.logger.WithComponent("loop")
	b.app.loop = loop.New(loop.WithPanicHandler(func(v any) {
		log.Error("task panicked: %v", v)
	}))
	return nil
}
