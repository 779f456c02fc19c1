// Package pipeline assembles stages described by a config.Config on top
// of a root list.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/dshills/rangelist/internal/config"
	"github.com/dshills/rangelist/internal/list"
	"github.com/dshills/rangelist/internal/script"
	"github.com/dshills/rangelist/internal/stage"
)

// Opener opens the list appended by a concat stage.
type Opener func(path string) (list.List[string], error)

// ScriptErrorHandler receives errors raised while a Lua stage evaluates an
// item. The item is then dropped by a filter or left unchanged by a map.
type ScriptErrorHandler func(stage, item string, err error)

// Option configures Build.
type Option func(*builder)

// WithScriptErrorHandler installs a handler for Lua evaluation errors.
func WithScriptErrorHandler(fn ScriptErrorHandler) Option {
	return func(b *builder) {
		b.onScriptError = fn
	}
}

// Step describes one assembled stage.
type Step struct {
	Label string
	Kind  string
	Stage stage.Stage[string]
}

// Pipeline is a chain of stages over a root list.
type Pipeline struct {
	root   list.List[string]
	steps  []Step
	states []*script.State
}

type builder struct {
	cfg           *config.Config
	open          Opener
	onScriptError ScriptErrorHandler
	timeout       []script.Option
	p             *Pipeline
}

// Build composes cfg.Stages in order over root. On error every stage built
// so far is released.
func Build(cfg *config.Config, root list.List[string], open Opener, opts ...Option) (*Pipeline, error) {
	b := &builder{
		cfg:  cfg,
		open: open,
		p:    &Pipeline{root: root},
	}
	for _, opt := range opts {
		opt(b)
	}

	timeout, err := cfg.ScriptTimeout()
	if err != nil {
		return nil, fmt.Errorf("script timeout: %w", err)
	}
	if timeout > 0 {
		b.timeout = append(b.timeout, script.WithTimeout(timeout))
	}

	current := root
	for i, sc := range cfg.Stages {
		next, err := b.build(current, sc)
		if err != nil {
			_ = b.p.Close()
			return nil, fmt.Errorf("stage %d (%s): %w", i, sc.Label(), err)
		}
		b.p.steps = append(b.p.steps, Step{Label: sc.Label(), Kind: sc.Kind, Stage: next})
		current = next
	}
	return b.p, nil
}

func (b *builder) build(upstream list.List[string], sc config.StageConfig) (stage.Stage[string], error) {
	switch sc.Kind {
	case config.KindLimit:
		return stage.NewLimit(upstream, sc.Limit), nil

	case config.KindFilter:
		fn, err := b.compile(sc)
		if err != nil {
			return nil, err
		}
		return stage.NewFilter(upstream, fn.Predicate(b.reporter(sc))), nil

	case config.KindMap:
		fn, err := b.compile(sc)
		if err != nil {
			return nil, err
		}
		return stage.NewMap(upstream, fn.Mapper(b.reporter(sc))), nil

	case config.KindConcat:
		if b.open == nil {
			return nil, errors.New("no opener for concat")
		}
		tail, err := b.open(sc.Path)
		if err != nil {
			return nil, err
		}
		return stage.NewConcat(upstream, tail), nil

	default:
		return nil, fmt.Errorf("unknown stage kind %q", sc.Kind)
	}
}

func (b *builder) compile(sc config.StageConfig) (*script.Func, error) {
	st, err := script.NewState(b.timeout...)
	if err != nil {
		return nil, err
	}
	b.p.states = append(b.p.states, st)
	st.SetVars(sc.Vars)
	return st.Compile(sc.Expr)
}

func (b *builder) reporter(sc config.StageConfig) func(string, error) {
	if b.onScriptError == nil {
		return nil
	}
	label := sc.Label()
	return func(item string, err error) {
		b.onScriptError(label, item, err)
	}
}

// Root returns the list the pipeline starts from.
func (p *Pipeline) Root() list.List[string] {
	return p.root
}

// Output returns the last stage, or the root when there are no stages.
func (p *Pipeline) Output() list.List[string] {
	if len(p.steps) == 0 {
		return p.root
	}
	return p.steps[len(p.steps)-1].Stage
}

// Steps returns the assembled stages in order.
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Close disposes every stage, last first, and closes the Lua states.
func (p *Pipeline) Close() error {
	for i := len(p.steps) - 1; i >= 0; i-- {
		p.steps[i].Stage.Dispose()
	}
	var errs []error
	for _, st := range p.states {
		if err := st.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.states = nil
	return errors.Join(errs...)
}
