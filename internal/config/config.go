package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Stage kinds.
const (
	KindLimit  = "limit"
	KindFilter = "filter"
	KindMap    = "map"
	KindConcat = "concat"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "RANGELIST_"

// DefaultDebounce is the reload debounce used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Config is a complete pipeline description.
type Config struct {
	Source  SourceConfig  `toml:"source" yaml:"source"`
	Stages  []StageConfig `toml:"stages" yaml:"stages"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// SourceConfig describes the file feeding the pipeline.
type SourceConfig struct {
	Path     string `toml:"path" yaml:"path"`
	Watch    bool   `toml:"watch" yaml:"watch"`
	Debounce string `toml:"debounce" yaml:"debounce"`
}

// StageConfig describes one stage. Which fields apply depends on Kind.
type StageConfig struct {
	Kind string `toml:"kind" yaml:"kind"`
	Name string `toml:"name" yaml:"name"`

	// Limit is the maximum size of a limit stage.
	Limit int `toml:"limit" yaml:"limit"`

	// Expr is the Lua snippet of a filter or map stage.
	Expr string `toml:"expr" yaml:"expr"`

	// Vars are string globals visible to Expr.
	Vars map[string]string `toml:"vars" yaml:"vars"`

	// Path is the file appended by a concat stage.
	Path string `toml:"path" yaml:"path"`
}

// ScriptConfig tunes the Lua runtime.
type ScriptConfig struct {
	Timeout string `toml:"timeout" yaml:"timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"`
}

// MetricsConfig configures the metrics endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns a configuration with no stages.
func Default() *Config {
	return &Config{
		Source: SourceConfig{Debounce: DefaultDebounce.String()},
		Log:    LogConfig{Level: "info", Format: FormatConsole},
	}
}

// DebounceDuration parses Source.Debounce. An empty value yields
// DefaultDebounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	return parseDuration(c.Source.Debounce, DefaultDebounce)
}

// ScriptTimeout parses Script.Timeout. An empty value yields zero, which
// leaves the runtime default in place.
func (c *Config) ScriptTimeout() (time.Duration, error) {
	return parseDuration(c.Script.Timeout, 0)
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

// ApplyEnv overrides fields from RANGELIST_* environment variables.
// Empty values are treated as set.
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		EnvPrefix + "SOURCE":       &c.Source.Path,
		EnvPrefix + "DEBOUNCE":     &c.Source.Debounce,
		EnvPrefix + "LOG_LEVEL":    &c.Log.Level,
		EnvPrefix + "LOG_FORMAT":   &c.Log.Format,
		EnvPrefix + "LOG_FILE":     &c.Log.File,
		EnvPrefix + "METRICS_ADDR": &c.Metrics.Addr,
	}
	for env, field := range overrides {
		if v, ok := os.LookupEnv(env); ok {
			*field = v
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "WATCH"); ok {
		c.Source.Watch = parseBool(v)
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Validate reports the first invalid field as a *ValidationError.
func (c *Config) Validate() error {
	if _, err := c.DebounceDuration(); err != nil {
		return &ValidationError{Field: "source.debounce", Message: err.Error()}
	}
	if _, err := c.ScriptTimeout(); err != nil {
		return &ValidationError{Field: "script.timeout", Message: err.Error()}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	switch c.Log.Format {
	case "", FormatConsole, FormatJSON:
	default:
		return &ValidationError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	for i, st := range c.Stages {
		if err := st.validate(); err != nil {
			err.Field = fmt.Sprintf("stages[%d].%s", i, err.Field)
			return err
		}
	}
	return nil
}

func (s StageConfig) validate() *ValidationError {
	switch s.Kind {
	case KindLimit:
		if s.Limit < 0 {
			return &ValidationError{Field: "limit", Message: fmt.Sprintf("must not be negative, got %d", s.Limit)}
		}
	case KindFilter, KindMap:
		if strings.TrimSpace(s.Expr) == "" {
			return &ValidationError{Field: "expr", Message: "required for " + s.Kind}
		}
	case KindConcat:
		if s.Path == "" {
			return &ValidationError{Field: "path", Message: "required for concat"}
		}
	case "":
		return &ValidationError{Field: "kind", Message: "required"}
	default:
		return &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown stage kind %q", s.Kind)}
	}
	return nil
}

// Label returns Name, or Kind when Name is empty.
func (s StageConfig) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Kind
}
