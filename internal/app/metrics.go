package app

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
	"github.com/dshills/rangelist/internal/observe"
)

const metricsNamespace = "rangelist"

// Metrics records list activity on a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	events       *prometheus.CounterVec
	size         *prometheus.GaugeVec
	listeners    *prometheus.GaugeVec
	reloads      *prometheus.CounterVec
	scriptErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Range events dispatched, by list and kind.",
		}, []string{"list", "kind"}),
		size: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "list_size",
			Help:      "Number of items in a list after its last event.",
		}, []string{"list"}),
		listeners: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "listeners",
			Help:      "Listeners registered on a list after its last event.",
		}, []string{"list"}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reloads_total",
			Help:      "Source file reloads, by result.",
		}, []string{"result"}),
		scriptErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "script_errors_total",
			Help:      "Lua evaluation errors, by stage.",
		}, []string{"stage"}),
	}
}

type listenerCounter interface {
	ListenerCount() int
}

// Observe registers a listener on l that records its events under name.
// Unsubscribe the returned handle to stop recording. Observe must run on
// the goroutine that owns l.
func (m *Metrics) Observe(name string, l list.List[string]) *observe.Subscription[change.Listener] {
	record := func() {
		m.size.WithLabelValues(name).Set(float64(l.Size()))
		if lc, ok := l.(listenerCounter); ok {
			m.listeners.WithLabelValues(name).Set(float64(lc.ListenerCount()))
		}
	}
	sub := list.Subscribe(l, change.OnEvent(func(e change.Event) {
		m.events.WithLabelValues(name, e.Kind.String()).Inc()
		record()
	}))
	record()
	return sub
}

// RecordReload counts a reload.
func (m *Metrics) RecordReload(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reloads.WithLabelValues(result).Inc()
}

// RecordScriptError counts a Lua failure in stage.
func (m *Metrics) RecordScriptError(stage string) {
	m.scriptErrors.WithLabelValues(stage).Inc()
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
