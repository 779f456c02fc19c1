package app

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dshills/rangelist/internal/list"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()
	l := list.NewSlice("a", "b")

	sub := m.Observe("root", l)
	if got := testutil.ToFloat64(m.size.WithLabelValues("root")); got != 2 {
		t.Errorf("initial size = %v, want 2", got)
	}

	l.Append("c")
	l.Append("d")
	_ = l.Remove(0, 1)
	l.Replace(nil)

	tests := []struct {
		kind string
		want float64
	}{
		{"inserted", 2},
		{"removed", 1},
		{"invalidated", 1},
		{"changed", 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.events.WithLabelValues("root", tt.kind)); got != tt.want {
			t.Errorf("events{%s} = %v, want %v", tt.kind, got, tt.want)
		}
	}
	if got := testutil.ToFloat64(m.size.WithLabelValues("root")); got != 0 {
		t.Errorf("size = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.listeners.WithLabelValues("root")); got != 1 {
		t.Errorf("listeners = %v, want 1", got)
	}

	sub.Unsubscribe()
	l.Append("e")
	if got := testutil.ToFloat64(m.events.WithLabelValues("root", "inserted")); got != 2 {
		t.Errorf("events recorded after unregister: %v", got)
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordReload(nil)
	m.RecordReload(nil)
	m.RecordReload(errors.New("gone"))
	m.RecordScriptError("upper")

	if got := testutil.ToFloat64(m.reloads.WithLabelValues("ok")); got != 2 {
		t.Errorf("reloads{ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.reloads.WithLabelValues("error")); got != 1 {
		t.Errorf("reloads{error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.scriptErrors.WithLabelValues("upper")); got != 1 {
		t.Errorf("script_errors{upper} = %v, want 1", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordReload(nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `rangelist_reloads_total{result="ok"} 1`) {
		t.Errorf("exposition missing reload counter:\n%s", body)
	}
}
