package view

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := range w {
		r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item %d", i)
	}
	return out
}

func TestView_Render(t *testing.T) {
	s := newScreen(t, 20, 4)
	l := list.NewSlice("alpha", "beta")
	v := New(s, l)
	defer v.Close()

	if got := rowText(s, 0); got != "alpha" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(s, 1); got != "beta" {
		t.Errorf("row 1 = %q", got)
	}
	if got := rowText(s, 2); got != "" {
		t.Errorf("row 2 = %q, want empty", got)
	}
	if got := rowText(s, 3); got != "1-2 of 2" {
		t.Errorf("status = %q", got)
	}
}

func TestView_RendersOnEvents(t *testing.T) {
	s := newScreen(t, 20, 3)
	l := list.NewSlice("a")
	var seen []change.Event
	v := New(s, l, WithEventHook(func(e change.Event) { seen = append(seen, e) }))
	defer v.Close()

	_ = l.Insert(0, "z")
	if got := rowText(s, 0); got != "z" {
		t.Errorf("row 0 after insert = %q", got)
	}
	l.Clear()
	if got := rowText(s, 2); got != "empty" {
		t.Errorf("status after clear = %q", got)
	}
	if len(seen) != 2 {
		t.Errorf("hook saw %d events, want 2", len(seen))
	}
}

func TestView_KeepsPosition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(l *list.Slice[string])
		wantTop int
	}{
		{"insert above", func(l *list.Slice[string]) { _ = l.Insert(0, "x", "y") }, 7},
		{"insert below", func(l *list.Slice[string]) { _ = l.Insert(10, "x") }, 5},
		{"remove above", func(l *list.Slice[string]) { _ = l.Remove(1, 2) }, 3},
		{"remove across top", func(l *list.Slice[string]) { _ = l.Remove(3, 4) }, 3},
		{"remove below", func(l *list.Slice[string]) { _ = l.Remove(12, 2) }, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScreen(t, 20, 5)
			l := list.NewSlice(items(20)...)
			v := New(s, l)
			defer v.Close()

			v.Scroll(5)
			tt.mutate(l)
			if v.Top() != tt.wantTop {
				t.Errorf("Top() = %d, want %d", v.Top(), tt.wantTop)
			}
		})
	}
}

func TestView_Keys(t *testing.T) {
	s := newScreen(t, 20, 5)
	l := list.NewSlice(items(20)...)
	v := New(s, l)
	defer v.Close()

	key := func(k tcell.Key, r rune) bool {
		return v.HandleEvent(tcell.NewEventKey(k, r, tcell.ModNone))
	}

	steps := []struct {
		name    string
		key     tcell.Key
		r       rune
		wantTop int
	}{
		{"down", tcell.KeyDown, 0, 1},
		{"j", tcell.KeyRune, 'j', 2},
		{"up", tcell.KeyUp, 0, 1},
		{"page down", tcell.KeyPgDn, 0, 4},
		{"end", tcell.KeyEnd, 0, 16},
		{"down clamps", tcell.KeyDown, 0, 16},
		{"home", tcell.KeyHome, 0, 0},
		{"up clamps", tcell.KeyUp, 0, 0},
	}
	for _, st := range steps {
		if key(st.key, st.r) {
			t.Fatalf("%s: quit requested", st.name)
		}
		if v.Top() != st.wantTop {
			t.Errorf("%s: Top() = %d, want %d", st.name, v.Top(), st.wantTop)
		}
	}
	if got := rowText(s, 0); got != "item 0" {
		t.Errorf("row 0 = %q", got)
	}

	if !key(tcell.KeyRune, 'q') {
		t.Error("q did not request quit")
	}
	if !key(tcell.KeyEscape, 0) {
		t.Error("Escape did not request quit")
	}
}

func TestView_Status(t *testing.T) {
	s := newScreen(t, 20, 3)
	l := list.NewSlice("a")
	v := New(s, l, WithStatus(func() string { return "custom" }))
	defer v.Close()

	if got := rowText(s, 2); got != "custom" {
		t.Errorf("status = %q", got)
	}
}

func TestView_Close(t *testing.T) {
	s := newScreen(t, 20, 3)
	l := list.NewSlice("a")
	v := New(s, l)
	v.Close()

	if l.HasListeners() {
		t.Error("list still has listeners after Close")
	}
}

func TestView_Run(t *testing.T) {
	s := newScreen(t, 20, 5)
	l := list.NewSlice(items(20)...)
	v := New(s, l)
	defer v.Close()

	posted := make(chan func(), 8)
	post := func(fn func()) error {
		posted <- fn
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background(), post) }()

	s.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	// The simulation screen may queue a resize first, so run whatever is
	// posted until Run returns.
	deadline := time.After(2 * time.Second)
	for running := true; running; {
		select {
		case fn := <-posted:
			fn()
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
			running = false
		case <-deadline:
			t.Fatal("Run() did not return after q")
		}
	}
	if v.Top() != 1 {
		t.Errorf("Top() = %d, want 1", v.Top())
	}
}
