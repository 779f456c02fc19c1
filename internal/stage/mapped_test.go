package stage

import (
	"errors"
	"strconv"
	"testing"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
)

func TestMap(t *testing.T) {
	root := list.NewSlice(1, 2, 3)
	m := NewMap[int, string](root, strconv.Itoa)
	mirror := mustMirror[string](t, m)

	_ = root.Insert(1, 7)
	_ = root.Set(0, 9)
	_ = root.Move(0, 3, 1)
	_ = root.Remove(1, 2)

	assertEvents(t, mirror.Events(),
		change.Inserted(1, 1), change.Changed(0, 1), change.Moved(0, 3, 1), change.Removed(1, 2))
	assertItems[string](t, m, "7", "9")
	if err := mirror.Check(); err != nil {
		t.Error(err)
	}
}

func TestMap_Get(t *testing.T) {
	root := list.NewSlice(4)
	m := NewMap[int, int](root, func(v int) int { return v * v })

	if v, err := m.Get(0); err != nil || v != 16 {
		t.Errorf("Get(0) = %d, %v, want 16", v, err)
	}
	if _, err := m.Get(1); !errors.Is(err, list.ErrIndexOutOfRange) {
		t.Errorf("Get(1) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestMap_Lifecycle(t *testing.T) {
	root := list.NewSlice(1)
	m := NewMap[int, int](root, func(v int) int { return -v })
	l := change.OnAnyChange(func() {})

	m.RegisterListener(l)
	if !m.Active() || !root.HasListeners() {
		t.Fatal("Map did not activate")
	}
	m.Dispose()
	if m.Active() || root.HasListeners() {
		t.Error("Map still registered after Dispose")
	}
}
