package change

import (
	"errors"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindChanged, "changed"},
		{KindInserted, "inserted"},
		{KindRemoved, "removed"},
		{KindMoved, "moved"},
		{KindInvalidated, "invalidated"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Changed(0, 3), "changed{0,3}"},
		{Inserted(1, 2), "inserted{1,2}"},
		{Removed(4, 1), "removed{4,1}"},
		{Moved(1, 3, 1), "moved{1,3,1}"},
		{Invalidated(), "invalidated"},
	}

	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{"changed ok", Changed(0, 1), false},
		{"inserted ok", Inserted(5, 2), false},
		{"moved ok", Moved(0, 4, 2), false},
		{"invalidated", Invalidated(), false},
		{"zero count", Inserted(0, 0), true},
		{"negative count", Removed(0, -1), true},
		{"negative start", Changed(-1, 1), true},
		{"negative destination", Moved(0, -2, 1), true},
		{"unknown kind", Event{Kind: Kind(9), Count: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestEvent_Offset(t *testing.T) {
	if got := Inserted(1, 2).Offset(3); got != Inserted(4, 2) {
		t.Errorf("Inserted.Offset(3) = %v", got)
	}
	if got := Moved(0, 2, 1).Offset(5); got != Moved(5, 7, 1) {
		t.Errorf("Moved.Offset(5) = %v", got)
	}
	if got := Invalidated().Offset(5); got != Invalidated() {
		t.Errorf("Invalidated.Offset(5) = %v", got)
	}
}

func TestEvent_SizeDelta(t *testing.T) {
	if d := Inserted(0, 3).SizeDelta(); d != 3 {
		t.Errorf("Inserted SizeDelta = %d, want 3", d)
	}
	if d := Removed(0, 2).SizeDelta(); d != -2 {
		t.Errorf("Removed SizeDelta = %d, want -2", d)
	}
	if d := Changed(0, 2).SizeDelta(); d != 0 {
		t.Errorf("Changed SizeDelta = %d, want 0", d)
	}
	if d := Moved(0, 1, 2).SizeDelta(); d != 0 {
		t.Errorf("Moved SizeDelta = %d, want 0", d)
	}
}

func TestDeliver(t *testing.T) {
	var got []Event
	l := &Funcs{
		Changed:     func(s, c int) { got = append(got, Changed(s, c)) },
		Inserted:    func(s, c int) { got = append(got, Inserted(s, c)) },
		Removed:     func(s, c int) { got = append(got, Removed(s, c)) },
		Moved:       func(f, to, c int) { got = append(got, Moved(f, to, c)) },
		Invalidated: func() { got = append(got, Invalidated()) },
	}

	want := []Event{Changed(0, 1), Inserted(1, 2), Removed(2, 3), Moved(0, 3, 1), Invalidated()}
	for _, e := range want {
		Deliver(l, e)
	}

	if len(got) != len(want) {
		t.Fatalf("delivered %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFuncs_NilCallbacks(t *testing.T) {
	l := &Funcs{}
	// Must not panic.
	Deliver(l, Changed(0, 1))
	Deliver(l, Inserted(0, 1))
	Deliver(l, Removed(0, 1))
	Deliver(l, Moved(0, 1, 1))
	Deliver(l, Invalidated())
}

func TestOnEvent(t *testing.T) {
	var got []Event
	l := OnEvent(func(e Event) { got = append(got, e) })

	l.OnInserted(2, 1)
	l.OnMoved(1, 0, 2)
	l.OnInvalidated()

	want := []Event{Inserted(2, 1), Moved(1, 0, 2), Invalidated()}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOnAnyChange(t *testing.T) {
	calls := 0
	l := OnAnyChange(func() { calls++ })

	l.OnChanged(0, 1)
	l.OnRemoved(0, 1)
	l.OnInvalidated()

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}
