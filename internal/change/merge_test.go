package change

import "testing"

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		prev   Event
		next   Event
		want   Event
		wantOK bool
	}{
		{"changed adjacent", Changed(0, 2), Changed(2, 1), Changed(0, 3), true},
		{"changed overlap", Changed(2, 3), Changed(1, 2), Changed(1, 4), true},
		{"changed gap", Changed(0, 1), Changed(2, 1), Event{}, false},
		{"inserted continues", Inserted(1, 1), Inserted(2, 1), Inserted(1, 2), true},
		{"inserted inside", Inserted(1, 3), Inserted(2, 1), Inserted(1, 4), true},
		{"inserted before", Inserted(3, 1), Inserted(2, 1), Event{}, false},
		{"removed same start", Removed(4, 1), Removed(4, 2), Removed(4, 3), true},
		{"removed preceding", Removed(4, 1), Removed(2, 2), Removed(2, 3), true},
		{"removed apart", Removed(4, 1), Removed(6, 1), Event{}, false},
		{"different kinds", Inserted(0, 1), Removed(0, 1), Event{}, false},
		{"moves never merge", Moved(0, 1, 1), Moved(1, 2, 1), Event{}, false},
		{"invalidated never merges", Invalidated(), Invalidated(), Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Merge(tt.prev, tt.next)
			if ok != tt.wantOK {
				t.Fatalf("Merge(%v, %v) ok = %v, want %v", tt.prev, tt.next, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Merge(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestBatch_Coalesces(t *testing.T) {
	var b Batch
	b.Add(Changed(3, 1))
	b.Add(Changed(4, 1))
	b.Add(Removed(5, 1))
	b.Add(Removed(5, 1))
	b.Add(Inserted(5, 1))
	b.Add(Inserted(6, 1))

	want := []Event{Changed(3, 2), Removed(5, 2), Inserted(5, 2)}
	got := b.Events()
	if len(got) != len(want) {
		t.Fatalf("Events() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBatch_DropsEmpty(t *testing.T) {
	var b Batch
	b.Add(Inserted(0, 0))
	b.Add(Removed(1, -1))
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestBatch_InvalidatedAbsorbs(t *testing.T) {
	var b Batch
	b.Add(Inserted(0, 1))
	b.Add(Invalidated())
	b.Add(Removed(0, 1))

	got := b.Events()
	if len(got) != 1 || got[0] != Invalidated() {
		t.Errorf("Events() = %v, want [invalidated]", got)
	}
}

func TestBatch_Flush(t *testing.T) {
	var b Batch
	b.Add(Inserted(0, 1))
	b.Add(Changed(4, 1))

	var got []Event
	b.Flush(func(e Event) { got = append(got, e) })

	if len(got) != 2 {
		t.Fatalf("flushed %d events, want 2", len(got))
	}
	if b.Len() != 0 {
		t.Errorf("Len() after Flush = %d, want 0", b.Len())
	}
}
