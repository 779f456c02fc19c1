// Package changetest provides listeners for testing observable lists.
package changetest

import (
	"slices"
	"strings"

	"github.com/dshills/rangelist/internal/change"
)

// Recorder is a Listener that keeps every event it receives.
type Recorder struct {
	events []change.Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []change.Event {
	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.events = nil
}

// OnChanged implements change.Listener.
func (r *Recorder) OnChanged(start, count int) {
	r.events = append(r.events, change.Changed(start, count))
}

// OnInserted implements change.Listener.
func (r *Recorder) OnInserted(start, count int) {
	r.events = append(r.events, change.Inserted(start, count))
}

// OnRemoved implements change.Listener.
func (r *Recorder) OnRemoved(start, count int) {
	r.events = append(r.events, change.Removed(start, count))
}

// OnMoved implements change.Listener.
func (r *Recorder) OnMoved(from, to, count int) {
	r.events = append(r.events, change.Moved(from, to, count))
}

// OnInvalidated implements change.Listener.
func (r *Recorder) OnInvalidated() {
	r.events = append(r.events, change.Invalidated())
}

// Equal reports whether two event sequences are identical.
func Equal(a, b []change.Event) bool {
	return slices.Equal(a, b)
}

// Format renders events as "[inserted{0,1} removed{2,1}]".
func Format(events []change.Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

var _ change.Listener = (*Recorder)(nil)
