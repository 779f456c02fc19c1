// Package change defines the range events emitted by observable lists.
//
// A list reports every mutation as one of four positional events or a
// coarse invalidation:
//
//	Changed{start, count}     items in [start, start+count) replaced in place
//	Inserted{start, count}    count new items appear at start
//	Removed{start, count}     count items disappear from start
//	Moved{from, to, count}    a contiguous span relocates so it begins at to
//	Invalidated               positional meaning is lost; resync fully
//
// Positional events always carry count > 0. A zero-length event is never
// emitted; producers drop it before delivery. Validate reports negative
// positions and counts, which dispatchers refuse to deliver.
//
// # Listeners
//
// Consumers implement Listener. The Funcs, EventFunc and OnAnyChange
// adapters cover the common partial cases:
//
//	l := &change.Funcs{
//	    Inserted: func(start, count int) { ... },
//	}
//	list.RegisterListener(l)
//
// Listeners are registered and deduplicated by identity, so adapters are
// always used through a pointer.
//
// # Composition
//
// Merge combines two consecutive events into one when the result has the
// same effect, and Batch uses it to coalesce runs of single-item events
// before they are delivered.
package change
