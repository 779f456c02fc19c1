// Package list defines the observable ordered collection.
//
// A List exposes its size, positional lookup and listener registration.
// Slice is the mutable root implementation: every mutation updates the
// backing storage first and then dispatches exactly one range event to the
// listeners registered at that moment, before the call returns.
//
// Derived lists in package stage implement the same interface, so lists
// compose to arbitrary depth.
//
// Lists are single-threaded. Callers that mutate from several goroutines
// serialize through package loop.
package list
