package list

import (
	"errors"
	"fmt"

	"github.com/dshills/rangelist/internal/change"
)

// Errors returned by list operations.
var (
	// ErrIndexOutOfRange indicates a position outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidArgument indicates a negative position or count.
	// It is the same value as change.ErrInvalidArgument.
	ErrInvalidArgument = change.ErrInvalidArgument
)

// IndexError describes an out-of-range access.
type IndexError struct {
	Index int
	Size  int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Size)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// CheckIndex returns an *IndexError when pos is not in [0,size).
func CheckIndex(pos, size int) error {
	if pos < 0 || pos >= size {
		return &IndexError{Index: pos, Size: size}
	}
	return nil
}
