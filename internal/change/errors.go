package change

import "errors"

// ErrInvalidArgument indicates a malformed event or mutation parameter,
// such as a negative position or count.
var ErrInvalidArgument = errors.New("invalid argument")
