package repl

import "errors"

// ErrOutOfBounds is returned for a history index outside the recorded
// entries.
var ErrOutOfBounds = errors.New("index out of range")
