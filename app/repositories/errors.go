package repositories

import "errors"

// ErrNotFound is returned when a document (or any document matching a
// filter) does not exist.
var ErrNotFound = errors.New("not found")
