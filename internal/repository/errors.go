package repository

import "errors"

// ErrNotFound is returned when a lookup or a targeted write matches no document.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate document")
