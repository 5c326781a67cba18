package domain

import "errors"

// ErrNotFound is returned by identity lookups when no live row matches.
var ErrNotFound = errors.New("mirror: entity not found")
