package domain

import "errors"

var ErrNotFound = errors.New("sticky: not found")
