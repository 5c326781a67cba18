package domain

import "errors"

var ErrNoCandidates = errors.New("review: no candidates")
