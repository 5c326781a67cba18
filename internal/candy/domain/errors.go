package domain

import "errors"

var (
	// ErrCooldown is returned when a member draws or gives again before
	// the cooldown window has elapsed.
	ErrCooldown = errors.New("candy: cooldown active")

	// ErrSelfGive is returned when a member tries to give candy to
	// themselves.
	ErrSelfGive = errors.New("candy: cannot give to self")
)
