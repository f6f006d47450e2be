package slug

import "errors"

var (
	// ErrTaken is returned by a ClaimFunc when the candidate already exists.
	ErrTaken = errors.New("slug already taken")
	// ErrAllocationExhausted is returned when every attempt collided.
	ErrAllocationExhausted = errors.New("could not allocate a unique slug")
	// ErrRandomSource is returned when the random source fails.
	ErrRandomSource = errors.New("failed to read from random source")
)
