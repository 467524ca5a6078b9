package stores

import "errors"

var (
	// ErrNotFound means the requested room or location does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means an insert violated a uniqueness constraint
	// (duplicate address or token).
	ErrConflict = errors.New("duplicate entry")
	// ErrValidation means the input was malformed before it ever reached
	// the database.
	ErrValidation = errors.New("invalid input")
	// ErrUnavailable means the check could not be completed at all. Callers
	// must treat the result as unknown, never as a negative answer.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrTokenSpaceExhausted means token minting kept colliding with
	// existing rooms and gave up.
	ErrTokenSpaceExhausted = errors.New("token space exhausted")
)
