package types

import "errors"

// Closed set of domain error kinds. Services wrap these with %w and handlers
// map them to HTTP statuses at the boundary; nothing else inspects errors.
var (
	ErrBadRequest         = errors.New("invalid or missing input")
	ErrNotFound           = errors.New("requested item not found")
	ErrConflict           = errors.New("item already exists or conflict")
	ErrUnauthenticated    = errors.New("authentication required or invalid credentials")
	ErrForbidden          = errors.New("action forbidden")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrVerificationFailed = errors.New("invalid or expired OTP")
)
