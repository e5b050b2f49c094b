package startups

import "errors"

// ErrNotFound indicates the startup does not exist or belongs to another user.
var ErrNotFound = errors.New("startup not found")

// ErrInvalidInput indicates a missing or malformed required field.
var ErrInvalidInput = errors.New("invalid startup input")
