package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// them to stable HTTP status categories so clients can tell "fix your input"
// from "state changed elsewhere" from "not allowed".
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidFilter = errors.New("invalid filter")
)

// Sentinel errors for user/identity operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)
