package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrInvalidID = errors.New("invalid user ID format")

	ErrDuplicateEmail = errors.New("email is already registered")

	ErrInvalidCredentials = errors.New("invalid email or password")
)
