package service

import "errors"

var (
	// ErrNotFound is returned when a resource does not exist or belongs to
	// another family.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned when request input fails validation.
	ErrValidation = errors.New("invalid input")
)
