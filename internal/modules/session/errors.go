package session

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("session not found")
)
