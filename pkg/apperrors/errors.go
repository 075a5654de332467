package apperrors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUpstreamUnavailable  = errors.New("upstream module unavailable")
	ErrInvalidTransition    = errors.New("invalid lifecycle transition")
	ErrValidation           = errors.New("validation failed")
	ErrGenerationInProgress = errors.New("generation already in progress for user")
)
