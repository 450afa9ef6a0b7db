package api

import "errors"

var (
	// ErrNoTokenSource is returned when an LLM-backed scorer has no model-call collaborator
	ErrNoTokenSource = errors.New("token source is required")
	// ErrModelCallFailed wraps failures of the model-call collaborator
	ErrModelCallFailed = errors.New("model call failed")
	// ErrInvalidConfig is returned when a concept configuration cannot be used
	ErrInvalidConfig = errors.New("invalid concept configuration")
	// ErrRatingOutOfRange is returned when a human rating is outside 1..5
	ErrRatingOutOfRange = errors.New("rating out of range")
	// ErrUnsupportedStore is returned for result store URLs with an unknown scheme
	ErrUnsupportedStore = errors.New("unsupported result store")
)
