package lazarsfeld

import "github.com/datar-psa/lazarsfeld/api"

var (
	// ErrNoTokenSource is returned when an LLM-backed scorer has no model-call collaborator
	ErrNoTokenSource = api.ErrNoTokenSource
	// ErrModelCallFailed wraps failures of the model-call collaborator
	ErrModelCallFailed = api.ErrModelCallFailed
	// ErrInvalidConfig is returned when a concept configuration cannot be used
	ErrInvalidConfig = api.ErrInvalidConfig
	// ErrRatingOutOfRange is returned when a human rating is outside 1..5
	ErrRatingOutOfRange = api.ErrRatingOutOfRange
	// ErrUnsupportedStore is returned for result store URLs with an unknown scheme
	ErrUnsupportedStore = api.ErrUnsupportedStore
)
