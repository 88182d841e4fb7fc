package gate

import "errors"

// Standard error types for gate operations
var (
	ErrRevisionNotFound    = errors.New("gate: revision not found")
	ErrManifestUnavailable = errors.New("gate: current manifest unavailable")
	ErrSourceUnavailable   = errors.New("gate: manifest source unavailable")
	ErrPolicyEvaluation    = errors.New("gate: policy evaluation failed")
	ErrPolicyLoad          = errors.New("gate: policy bundle could not be loaded")
	ErrConfigLoad          = errors.New("gate: configuration could not be loaded")
	ErrOutputWrite         = errors.New("gate: signals could not be written")
)

// IsWrappingError checks if err is wrapping the target error using errors.Is.
// This is a helper for testing error wrapping.
func IsWrappingError(err, target error) bool {
	return errors.Is(err, target)
}
