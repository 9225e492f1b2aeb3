package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrUserNotFound indicates the user does not exist on the upstream platform.
	// Distinct from an empty followings list, which is a valid result.
	ErrUserNotFound = errors.New("user not found on platform")

	// ErrUnsupportedPlatform indicates a platform outside the closed supported set.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrUpstreamFetch indicates the platform fetcher failed. The orchestrator
	// never retries this automatically.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrDeliverySend indicates a digest could not be delivered to a recipient.
	// Isolated per recipient and recorded as a failed outcome.
	ErrDeliverySend = errors.New("digest delivery failed")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
