package apperrors

import "errors"

// Standard application errors
var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when the input provided by the client is invalid.
	ErrInvalidInput = errors.New("invalid input provided")

	// ErrUnauthorized is returned when the caller lacks the role required for an operation.
	ErrUnauthorized = errors.New("unauthorized access")

	// ErrForbidden is returned when the caller is known but may not act on the resource.
	ErrForbidden = errors.New("forbidden access")

	// ErrConflict is returned when a request conflicts with current state of the target resource.
	ErrConflict = errors.New("request conflicts with current state")

	// ErrUnavailable is returned when the service refuses mutations for the time being.
	ErrUnavailable = errors.New("service unavailable")

	// ErrExternalServiceFailure is returned when an interaction with an external service fails.
	ErrExternalServiceFailure = errors.New("external service interaction failed")

	// ErrInternal is returned for unexpected internal system errors.
	ErrInternal = errors.New("internal system error")
)
