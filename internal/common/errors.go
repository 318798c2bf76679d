package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an orchestrator operation is attempted
	// in a state that does not accept it. It is a non-fatal signal.
	ErrInvalidState = errors.New("invalid state")

	// ErrMalformedResponse marks a service payload that lacks required fields
	// or cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrValidation marks a plant record rejected on ingestion.
	ErrValidation = errors.New("validation error")

	// ErrInvalidToken is returned when a stored session token cannot be parsed.
	ErrInvalidToken = errors.New("invalid token")
)
