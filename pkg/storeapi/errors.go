package storeapi

import "errors"

var (
	// ErrInvalidRequest is returned when the upstream rejects the request parameters
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnauthorized is returned when the session token is missing, invalid or expired
	ErrUnauthorized = errors.New("unauthorized: invalid session token")

	// ErrNotFound is returned when the requested resource does not exist upstream
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned when there's a network communication error
	ErrNetwork = errors.New("network error")

	// ErrRemote is returned for any other upstream failure
	ErrRemote = errors.New("upstream error")
)
