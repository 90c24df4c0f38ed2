package entity

import "errors"

var (
	// ErrInvalidInput marks a malformed address or a missing required parameter.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamUnavailable marks a network/provider failure or a non-success response.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrAlreadyExists is returned when a favorite for (user, address) already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized is returned when no user identity accompanies a request.
	ErrUnauthorized = errors.New("unauthorized")
)
