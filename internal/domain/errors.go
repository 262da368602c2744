package domain

import "errors"

// Sentinel errors for the application. HTTP handlers map these to status
// codes; the websocket layer maps them to error events.
var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("resource not found")
	ErrStoreUnavailable = errors.New("message store unavailable")
)
