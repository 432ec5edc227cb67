// services/errors.go
package services

import "errors"

// Sentinel errors shared by the session and redemption services. Handlers
// translate these into HTTP statuses; anything else is an infrastructure
// failure and maps to 500.
var (
	ErrValidation      = errors.New("invalid input")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("session belongs to another player")
	ErrAlreadyFinished = errors.New("session already finished")
)
