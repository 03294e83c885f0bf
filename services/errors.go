package services

import "errors"

// Sentinel errors returned by the domain services. Controllers map these to
// HTTP status codes with errors.Is.
var (
	ErrNotAuthorized        = errors.New("not authorized")
	ErrAlreadyResolved      = errors.New("request already resolved")
	ErrDuplicateRequest     = errors.New("an active request already exists between these users")
	ErrSelfRequest          = errors.New("cannot send a request to yourself")
	ErrNotAMatchParticipant = errors.New("user is not a participant of this match")
	ErrEmptyMessage         = errors.New("message needs text or an attachment")
	ErrNotFound             = errors.New("not found")
)
