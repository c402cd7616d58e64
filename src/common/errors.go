// Package common holds the error taxonomy shared by the store, the
// services and the HTTP layer. Every core operation fails with exactly
// one of these sentinels (possibly wrapped); handlers match with
// errors.Is and map them to status codes.
package common

import "errors"

var (
	// ErrNotFound: referenced user/connection/message/post is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists: duplicate connection request or taken handle/email.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidTransition: state machine precondition violated, e.g.
	// accepting a non-pending or self-initiated connection request.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrForbidden: actor lacks rights for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrEmptyInput: blank message or post body.
	ErrEmptyInput = errors.New("empty input")

	// ErrSelfReference: acting on oneself where disallowed.
	ErrSelfReference = errors.New("self reference")

	// ErrTransient: store timeout or unavailability, safe to retry.
	ErrTransient = errors.New("transient store error")

	// ErrUnauthorized: bad credentials or invalid token.
	ErrUnauthorized = errors.New("unauthorized")
)
