package services

import "errors"

// Service-level failures handlers map onto HTTP statuses. Store-level
// lookup misses surface as store.ErrNotFound.
var (
	// ErrSelfLink is returned when a user tries to link with their own
	// account.
	ErrSelfLink = errors.New("cannot link with yourself")

	// ErrAlreadyLinked is returned when either party of a link request
	// already has a partner.
	ErrAlreadyLinked = errors.New("user is already linked to a partner")

	// ErrDuplicateRequest is returned when a pending request for the
	// same (from, to) pair already exists.
	ErrDuplicateRequest = errors.New("a pending link request already exists")

	// ErrRequestClosed is returned when responding to a request that
	// has already been accepted or declined.
	ErrRequestClosed = errors.New("link request is no longer pending")

	// ErrInvalidDecision is returned when a respond decision is neither
	// accepted nor declined.
	ErrInvalidDecision = errors.New("decision must be accepted or declined")

	// ErrNotLinked is returned by operations that require an
	// established partner link.
	ErrNotLinked = errors.New("user has no linked partner")

	// ErrForbidden is returned when the caller does not own the record
	// the operation targets.
	ErrForbidden = errors.New("record belongs to another user")
)
