package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	// ErrSlotUnavailable reports that the slot's conditional transition to
	// locked matched nothing: someone else holds it or it is already filled.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrListingUnavailable reports that a listing has no available slot left.
	ErrListingUnavailable = errors.New("listing has no available slots")

	// ErrActiveCommitment is the duplicate-key translation of the
	// one-active-commitment-per-user index.
	ErrActiveCommitment = errors.New("user already has an active commitment")

	// ErrActiveSession is the duplicate-key translation of the
	// one-active-session-per-user index.
	ErrActiveSession = errors.New("user already has an active checkout session")

	ErrNotOwner = errors.New("resource is owned by another user")

	ErrCommitmentNotActive = errors.New("commitment is not active")

	ErrSessionNotActive = errors.New("checkout session is not active")

	ErrSessionExpired = errors.New("checkout session has expired")

	// ErrSlotStateConflict reports a guarded slot transition that matched
	// nothing, meaning the slot left the expected state concurrently.
	ErrSlotStateConflict = errors.New("slot is not in the expected state")
)
