package errors

import "errors"

var (
	ErrNotFound = errors.New("listing not found")

	ErrInvalidID = errors.New("invalid listing ID format")

	// ErrSlotsInUse blocks deletion while any slot is locked or filled.
	ErrSlotsInUse = errors.New("listing has slots that are locked or filled")

	ErrNotOwner = errors.New("listing is owned by another user")
)
