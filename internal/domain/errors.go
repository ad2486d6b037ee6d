package domain

import "errors"

var (
	// ErrNotFound is returned when something is not found
	ErrNotFound = errors.New("item not found")
	// ErrStoreUnavailable is returned when the store cannot be reached or set up
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStoreQuery is returned when the store accepted a query but failed to run it
	ErrStoreQuery = errors.New("store query failed")
)
