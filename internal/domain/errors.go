package domain

import "errors"

// Request error taxonomy. Handlers map these to HTTP statuses; anything
// else coming out of the repository is treated as a datastore failure.
var (
	// ErrInvalidParameter marks bad user input (day, period, bbox, threshold, min_days)
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound marks a reference to a link that does not exist
	ErrNotFound = errors.New("not found")
)
