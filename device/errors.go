package device

import "errors"

// Failure classes surfaced by Init. Wrap collaborator errors so callers
// can test with errors.Is.
var (
	// ErrResourceUnavailable marks a named clock, reset, regulator,
	// interrupt, or register range that could not be obtained.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrMandatoryIPFailed marks a sub-block flagged mandatory for the
	// device's generation that failed bring-up.
	ErrMandatoryIPFailed = errors.New("mandatory ip failed")

	// ErrAllocationFailed marks an address-space or DMA allocation
	// failure.
	ErrAllocationFailed = errors.New("allocation failed")
)
