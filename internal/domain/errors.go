package domain

import "errors"

// Sentinel errors surfaced by the core workflow. The HTTP layer maps them
// to response codes in pkg/util/errorutil.
var (
	// ErrInvalidRange marks a malformed time span on entry creation.
	ErrInvalidRange = errors.New("end time must be after start time")

	// ErrInvalidSelection marks an aggregation request over ids that are
	// missing, owned by someone else, or already claimed. Always
	// all-or-nothing.
	ErrInvalidSelection = errors.New("selection contains invalid or already billed entries")

	// ErrInconsistentDepartment marks a mixed-department aggregation request.
	ErrInconsistentDepartment = errors.New("selected entries span multiple departments")

	// ErrNotFound marks an operation on an unknown entry or billing run.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition marks an out-of-order approval transition in
	// strict pipeline mode.
	ErrInvalidTransition = errors.New("status transition not allowed from current status")
)
