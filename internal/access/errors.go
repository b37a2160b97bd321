package access

import "errors"

var (
	// ErrForbidden is returned when the principal's role or scope does not
	// permit the requested action
	ErrForbidden = errors.New("forbidden")

	// ErrEmployeeNotFound is returned when an employee record does not exist
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrCycleDetected is returned when a manager reassignment would create a
	// cycle in the reporting hierarchy
	ErrCycleDetected = errors.New("reporting hierarchy cycle detected")
)
