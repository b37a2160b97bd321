package approval

import "errors"

var (
	// ErrRequestNotFound is returned when no matching approval request exists
	ErrRequestNotFound = errors.New("approval request not found")

	// ErrAlreadyProcessed is returned when the request reached a terminal
	// status before this action could consume it
	ErrAlreadyProcessed = errors.New("approval request already processed")

	// ErrSubjectNotFound is returned when the subject employee does not exist
	ErrSubjectNotFound = errors.New("subject employee not found")

	// ErrInvalidChanges is returned when the requested change set is malformed
	ErrInvalidChanges = errors.New("invalid change set")
)
