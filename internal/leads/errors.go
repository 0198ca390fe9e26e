package leads

import "errors"

var (
	// ErrMissingName is returned when the first name is absent
	ErrMissingName = errors.New("first name is required")

	// ErrMissingEmail is returned when the email is absent
	ErrMissingEmail = errors.New("email is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
