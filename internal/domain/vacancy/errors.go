package vacancy

import "errors"

// Sentinel kinds for hire and promotion failures.
var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeNotActive = errors.New("employee not active")
	ErrPositionNotOpen   = errors.New("position not open")
	ErrNotHigherLevel    = errors.New("target position is not a higher level")
	ErrApplicantNotFound = errors.New("applicant not found")
)
