package assignment

import "errors"

// Local form validation errors. Each missing field gets its own sentinel
// so the UI can point at the exact input; none of these reach the platform.
var (
	ErrMissingBookingDate = errors.New("booking date is required")
	ErrMissingProperty    = errors.New("property selection is required")
	ErrMissingStartDate   = errors.New("start date is required")
	ErrMissingEndDate     = errors.New("end date is required")
)

// Submission rejections mapped from platform error codes. Anything else
// the platform returns stays unclassified.
var (
	ErrAlreadyActive = errors.New("booking date already has an active assignment")
	ErrDateConflict  = errors.New("property is unavailable for the requested dates")
)

// Lookup errors. The two not-found cases stay distinct: an unknown date id
// and a known date whose parent request is gone need different messages.
var (
	ErrDateUnknown    = errors.New("booking date id unknown")
	ErrRequestMissing = errors.New("request data missing for a known date")
)
