package booking

import "errors"

var (
	ErrRequestNotFound = errors.New("booking request not found")
)
