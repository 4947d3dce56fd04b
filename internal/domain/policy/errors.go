package policy

import "errors"

var (
	ErrInvalidTimeRange = errors.New("check-out time cannot be before check-in time")
	ErrInvalidConfig    = errors.New("invalid attendance policy")
)
