package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrOpenSessionExists = errors.New("you still have an open attendance session")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Location errors
	ErrLocationRequired            = errors.New("location unavailable: a location note is required to check out")
	ErrLocationExplanationRequired = errors.New("check-out location is far from check-in location: a location note is required")

	// General errors
	ErrAttendanceNotFound     = errors.New("attendance record not found")
	ErrUnauthorized           = errors.New("unauthorized to access this attendance record")
	ErrOverrideReasonRequired = errors.New("a reason is required to override an attendance record")
	ErrOvertimeNotPending     = errors.New("attendance has no overtime awaiting review")
	ErrEmployeeRequired       = errors.New("an employee profile is required for this action")
)
