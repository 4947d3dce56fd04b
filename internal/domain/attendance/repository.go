package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Methods scoped to a tenant take a companyID so one company can never read another's logs.
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves attendance by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Attendance, error)

	// GetByEmployeeAndDate returns nil when the employee has no log on date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	// GetOpenSession returns nil when the employee has no session without a check-out.
	GetOpenSession(ctx context.Context, employeeID string, companyID string) (*Attendance, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, attendance Attendance) error

	// CloseOpenSession writes the check-out only while the row is still open.
	// It reports false when another writer closed the session first.
	CloseOpenSession(ctx context.Context, attendance Attendance) (bool, error)

	Delete(ctx context.Context, id string, companyID string) error

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter, companyID string) ([]Attendance, int64, error)

	// GetMyAttendance retrieves attendance records for a specific employee
	GetMyAttendance(ctx context.Context, employeeID string, filter MyAttendanceFilter, companyID string) ([]Attendance, int64, error)

	// ListByPeriod returns every log dated within [start, end], optionally for one employee.
	ListByPeriod(ctx context.Context, companyID string, employeeID *string, start, end time.Time) ([]Attendance, error)

	// ListOpenSessions returns open sessions across all companies for the auto-checkout job.
	ListOpenSessions(ctx context.Context) ([]Attendance, error)
}
