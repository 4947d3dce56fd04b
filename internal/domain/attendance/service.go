package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// ClockIn opens today's session for the authenticated employee
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut closes the open session and stores its classification
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// GetToday returns today's log and the live timer when a session is open
	GetToday(ctx context.Context) (TodayResponse, error)

	// Timer returns the current countdown of the open session
	Timer(ctx context.Context) (policy.TimerSnapshot, error)

	// GetMyAttendance retrieves attendance records for authenticated employee
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (admin/manager)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// UpdateAttendance edits or overrides a record (admin/manager)
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	ApproveOvertime(ctx context.Context, req ApproveOvertimeRequest) (AttendanceResponse, error)
	RejectOvertime(ctx context.Context, req RejectOvertimeRequest) (AttendanceResponse, error)

	DeleteAttendance(ctx context.Context, id string) error

	// GetMonthlySummary folds a month of logs into counts and the penalty
	GetMonthlySummary(ctx context.Context, req SummaryRequest) (MonthlySummaryResponse, error)

	// ExportAttendance renders a period as CSV or XLSX
	ExportAttendance(ctx context.Context, req ExportRequest) (ExportFile, error)
}
