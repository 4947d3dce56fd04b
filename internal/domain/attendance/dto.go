package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// ClockInRequest carries the device position when the browser could provide one.
type ClockInRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	errs := validateCoordinates(r.Latitude, r.Longitude, r.Accuracy)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ClockOutRequest requires LocationNote when coordinates are missing or far
// from the check-in position. That rule needs the stored session and is
// enforced by the service.
type ClockOutRequest struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	LocationNote *string  `json:"location_note,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	errs := validateCoordinates(r.Latitude, r.Longitude, r.Accuracy)

	if r.LocationNote != nil && len(*r.LocationNote) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "location_note",
			Message: "location_note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HasCoordinates reports whether both latitude and longitude were sent.
func (r *ClockOutRequest) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// HasLocationNote reports whether a non-blank explanation was sent.
func (r *ClockOutRequest) HasLocationNote() bool {
	return r.LocationNote != nil && !validator.IsEmpty(*r.LocationNote)
}

func validateCoordinates(lat, lng, accuracy *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if (lat == nil) != (lng == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be sent together",
		})
	}

	if lat != nil && !validator.IsValidLatitude(*lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if lng != nil && !validator.IsValidLongitude(*lng) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if accuracy != nil && *accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	return errs
}

type AttendanceResponse struct {
	ID                     string          `json:"id"`
	EmployeeID             string          `json:"employee_id"`
	EmployeeName           *string         `json:"employee_name,omitempty"`
	Date                   string          `json:"date"`
	DayType                string          `json:"day_type"`
	ClockInTime            string          `json:"clock_in_time"`
	ClockOutTime           *string         `json:"clock_out_time,omitempty"`
	DurationMs             *int64          `json:"duration_ms,omitempty"`
	WorkingHours           *float64        `json:"working_hours,omitempty"`
	Status                 string          `json:"status"`
	StatusLabel            string          `json:"status_label"`
	IsLate                 bool            `json:"is_late"`
	LateCountable          bool            `json:"late_countable"`
	DayCredit              decimal.Decimal `json:"day_credit"`
	ExtraWorkedHours       float64         `json:"extra_worked_hours"`
	IsManualOverride       bool            `json:"is_manual_override"`
	OverrideReason         *string         `json:"override_reason,omitempty"`
	AutoCheckout           bool            `json:"auto_checkout"`
	OvertimeStatus         string          `json:"overtime_status"`
	ClockInLatitude        *float64        `json:"clock_in_latitude,omitempty"`
	ClockInLongitude       *float64        `json:"clock_in_longitude,omitempty"`
	ClockInAccuracy        *float64        `json:"clock_in_accuracy,omitempty"`
	ClockOutLatitude       *float64        `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude      *float64        `json:"clock_out_longitude,omitempty"`
	ClockOutAccuracy       *float64        `json:"clock_out_accuracy,omitempty"`
	LocationNote           *string         `json:"location_note,omitempty"`
	CheckoutDistanceMeters *float64        `json:"checkout_distance_meters,omitempty"`
	ReviewedBy             *string         `json:"reviewed_by,omitempty"`
	ReviewedAt             *string         `json:"reviewed_at,omitempty"`
	RejectionReason        *string         `json:"rejection_reason,omitempty"`
	CreatedAt              string          `json:"created_at"`
	UpdatedAt              string          `json:"updated_at"`
}

// NewAttendanceResponse renders a log with times in the policy's location.
func NewAttendanceResponse(a Attendance, cfg policy.Config) AttendanceResponse {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	resp := AttendanceResponse{
		ID:                     a.ID,
		EmployeeID:             a.EmployeeID,
		EmployeeName:           a.EmployeeName,
		Date:                   a.Date.Format("2006-01-02"),
		DayType:                string(cfg.DayTypeOf(a.ClockIn)),
		ClockInTime:            a.ClockIn.In(loc).Format(time.RFC3339),
		DurationMs:             a.DurationMs,
		Status:                 string(a.Status),
		StatusLabel:            a.Status.Label(),
		IsLate:                 a.IsLate,
		LateCountable:          a.LateCountable,
		DayCredit:              a.DayCredit,
		ExtraWorkedHours:       a.ExtraWorked().Hours(),
		IsManualOverride:       a.IsManualOverride,
		OverrideReason:         a.OverrideReason,
		AutoCheckout:           a.AutoCheckout,
		OvertimeStatus:         string(a.OvertimeStatus),
		ClockInLatitude:        a.ClockInLatitude,
		ClockInLongitude:       a.ClockInLongitude,
		ClockInAccuracy:        a.ClockInAccuracy,
		ClockOutLatitude:       a.ClockOutLatitude,
		ClockOutLongitude:      a.ClockOutLongitude,
		ClockOutAccuracy:       a.ClockOutAccuracy,
		LocationNote:           a.LocationNote,
		CheckoutDistanceMeters: a.CheckoutDistanceMeters,
		ReviewedBy:             a.ReviewedBy,
		RejectionReason:        a.RejectionReason,
		CreatedAt:              a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              a.UpdatedAt.Format(time.RFC3339),
	}

	if a.ClockOut != nil {
		out := a.ClockOut.In(loc).Format(time.RFC3339)
		resp.ClockOutTime = &out
		hours := a.ClockOut.Sub(a.ClockIn).Hours()
		resp.WorkingHours = &hours
	}
	if a.ReviewedAt != nil {
		at := a.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}

	return resp
}

var filterStatuses = []string{
	string(policy.StatusPresent),
	string(policy.StatusPresentLateWaived),
	string(policy.StatusLate),
	string(policy.StatusHalfDay),
	string(policy.StatusAbsent),
	string(policy.StatusInProgress),
}

var overtimeStatuses = []string{
	string(OvertimeNone),
	string(OvertimePending),
	string(OvertimeApproved),
	string(OvertimeRejected),
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID     *string `json:"employee_id,omitempty"`
	EmployeeName   *string `json:"employee_name,omitempty"`
	Date           *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate      *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status         *string `json:"status,omitempty"`
	OvertimeStatus *string `json:"overtime_status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, clock_in_time, clock_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	errs := validatePaging(&f.Page, &f.Limit)

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	errs = append(errs, validateStatus(f.Status)...)

	if f.OvertimeStatus != nil && !validator.IsInSlice(*f.OvertimeStatus, overtimeStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_status",
			Message: "overtime_status must be one of: " + strings.Join(overtimeStatuses, ", "),
		})
	}

	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder,
		[]string{"date", "employee_name", "clock_in_time", "clock_out_time", "status"})...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAttendanceFilter struct {
	// Search & Filter (no employee filters)
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, clock_in_time, clock_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *MyAttendanceFilter) Validate() error {
	errs := validatePaging(&f.Page, &f.Limit)
	errs = append(errs, validateStatus(f.Status)...)
	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)
	// No employee_name sort for own attendance
	errs = append(errs, validateSort(&f.SortBy, &f.SortOrder,
		[]string{"date", "clock_in_time", "clock_out_time", "status"})...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validatePaging(page, limit *int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if *page == 0 {
		*page = 1 // Default page
	}

	if *limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if *limit == 0 {
		*limit = 20 // Default limit
	}
	if *limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	return errs
}

func validateStatus(status *string) validator.ValidationErrors {
	if status == nil || validator.IsInSlice(*status, filterStatuses) {
		return nil
	}
	return validator.ValidationErrors{{
		Field:   "status",
		Message: "status must be one of: " + strings.Join(filterStatuses, ", "),
	}}
}

func validateDates(date, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	fields := []struct {
		name  string
		value *string
	}{{"date", date}, {"start_date", start}, {"end_date", end}}
	for _, f := range fields {
		if f.value == nil || *f.value == "" {
			continue
		}
		if _, valid := validator.IsValidDate(*f.value); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   f.name,
				Message: f.name + " must be in YYYY-MM-DD format",
			})
		}
	}

	return errs
}

func validateSort(sortBy, sortOrder *string, fields []string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if *sortBy != "" {
		if !validator.IsInSlice(*sortBy, fields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: " + strings.Join(fields, ", "),
			})
		}
	} else {
		*sortBy = "date" // Default sort
	}

	if *sortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(*sortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		*sortOrder = "desc" // Default descending (newest first)
	}

	return errs
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// UpdateAttendanceRequest lets an admin fix or override a record. New times
// are re-evaluated; an explicit Status replaces the computed classification
// and marks the record as a manual override.
type UpdateAttendanceRequest struct {
	ID           string  `json:"-"`
	ClockInTime  *string `json:"clock_in_time,omitempty"`  // RFC3339
	ClockOutTime *string `json:"clock_out_time,omitempty"` // RFC3339
	Status       *string `json:"status,omitempty"`
	Reason       string  `json:"reason"`
}

// Times parses the requested clock edits. A nil result leaves that side unchanged.
func (r *UpdateAttendanceRequest) Times() (clockIn, clockOut *time.Time, errs validator.ValidationErrors) {
	if r.ClockInTime != nil {
		if t, ok := validator.IsValidDateTime(*r.ClockInTime); ok {
			clockIn = &t
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in_time",
				Message: "clock_in_time must be an RFC3339 timestamp",
			})
		}
	}

	if r.ClockOutTime != nil {
		if t, ok := validator.IsValidDateTime(*r.ClockOutTime); ok {
			clockOut = &t
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out_time",
				Message: "clock_out_time must be an RFC3339 timestamp",
			})
		}
	}
	return clockIn, clockOut, errs
}

func (r *UpdateAttendanceRequest) Validate() error {
	_, _, errs := r.Times()

	if r.Status != nil && !policy.Status(*r.Status).IsFinal() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, present_late_waived, late, half_day, absent",
		})
	}

	if r.ClockInTime == nil && r.ClockOutTime == nil && r.Status == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of clock_in_time, clock_out_time or status is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ApproveOvertimeRequest approves the pending overtime of a system checkout.
type ApproveOvertimeRequest struct {
	ID    string  `json:"-"`
	Notes *string `json:"notes,omitempty"`
}

// RejectOvertimeRequest rejects the pending overtime of a system checkout.
type RejectOvertimeRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r *RejectOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// TODAY & TIMER DTOs
// ========================================

type TimerResponse struct {
	CheckIn          string  `json:"check_in"`
	Now              string  `json:"now"`
	ElapsedSeconds   int64   `json:"elapsed_seconds"`
	Elapsed          string  `json:"elapsed"`
	HasTarget        bool    `json:"has_target"`
	Target           *string `json:"target,omitempty"`
	RemainingSeconds int64   `json:"remaining_seconds"`
	OvertimeSeconds  int64   `json:"overtime_seconds"`
	IsOvertime       bool    `json:"is_overtime"`
	Progress         float64 `json:"progress"`
	Display          string  `json:"display"`
}

// NewTimerResponse converts a snapshot into whole seconds and clock strings.
func NewTimerResponse(snap policy.TimerSnapshot) TimerResponse {
	resp := TimerResponse{
		CheckIn:          snap.CheckIn.Format(time.RFC3339),
		Now:              snap.Now.Format(time.RFC3339),
		ElapsedSeconds:   int64(snap.Elapsed / time.Second),
		Elapsed:          FormatDuration(snap.Elapsed),
		HasTarget:        snap.HasTarget,
		RemainingSeconds: int64(snap.Remaining / time.Second),
		OvertimeSeconds:  int64(snap.Overtime / time.Second),
		IsOvertime:       snap.Overtime > 0,
		Progress:         snap.Progress,
	}

	switch {
	case !snap.HasTarget:
		resp.Display = FormatDuration(snap.Elapsed)
	case snap.Overtime > 0:
		resp.Display = "+" + FormatDuration(snap.Overtime)
	default:
		resp.Display = FormatDuration(snap.Remaining)
	}

	if snap.Target != nil {
		target := snap.Target.Format(time.RFC3339)
		resp.Target = &target
	}

	return resp
}

// FormatDuration renders d as HH:MM:SS, truncating sub-second parts.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

type TodayResponse struct {
	Date          string              `json:"date"`
	DayType       string              `json:"day_type"`
	HasCheckedIn  bool                `json:"has_checked_in"`
	HasCheckedOut bool                `json:"has_checked_out"`
	CanClockIn    bool                `json:"can_clock_in"`
	CanClockOut   bool                `json:"can_clock_out"`
	Attendance    *AttendanceResponse `json:"attendance,omitempty"`
	Timer         *TimerResponse      `json:"timer,omitempty"`
	Message       string              `json:"message"`
}

// ========================================
// SUMMARY & EXPORT DTOs
// ========================================

type SummaryRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if !validator.IsValidPeriod(r.Year, r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "year and month must form a valid period",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MonthlySummaryResponse struct {
	EmployeeID           string              `json:"employee_id"`
	Year                 int                 `json:"year"`
	Month                int                 `json:"month"`
	ScheduledDays        decimal.Decimal     `json:"scheduled_days"`
	Days                 int                 `json:"days"`
	StatusCounts         map[string]int      `json:"status_counts"`
	TotalDayCredit       decimal.Decimal     `json:"total_day_credit"`
	LateCount            int                 `json:"late_count"`
	ExtraHours           float64             `json:"extra_hours"`
	PendingOvertimeHours float64             `json:"pending_overtime_hours"`
	Penalty              policy.PenaltyState `json:"penalty"`
}

const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

type ExportRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Format     string  `json:"format"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format == "" {
		r.Format = ExportFormatCSV
	}
	r.Format = strings.ToLower(r.Format)
	if !validator.IsInSlice(r.Format, []string{ExportFormatCSV, ExportFormatXLSX}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: csv, xlsx",
		})
	}

	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		} else if end.Sub(start) > 366*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "export period must not exceed one year",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
