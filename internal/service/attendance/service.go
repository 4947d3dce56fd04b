package attendance

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	publisher      sse.Publisher
	policy         policy.Config
	now            func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	publisher sse.Publisher,
	cfg policy.Config,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		publisher:      publisher,
		policy:         cfg,
		now:            time.Now,
	}
}

// Policy returns the rules the service evaluates with.
func (s *AttendanceServiceImpl) Policy() policy.Config {
	return s.policy
}

func (s *AttendanceServiceImpl) employeeClaims(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.HasEmployee() {
		return jwt.Claims{}, attendance.ErrEmployeeRequired
	}
	return claims, nil
}

func (s *AttendanceServiceImpl) requirePermission(ctx context.Context, permission user.Permission) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(permission) {
		return jwt.Claims{}, attendance.ErrUnauthorized
	}
	return claims, nil
}

func (s *AttendanceServiceImpl) respond(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.NewAttendanceResponse(a, s.policy)
}

func (s *AttendanceServiceImpl) notify(userID *string, event string, a attendance.Attendance) {
	if s.publisher == nil || userID == nil || *userID == "" {
		return
	}
	s.publisher.Publish(*userID, sse.Event{Event: event, Data: s.respond(a)})
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.IsActive() {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	now := s.now()
	date := s.policy.LocalDate(now)

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	open, err := s.attendanceRepo.GetOpenSession(ctx, emp.ID, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if open != nil {
		expired, err := s.expireSession(ctx, open, now, claims.UserID)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if !expired {
			return attendance.AttendanceResponse{}, attendance.ErrOpenSessionExists
		}
	}

	ev, err := policy.Evaluate(now, nil, s.policy)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	newAttendance := attendance.Attendance{
		ID:               id.String(),
		EmployeeID:       emp.ID,
		CompanyID:        claims.CompanyID,
		Date:             date,
		ClockIn:          now,
		ClockInLatitude:  req.Latitude,
		ClockInLongitude: req.Longitude,
		ClockInAccuracy:  req.Accuracy,
		EmployeeName:     &emp.FullName,
	}
	newAttendance.ApplyEvaluation(ev)

	created, err := s.attendanceRepo.Create(ctx, newAttendance)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.respond(created), nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	session, err := s.attendanceRepo.GetOpenSession(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if session == nil {
		today, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, claims.EmployeeID, s.policy.LocalDate(now), claims.CompanyID)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		if today != nil {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	att := *session
	expired, err := s.expireSession(ctx, &att, now, claims.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if expired {
		return s.respond(att), nil
	}

	if err := s.applyCheckoutLocation(&att, req); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ev, err := policy.Evaluate(att.ClockIn, &now, s.policy)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	att.ClockOut = &now
	att.AutoCheckout = false
	att.ApplyEvaluation(ev)

	closed, err := s.attendanceRepo.CloseOpenSession(ctx, att)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !closed {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	s.notify(&claims.UserID, sse.EventAttendanceClosed, att)
	return s.respond(att), nil
}

// expireSession closes session at its auto-checkout deadline when now is past
// it, exactly as the auto-checkout job would. It reports false while the
// session is still within its day.
func (s *AttendanceServiceImpl) expireSession(ctx context.Context, session *attendance.Attendance, now time.Time, userID string) (bool, error) {
	deadline := policy.SessionDeadline(session.ClockIn, s.policy)
	if now.Before(deadline) {
		return false, nil
	}

	if err := session.CloseAtDeadline(deadline, s.policy); err != nil {
		return false, err
	}
	written, err := s.attendanceRepo.CloseOpenSession(ctx, *session)
	if err != nil {
		return false, err
	}

	// When the job got there first it stored the same result and notified.
	if written {
		event := sse.EventAttendanceClosed
		if session.AutoCheckout {
			event = sse.EventAttendanceAutoOut
		}
		s.notify(&userID, event, *session)
	}
	return true, nil
}

// applyCheckoutLocation records the check-out position. A location note is
// required when the position is missing or too far from the check-in.
func (s *AttendanceServiceImpl) applyCheckoutLocation(att *attendance.Attendance, req attendance.ClockOutRequest) error {
	if req.HasLocationNote() {
		note := strings.TrimSpace(*req.LocationNote)
		att.LocationNote = &note
	}

	if !req.HasCoordinates() {
		if !req.HasLocationNote() {
			return attendance.ErrLocationRequired
		}
		return nil
	}

	att.ClockOutLatitude = req.Latitude
	att.ClockOutLongitude = req.Longitude
	att.ClockOutAccuracy = req.Accuracy

	if att.ClockInLatitude == nil || att.ClockInLongitude == nil {
		return nil
	}

	distance := utils.CalculateHaversineDistance(
		*att.ClockInLatitude, *att.ClockInLongitude,
		*req.Latitude, *req.Longitude,
	)
	distance = math.Round(distance*100) / 100
	att.CheckoutDistanceMeters = &distance

	if distance > s.policy.LocationMismatchMeters && !req.HasLocationNote() {
		return attendance.ErrLocationExplanationRequired
	}
	return nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	now := s.now()
	date := s.policy.LocalDate(now)

	resp := attendance.TodayResponse{
		Date:    date.Format("2006-01-02"),
		DayType: string(s.policy.DayTypeOf(now)),
	}

	today, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, claims.EmployeeID, date, claims.CompanyID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	open, err := s.attendanceRepo.GetOpenSession(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	current := today
	if current == nil {
		current = open
	}

	switch {
	case current == nil:
		resp.CanClockIn = true
		resp.Message = "You have not checked in today"
	case current.IsOpen():
		resp.HasCheckedIn = true
		resp.CanClockOut = true
		resp.Message = "Session in progress"
	default:
		resp.HasCheckedIn = true
		resp.HasCheckedOut = true
		resp.Message = "You have completed today's attendance"
	}

	if current != nil {
		r := s.respond(*current)
		resp.Attendance = &r
	}

	if current != nil && current.IsOpen() {
		snap, err := policy.Countdown(current.ClockIn, now, s.policy)
		if err != nil {
			return attendance.TodayResponse{}, err
		}
		timer := attendance.NewTimerResponse(snap)
		resp.Timer = &timer
	}

	return resp, nil
}

// Timer implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Timer(ctx context.Context) (policy.TimerSnapshot, error) {
	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return policy.TimerSnapshot{}, err
	}

	open, err := s.attendanceRepo.GetOpenSession(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return policy.TimerSnapshot{}, err
	}
	if open == nil {
		return policy.TimerSnapshot{}, attendance.ErrNotCheckedIn
	}

	return policy.Countdown(open.ClockIn, s.now(), s.policy)
}

func (s *AttendanceServiceImpl) listResponse(list []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(list))
	for _, a := range list {
		responses = append(responses, s.respond(a))
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	showing := "0 results"
	if len(list) > 0 {
		from := (page-1)*limit + 1
		to := from + len(list) - 1
		showing = fmt.Sprintf("%d-%d of %d results", from, to, total)
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	list, total, err := s.attendanceRepo.GetMyAttendance(ctx, claims.EmployeeID, filter, claims.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.listResponse(list, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	claims, err := s.requirePermission(ctx, user.PermissionAttendanceViewAll)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	list, total, err := s.attendanceRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.listResponse(list, total, filter.Page, filter.Limit), nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a, err := s.attendanceRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !claims.Can(user.PermissionAttendanceViewAll) && a.EmployeeID != claims.EmployeeID {
		return attendance.AttendanceResponse{}, attendance.ErrUnauthorized
	}

	return s.respond(a), nil
}

// UpdateAttendance implements attendance.AttendanceService. Time edits are
// re-evaluated; an explicit status replaces the evaluation and is kept as a
// manual override. Nothing is written when the edit is inconsistent.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := s.requirePermission(ctx, user.PermissionAttendanceManage)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if strings.TrimSpace(req.Reason) == "" {
		return attendance.AttendanceResponse{}, attendance.ErrOverrideReasonRequired
	}

	a, err := s.attendanceRepo.GetByID(ctx, req.ID, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	clockIn, clockOut, errs := req.Times()
	if len(errs) > 0 {
		return attendance.AttendanceResponse{}, errs
	}

	timesChanged := clockIn != nil || clockOut != nil
	if clockIn != nil {
		a.ClockIn = *clockIn
		a.Date = s.policy.LocalDate(*clockIn)
	}
	if clockOut != nil {
		a.ClockOut = clockOut
		a.AutoCheckout = false
	}

	if timesChanged {
		ev, err := policy.Evaluate(a.ClockIn, a.ClockOut, s.policy)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		a.ApplyEvaluation(ev)
		a.IsManualOverride = false
	}

	if req.Status != nil {
		status := policy.Status(*req.Status)
		if a.IsOpen() {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		a.Status = status
		a.DayCredit = policy.CreditFor(status)
		a.LateCountable = status == policy.StatusLate
		a.IsManualOverride = true
	}

	reason := strings.TrimSpace(req.Reason)
	now := s.now()
	a.OverrideReason = &reason
	a.ReviewedBy = &claims.UserID
	a.ReviewedAt = &now

	if err := s.attendanceRepo.Update(ctx, a); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.notify(a.EmployeeUserID, sse.EventAttendanceOverride, a)
	return s.respond(a), nil
}

func (s *AttendanceServiceImpl) reviewOvertime(ctx context.Context, id string, approve bool, note *string) (attendance.AttendanceResponse, error) {
	claims, err := s.requirePermission(ctx, user.PermissionAttendanceApprove)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	a, err := s.attendanceRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if a.OvertimeStatus != attendance.OvertimePending {
		return attendance.AttendanceResponse{}, attendance.ErrOvertimeNotPending
	}

	now := s.now()
	a.ReviewedBy = &claims.UserID
	a.ReviewedAt = &now
	if approve {
		a.OvertimeStatus = attendance.OvertimeApproved
		a.RejectionReason = nil
	} else {
		a.OvertimeStatus = attendance.OvertimeRejected
		a.RejectionReason = note
	}

	if err := s.attendanceRepo.Update(ctx, a); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	s.notify(a.EmployeeUserID, sse.EventOvertimeReviewed, a)
	return s.respond(a), nil
}

// ApproveOvertime implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApproveOvertime(ctx context.Context, req attendance.ApproveOvertimeRequest) (attendance.AttendanceResponse, error) {
	return s.reviewOvertime(ctx, req.ID, true, nil)
}

// RejectOvertime implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RejectOvertime(ctx context.Context, req attendance.RejectOvertimeRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	reason := strings.TrimSpace(req.Reason)
	return s.reviewOvertime(ctx, req.ID, false, &reason)
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	claims, err := s.requirePermission(ctx, user.PermissionAttendanceManage)
	if err != nil {
		return err
	}
	return s.attendanceRepo.Delete(ctx, id, claims.CompanyID)
}

// GetMonthlySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlySummary(ctx context.Context, req attendance.SummaryRequest) (attendance.MonthlySummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	employeeID := claims.EmployeeID
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		employeeID = *req.EmployeeID
	}
	if employeeID == "" {
		return attendance.MonthlySummaryResponse{}, attendance.ErrEmployeeRequired
	}
	if employeeID != claims.EmployeeID && !claims.Can(user.PermissionSummaryViewOthers) {
		return attendance.MonthlySummaryResponse{}, attendance.ErrUnauthorized
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID, claims.CompanyID); err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	summary, err := MonthlySummary(ctx, s.attendanceRepo, s.policy, claims.CompanyID, employeeID, req.Year, time.Month(req.Month))
	if err != nil {
		return attendance.MonthlySummaryResponse{}, err
	}

	counts := make(map[string]int, len(summary.StatusCounts))
	for status, n := range summary.StatusCounts {
		counts[string(status)] = n
	}

	return attendance.MonthlySummaryResponse{
		EmployeeID:           employeeID,
		Year:                 req.Year,
		Month:                req.Month,
		ScheduledDays:        policy.ScheduledDays(req.Year, time.Month(req.Month), s.policy),
		Days:                 summary.Days,
		StatusCounts:         counts,
		TotalDayCredit:       summary.TotalDayCredit,
		LateCount:            summary.LateCount,
		ExtraHours:           summary.ExtraHours,
		PendingOvertimeHours: summary.PendingOvertime.Hours(),
		Penalty:              summary.Penalty,
	}, nil
}

// MonthlySummary loads one employee's month of logs and folds them.
func MonthlySummary(ctx context.Context, repo attendance.AttendanceRepository, cfg policy.Config, companyID, employeeID string, year int, month time.Month) (policy.MonthlySummary, error) {
	start, end := policy.MonthBounds(year, month)

	logs, err := repo.ListByPeriod(ctx, companyID, &employeeID, start, end)
	if err != nil {
		return policy.MonthlySummary{}, fmt.Errorf("failed to load attendance for %04d-%02d: %w", year, month, err)
	}

	records := make([]policy.DayRecord, 0, len(logs))
	for _, l := range logs {
		records = append(records, l.DayRecord())
	}
	return policy.Summarize(records, cfg), nil
}
