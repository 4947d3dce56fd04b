package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.company_id, a.date, a.clock_in, a.clock_out, a.duration_ms,
	a.status, a.is_late, a.late_countable, a.day_credit, a.extra_worked_minutes,
	a.is_manual_override, a.override_reason, a.auto_checkout, a.overtime_status,
	a.clock_in_latitude, a.clock_in_longitude, a.clock_in_accuracy,
	a.clock_out_latitude, a.clock_out_longitude, a.clock_out_accuracy,
	a.location_note, a.checkout_distance_meters,
	a.reviewed_by, a.reviewed_at, a.rejection_reason,
	a.created_at, a.updated_at,
	e.full_name, e.user_id`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &att.ClockIn, &att.ClockOut, &att.DurationMs,
		&att.Status, &att.IsLate, &att.LateCountable, &att.DayCredit, &att.ExtraWorkedMinutes,
		&att.IsManualOverride, &att.OverrideReason, &att.AutoCheckout, &att.OvertimeStatus,
		&att.ClockInLatitude, &att.ClockInLongitude, &att.ClockInAccuracy,
		&att.ClockOutLatitude, &att.ClockOutLongitude, &att.ClockOutAccuracy,
		&att.LocationNote, &att.CheckoutDistanceMeters,
		&att.ReviewedBy, &att.ReviewedAt, &att.RejectionReason,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.EmployeeUserID,
	)
	return att, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var out []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		out = append(out, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	return out, nil
}

func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date, clock_in, status, is_late, late_countable,
			day_credit, extra_worked_minutes, auto_checkout, overtime_status,
			clock_in_latitude, clock_in_longitude, clock_in_accuracy
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.ID, att.EmployeeID, att.CompanyID, att.Date, att.ClockIn, att.Status, att.IsLate, att.LateCountable,
		att.DayCredit, att.ExtraWorkedMinutes, att.AutoCheckout, att.OvertimeStatus,
		att.ClockInLatitude, att.ClockInLongitude, att.ClockInAccuracy,
	).Scan(&att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2 AND a.company_id = $3
		LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &att, nil
}

func (a *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.company_id = $2 AND a.clock_out IS NULL
		ORDER BY a.clock_in DESC
		LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}
	return &att, nil
}

const attendanceUpdateSet = `
	clock_in = $3, clock_out = $4, duration_ms = $5, status = $6, is_late = $7,
	late_countable = $8, day_credit = $9, extra_worked_minutes = $10,
	is_manual_override = $11, override_reason = $12, auto_checkout = $13, overtime_status = $14,
	clock_out_latitude = $15, clock_out_longitude = $16, clock_out_accuracy = $17,
	location_note = $18, checkout_distance_meters = $19,
	reviewed_by = $20, reviewed_at = $21, rejection_reason = $22,
	updated_at = NOW()`

func attendanceUpdateArgs(att attendance.Attendance) []interface{} {
	return []interface{}{
		att.ID, att.CompanyID,
		att.ClockIn, att.ClockOut, att.DurationMs, att.Status, att.IsLate,
		att.LateCountable, att.DayCredit, att.ExtraWorkedMinutes,
		att.IsManualOverride, att.OverrideReason, att.AutoCheckout, att.OvertimeStatus,
		att.ClockOutLatitude, att.ClockOutLongitude, att.ClockOutAccuracy,
		att.LocationNote, att.CheckoutDistanceMeters,
		att.ReviewedBy, att.ReviewedAt, att.RejectionReason,
	}
}

func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `UPDATE attendances SET ` + attendanceUpdateSet + ` WHERE id = $1 AND company_id = $2`

	tag, err := q.Exec(ctx, query, attendanceUpdateArgs(att)...)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

func (a *attendanceRepository) CloseOpenSession(ctx context.Context, att attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `UPDATE attendances SET ` + attendanceUpdateSet + `
		WHERE id = $1 AND company_id = $2 AND clock_out IS NULL`

	tag, err := q.Exec(ctx, query, attendanceUpdateArgs(att)...)
	if err != nil {
		return false, fmt.Errorf("failed to close attendance session: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (a *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// whereBuilder accumulates AND conditions with numbered placeholders.
type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(clause string, arg interface{}) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) addOptional(clause string, arg *string) {
	if arg != nil && *arg != "" {
		w.add(clause, *arg)
	}
}

func (w *whereBuilder) String() string {
	return strings.Join(w.clauses, " AND ")
}

func (w *whereBuilder) next() int {
	return len(w.args) + 1
}

var attendanceSortColumns = map[string]string{
	"date":           "a.date",
	"employee_name":  "e.full_name",
	"clock_in_time":  "a.clock_in",
	"clock_out_time": "a.clock_out",
	"status":         "a.status",
}

func (a *attendanceRepository) page(ctx context.Context, where *whereBuilder, sortBy, sortOrder string, page, limit int) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	countQuery := `SELECT COUNT(*) FROM attendances a LEFT JOIN employees e ON e.id = a.employee_id WHERE ` + where.String()
	var total int64
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	orderBy, ok := attendanceSortColumns[sortBy]
	if !ok {
		orderBy = "a.date"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	n := where.next()
	query := fmt.Sprintf(`SELECT %s
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s %s, a.clock_in DESC
		LIMIT $%d OFFSET $%d`, attendanceColumns, where.String(), orderBy, direction, n, n+1)

	args := append(append([]interface{}{}, where.args...), limit, (page-1)*limit)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}

	list, err := collectAttendances(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	where := &whereBuilder{}
	where.add("a.company_id = $%d", companyID)
	where.addOptional("a.employee_id = $%d", filter.EmployeeID)
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		where.add("e.full_name ILIKE $%d", "%"+*filter.EmployeeName+"%")
	}
	where.addOptional("a.date = $%d", filter.Date)
	where.addOptional("a.date >= $%d", filter.StartDate)
	where.addOptional("a.date <= $%d", filter.EndDate)
	where.addOptional("a.status = $%d", filter.Status)
	where.addOptional("a.overtime_status = $%d", filter.OvertimeStatus)

	return a.page(ctx, where, filter.SortBy, filter.SortOrder, filter.Page, filter.Limit)
}

func (a *attendanceRepository) GetMyAttendance(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter, companyID string) ([]attendance.Attendance, int64, error) {
	where := &whereBuilder{}
	where.add("a.company_id = $%d", companyID)
	where.add("a.employee_id = $%d", employeeID)
	where.addOptional("a.date = $%d", filter.Date)
	where.addOptional("a.date >= $%d", filter.StartDate)
	where.addOptional("a.date <= $%d", filter.EndDate)
	where.addOptional("a.status = $%d", filter.Status)

	return a.page(ctx, where, filter.SortBy, filter.SortOrder, filter.Page, filter.Limit)
}

func (a *attendanceRepository) ListByPeriod(ctx context.Context, companyID string, employeeID *string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	where := &whereBuilder{}
	where.add("a.company_id = $%d", companyID)
	where.addOptional("a.employee_id = $%d", employeeID)
	where.add("a.date >= $%d", start)
	where.add("a.date <= $%d", end)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + where.String() + `
		ORDER BY e.full_name ASC, a.date ASC`

	rows, err := q.Query(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances by period: %w", err)
	}
	return collectAttendances(rows)
}

func (a *attendanceRepository) ListOpenSessions(ctx context.Context) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.clock_out IS NULL
		ORDER BY a.clock_in ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query open sessions: %w", err)
	}
	return collectAttendances(rows)
}
