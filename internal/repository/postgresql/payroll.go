package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	pr.id, pr.employee_id, pr.company_id, pr.period_month, pr.period_year,
	pr.base_salary, pr.scheduled_days, pr.daily_rate, pr.days_credited,
	pr.late_count, pr.penalty_blocks, pr.extra_hours, pr.offset_days,
	pr.deduction_days, pr.deduction_amount, pr.net_salary,
	pr.status, pr.paid_at, pr.paid_by, pr.notes, pr.created_at, pr.updated_at,
	e.full_name, e.employee_code`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BaseSalary, &rec.ScheduledDays, &rec.DailyRate, &rec.DaysCredited,
		&rec.LateCount, &rec.PenaltyBlocks, &rec.ExtraHours, &rec.OffsetDays,
		&rec.DeductionDays, &rec.DeductionAmount, &rec.NetSalary,
		&rec.Status, &rec.PaidAt, &rec.PaidBy, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode,
	)
	return rec, err
}

func (r *payrollRepository) CreatePayrollRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			id, employee_id, company_id, period_month, period_year,
			base_salary, scheduled_days, daily_rate, days_credited,
			late_count, penalty_blocks, extra_hours, offset_days,
			deduction_days, deduction_amount, net_salary, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.CompanyID, record.PeriodMonth, record.PeriodYear,
		record.BaseSalary, record.ScheduledDays, record.DailyRate, record.DaysCredited,
		record.LateCount, record.PenaltyBlocks, record.ExtraHours, record.OffsetDays,
		record.DeductionDays, record.DeductionAmount, record.NetSalary, record.Status, record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string, companyID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1 AND pr.company_id = $2`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, month, year int, companyID string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3 AND pr.company_id = $4`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

var payrollSortColumns = map[string]string{
	"period":        "pr.period_year %[1]s, pr.period_month %[1]s",
	"employee_name": "e.full_name %[1]s",
	"net_salary":    "pr.net_salary %[1]s",
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, companyID string, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := &whereBuilder{}
	where.add("pr.company_id = $%d", companyID)
	if filter.PeriodMonth != nil {
		where.add("pr.period_month = $%d", *filter.PeriodMonth)
	}
	if filter.PeriodYear != nil {
		where.add("pr.period_year = $%d", *filter.PeriodYear)
	}
	where.addOptional("pr.status = $%d", filter.Status)
	where.addOptional("pr.employee_id = $%d", filter.EmployeeID)

	countQuery := `SELECT COUNT(*) FROM payroll_records pr WHERE ` + where.String()
	var total int64
	if err := q.QueryRow(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	orderTemplate, ok := payrollSortColumns[filter.SortBy]
	if !ok {
		orderTemplate = payrollSortColumns["period"]
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	n := where.next()
	query := fmt.Sprintf(`SELECT %s
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, payrollColumns, where.String(), fmt.Sprintf(orderTemplate, direction), n, n+1)

	args := append(append([]interface{}{}, where.args...), limit, (page-1)*limit)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, total, nil
}

func (r *payrollRepository) MarkPaid(ctx context.Context, ids []string, paidBy string, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = $1, paid_at = NOW(), paid_by = $2, updated_at = NOW()
		WHERE id = ANY($3) AND company_id = $4 AND status = $5
	`

	tag, err := q.Exec(ctx, query, payroll.PayrollStatusPaid, paidBy, ids, companyID, payroll.PayrollStatusDraft)
	if err != nil {
		return 0, fmt.Errorf("failed to mark payroll records paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *payrollRepository) DeletePayrollRecord(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	var status payroll.PayrollStatus
	err := q.QueryRow(ctx, `SELECT status FROM payroll_records WHERE id = $1 AND company_id = $2`, id, companyID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to get payroll record status: %w", err)
	}
	if status == payroll.PayrollStatusPaid {
		return payroll.ErrCannotDeletePaidRecord
	}

	if _, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE id = $1 AND company_id = $2`, id, companyID); err != nil {
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}
	return nil
}
