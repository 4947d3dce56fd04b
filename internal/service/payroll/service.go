package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendancesvc "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	txManager      postgresql.TxManager
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	policy         policy.Config
}

func NewPayrollService(
	txManager postgresql.TxManager,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	cfg policy.Config,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		txManager:      txManager,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		policy:         cfg,
	}
}

func requirePermission(ctx context.Context, permission user.Permission) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(permission) {
		return jwt.Claims{}, payroll.ErrUnauthorized
	}
	return claims, nil
}

// compute builds the unsaved record for one employee and period from the
// month's attendance.
func (s *PayrollServiceImpl) compute(ctx context.Context, emp employee.Employee, month, year int) (payroll.PayrollRecord, error) {
	if emp.BaseSalary == nil {
		return payroll.PayrollRecord{}, payroll.ErrEmployeeHasNoBaseSalary
	}

	summary, err := attendancesvc.MonthlySummary(ctx, s.attendanceRepo, s.policy, emp.CompanyID, emp.ID, year, time.Month(month))
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	scheduled := policy.ScheduledDays(year, time.Month(month), s.policy)
	breakdown, err := payroll.Calculate(*emp.BaseSalary, scheduled, summary.Penalty)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	return payroll.PayrollRecord{
		EmployeeID:      emp.ID,
		CompanyID:       emp.CompanyID,
		PeriodMonth:     month,
		PeriodYear:      year,
		BaseSalary:      breakdown.BaseSalary,
		ScheduledDays:   breakdown.ScheduledDays,
		DailyRate:       breakdown.DailyRate,
		DaysCredited:    summary.TotalDayCredit,
		LateCount:       summary.LateCount,
		PenaltyBlocks:   summary.Penalty.Blocks,
		ExtraHours:      summary.ExtraHours,
		OffsetDays:      summary.Penalty.OffsetDays,
		DeductionDays:   breakdown.DeductionDays,
		DeductionAmount: breakdown.DeductionAmount,
		NetSalary:       breakdown.NetSalary,
		Status:          payroll.PayrollStatusDraft,
		EmployeeName:    &emp.FullName,
		EmployeeCode:    &emp.EmployeeCode,
	}, nil
}

// Preview implements payroll.PayrollService.
func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.PreviewPayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	claims, err := requirePermission(ctx, user.PermissionPayrollView)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.compute(ctx, emp, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	return payroll.NewRecordResponse(record), nil
}

// GeneratePayroll implements payroll.PayrollService. Employees without a
// base salary and periods already generated are skipped. All records are
// written in one transaction.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, req payroll.GeneratePayrollRequest) ([]payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := requirePermission(ctx, user.PermissionPayrollManage)
	if err != nil {
		return nil, err
	}

	employees, err := s.targetEmployees(ctx, claims.CompanyID, req.EmployeeIDs)
	if err != nil {
		return nil, err
	}

	var created []payroll.PayrollRecord
	err = s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		for _, emp := range employees {
			if emp.BaseSalary == nil || emp.BaseSalary.IsZero() {
				continue
			}

			_, err := s.payrollRepo.GetPayrollRecordByEmployeePeriod(ctx, emp.ID, req.PeriodMonth, req.PeriodYear, claims.CompanyID)
			if err == nil {
				continue
			}
			if !errors.Is(err, payroll.ErrPayrollRecordNotFound) {
				return fmt.Errorf("failed to check existing payroll record: %w", err)
			}

			record, err := s.compute(ctx, emp, req.PeriodMonth, req.PeriodYear)
			if err != nil {
				return fmt.Errorf("failed to compute payroll for employee %s: %w", emp.ID, err)
			}

			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate payroll id: %w", err)
			}
			record.ID = id.String()

			saved, err := s.payrollRepo.CreatePayrollRecord(ctx, record)
			if err != nil {
				return fmt.Errorf("failed to create payroll record for employee %s: %w", emp.ID, err)
			}
			created = append(created, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayrollRecordResponse, 0, len(created))
	for _, r := range created {
		responses = append(responses, payroll.NewRecordResponse(r))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) targetEmployees(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	if len(ids) == 0 {
		employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to get employees: %w", err)
		}
		return employees, nil
	}

	employees := make([]employee.Employee, 0, len(ids))
	for _, id := range ids {
		emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
		if err != nil {
			return nil, err
		}
		if emp.IsActive() {
			employees = append(employees, emp)
		}
	}
	return employees, nil
}

// GetPayrollRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetPayrollRecord(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	claims, err := requirePermission(ctx, user.PermissionPayrollView)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.payrollRepo.GetPayrollRecordByID(ctx, id, claims.CompanyID)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return payroll.NewRecordResponse(record), nil
}

// ListPayrollRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	claims, err := requirePermission(ctx, user.PermissionPayrollView)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	records, total, err := s.payrollRepo.ListPayrollRecords(ctx, claims.CompanyID, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, payroll.NewRecordResponse(r))
	}

	return payroll.ListPayrollRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// MarkPaid implements payroll.PayrollService.
func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, req payroll.MarkPaidRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := requirePermission(ctx, user.PermissionPayrollMarkPaid)
	if err != nil {
		return err
	}

	updated, err := s.payrollRepo.MarkPaid(ctx, req.RecordIDs, claims.UserID, claims.CompanyID)
	if err != nil {
		return err
	}
	if updated == 0 {
		return payroll.ErrNoDraftRecords
	}
	return nil
}

// DeletePayrollRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeletePayrollRecord(ctx context.Context, id string) error {
	claims, err := requirePermission(ctx, user.PermissionPayrollManage)
	if err != nil {
		return err
	}
	return s.payrollRepo.DeletePayrollRecord(ctx, id, claims.CompanyID)
}
