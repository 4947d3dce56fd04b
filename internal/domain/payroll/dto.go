package payroll

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PreviewPayrollRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
}

func (r *PreviewPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}
	errs = append(errs, validatePeriod(r.PeriodMonth, r.PeriodYear)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GeneratePayrollRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *GeneratePayrollRequest) Validate() error {
	errs := validatePeriod(r.PeriodMonth, r.PeriodYear)

	for _, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "must contain valid UUIDs"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if year < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}

	return errs
}

type MarkPaidRequest struct {
	RecordIDs []string `json:"record_ids"`
}

func (r *MarkPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RecordIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "record_ids", Message: "at least one record is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRecordResponse struct {
	ID              string          `json:"id,omitempty"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	EmployeeCode    *string         `json:"employee_code,omitempty"`
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	ScheduledDays   decimal.Decimal `json:"scheduled_days"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	DaysCredited    decimal.Decimal `json:"days_credited"`
	LateCount       int             `json:"late_count"`
	PenaltyBlocks   int             `json:"penalty_blocks"`
	ExtraHours      float64         `json:"extra_hours"`
	OffsetDays      decimal.Decimal `json:"offset_days"`
	DeductionDays   decimal.Decimal `json:"deduction_days"`
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
	NetSalary       decimal.Decimal `json:"net_salary"`
	Status          string          `json:"status"`
	PaidAt          *string         `json:"paid_at,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
}

// NewRecordResponse maps a stored or previewed record.
func NewRecordResponse(r PayrollRecord) PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		EmployeeCode:    r.EmployeeCode,
		PeriodMonth:     r.PeriodMonth,
		PeriodYear:      r.PeriodYear,
		BaseSalary:      r.BaseSalary,
		ScheduledDays:   r.ScheduledDays,
		DailyRate:       r.DailyRate,
		DaysCredited:    r.DaysCredited,
		LateCount:       r.LateCount,
		PenaltyBlocks:   r.PenaltyBlocks,
		ExtraHours:      r.ExtraHours,
		OffsetDays:      r.OffsetDays,
		DeductionDays:   r.DeductionDays,
		DeductionAmount: r.DeductionAmount,
		NetSalary:       r.NetSalary,
		Status:          string(r.Status),
		Notes:           r.Notes,
	}
	if r.PaidAt != nil {
		paidAt := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

func (f *PayrollFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "must not exceed 100"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{string(PayrollStatusDraft), string(PayrollStatusPaid)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of: draft, paid"})
	}
	if f.SortBy == "" {
		f.SortBy = "period"
	} else if !validator.IsInSlice(f.SortBy, []string{"period", "employee_name", "net_salary"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "must be one of: period, employee_name, net_salary"})
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	} else if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "must be one of: asc, desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}
