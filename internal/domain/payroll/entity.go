package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "draft"
	PayrollStatusPaid  PayrollStatus = "paid"
)

// PayrollRecord is the salary of one employee for one month after the
// late-penalty deduction.
type PayrollRecord struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	PeriodMonth     int
	PeriodYear      int
	BaseSalary      decimal.Decimal
	ScheduledDays   decimal.Decimal
	DailyRate       decimal.Decimal
	DaysCredited    decimal.Decimal
	LateCount       int
	PenaltyBlocks   int
	ExtraHours      float64
	OffsetDays      decimal.Decimal
	DeductionDays   decimal.Decimal
	DeductionAmount decimal.Decimal
	NetSalary       decimal.Decimal
	Status          PayrollStatus
	PaidAt          *time.Time
	PaidBy          *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}
