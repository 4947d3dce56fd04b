package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordAlreadyPaid   = errors.New("payroll record already paid, cannot modify")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrEmployeeHasNoBaseSalary    = errors.New("employee has no base salary configured")
	ErrNoScheduledDays            = errors.New("period has no scheduled working days")
	ErrCannotDeletePaidRecord     = errors.New("cannot delete paid payroll record")
	ErrNoDraftRecords             = errors.New("no draft payroll records to mark as paid")
	ErrUnauthorized               = errors.New("unauthorized to access payroll")
)
