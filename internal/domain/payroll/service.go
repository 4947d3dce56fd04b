package payroll

import "context"

type PayrollService interface {
	// Preview computes one employee's payroll for a period without storing it
	Preview(ctx context.Context, req PreviewPayrollRequest) (PayrollRecordResponse, error)

	// GeneratePayroll stores draft records for the period
	GeneratePayroll(ctx context.Context, req GeneratePayrollRequest) ([]PayrollRecordResponse, error)

	GetPayrollRecord(ctx context.Context, id string) (PayrollRecordResponse, error)
	ListPayrollRecords(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	MarkPaid(ctx context.Context, req MarkPaidRequest) error
	DeletePayrollRecord(ctx context.Context, id string) error
}
