package payroll

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/shopspring/decimal"
)

// Breakdown is the salary arithmetic of one period.
type Breakdown struct {
	BaseSalary      decimal.Decimal `json:"base_salary"`
	ScheduledDays   decimal.Decimal `json:"scheduled_days"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	DeductionDays   decimal.Decimal `json:"deduction_days"`
	DeductionAmount decimal.Decimal `json:"deduction_amount"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

// Calculate applies penalty deduction days to a monthly base salary:
// daily = base / scheduled, deduction = days * daily, net = max(0, base - deduction).
// Money is rounded to two places.
func Calculate(base, scheduledDays decimal.Decimal, penalty policy.PenaltyState) (Breakdown, error) {
	if base.IsNegative() {
		return Breakdown{}, ErrEmployeeHasNoBaseSalary
	}
	if !scheduledDays.IsPositive() {
		return Breakdown{}, ErrNoScheduledDays
	}

	daily := base.Div(scheduledDays).Round(2)
	deduction := penalty.DeductionDays.Mul(daily).Round(2)
	net := base.Sub(deduction)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return Breakdown{
		BaseSalary:      base,
		ScheduledDays:   scheduledDays,
		DailyRate:       daily,
		DeductionDays:   penalty.DeductionDays,
		DeductionAmount: deduction,
		NetSalary:       net,
	}, nil
}
