package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/shopspring/decimal"
)

// OvertimeStatus tracks admin review of overtime produced by a system checkout.
type OvertimeStatus string

const (
	OvertimeNone     OvertimeStatus = "none"
	OvertimePending  OvertimeStatus = "pending"
	OvertimeApproved OvertimeStatus = "approved"
	OvertimeRejected OvertimeStatus = "rejected"
)

type Attendance struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	Date               time.Time
	ClockIn            time.Time
	ClockOut           *time.Time
	DurationMs         *int64
	Status             policy.Status
	IsLate             bool
	LateCountable      bool
	DayCredit          decimal.Decimal
	ExtraWorkedMinutes int
	IsManualOverride   bool
	OverrideReason     *string
	AutoCheckout       bool
	OvertimeStatus     OvertimeStatus

	ClockInLatitude        *float64
	ClockInLongitude       *float64
	ClockInAccuracy        *float64
	ClockOutLatitude       *float64
	ClockOutLongitude      *float64
	ClockOutAccuracy       *float64
	LocationNote           *string
	CheckoutDistanceMeters *float64

	ReviewedBy      *string
	ReviewedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName   *string
	EmployeeUserID *string
}

// IsOpen reports whether the session has no check-out yet.
func (a Attendance) IsOpen() bool {
	return a.ClockOut == nil
}

// ApplyEvaluation copies the evaluator's verdict onto the log.
func (a *Attendance) ApplyEvaluation(ev policy.Evaluation) {
	a.Status = ev.Status
	a.IsLate = ev.IsLate
	a.LateCountable = ev.LateCountable
	a.DayCredit = ev.DayCredit
	a.ExtraWorkedMinutes = int(ev.ExtraWorked / time.Minute)

	if a.ClockOut != nil {
		ms := a.ClockOut.Sub(a.ClockIn).Milliseconds()
		a.DurationMs = &ms
	} else {
		a.DurationMs = nil
	}

	a.OvertimeStatus = OvertimeNone
	if a.AutoCheckout && a.ExtraWorkedMinutes > 0 {
		a.OvertimeStatus = OvertimePending
	}
}

// CloseAtDeadline closes an open session the way the system does at its
// auto-checkout deadline. With auto-checkout disabled the day becomes absent.
func (a *Attendance) CloseAtDeadline(deadline time.Time, cfg policy.Config) error {
	if !cfg.AutoCheckoutEnabled {
		a.ClockOut = &deadline
		a.AutoCheckout = false
		a.ApplyEvaluation(policy.EvaluateUnclosed(a.ClockIn, cfg))
		return nil
	}

	ev, err := policy.Evaluate(a.ClockIn, &deadline, cfg)
	if err != nil {
		return err
	}
	a.ClockOut = &deadline
	a.AutoCheckout = true
	a.ApplyEvaluation(ev)
	return nil
}

// ExtraWorked is the stored extra time as a duration.
func (a Attendance) ExtraWorked() time.Duration {
	return time.Duration(a.ExtraWorkedMinutes) * time.Minute
}

// OvertimeCounts reports whether the log's extra time may offset lates.
// System checkouts need an approved review first.
func (a Attendance) OvertimeCounts() bool {
	if !a.AutoCheckout {
		return true
	}
	return a.OvertimeStatus == OvertimeApproved
}

// DayRecord projects the log for monthly summaries.
func (a Attendance) DayRecord() policy.DayRecord {
	return policy.DayRecord{
		Status:         a.Status,
		LateCountable:  a.LateCountable,
		DayCredit:      a.DayCredit,
		ExtraWorked:    a.ExtraWorked(),
		OvertimeCounts: a.OvertimeCounts(),
	}
}
