package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the classification of one attendance day.
type Status string

const (
	StatusPresent           Status = "present"
	StatusPresentLateWaived Status = "present_late_waived"
	StatusLate              Status = "late"
	StatusHalfDay           Status = "half_day"
	StatusAbsent            Status = "absent"
	StatusInProgress        Status = "in_progress"
)

var statusLabels = map[Status]string{
	StatusPresent:           "Present",
	StatusPresentLateWaived: "Present (Late Waived)",
	StatusLate:              "Late",
	StatusHalfDay:           "Half Day",
	StatusAbsent:            "Absent",
	StatusInProgress:        "In Progress",
}

// Label is the human readable form used in reports.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// IsFinal reports whether s is a closed-day classification.
func (s Status) IsFinal() bool {
	return s.IsValid() && s != StatusInProgress
}

// Evaluation is the outcome of classifying one check-in/check-out pair.
type Evaluation struct {
	Status           Status          `json:"status"`
	DayType          DayType         `json:"day_type"`
	IsLate           bool            `json:"is_late"`
	LateCountable    bool            `json:"late_countable"`
	DayCredit        decimal.Decimal `json:"day_credit"`
	Worked           time.Duration   `json:"-"`
	ExtraWorked      time.Duration   `json:"-"`
	ExtraWorkedHours float64         `json:"extra_worked_hours"`
	InProgress       bool            `json:"in_progress"`
}

var (
	creditNone = decimal.Zero
	creditHalf = decimal.NewFromFloat(0.5)
	creditFull = decimal.NewFromInt(1)
)

// Evaluate classifies a day from its check-in and optional check-out. A nil
// checkOut yields an in-progress evaluation carrying only provisional
// lateness. The function has no side effects: the same inputs always produce
// the same Evaluation.
func Evaluate(checkIn time.Time, checkOut *time.Time, cfg Config) (Evaluation, error) {
	dayType := cfg.DayTypeOf(checkIn)
	isLate := false
	if cutoff, ok := cfg.LateCutoff(checkIn); ok {
		isLate = !checkIn.Before(cutoff)
	}

	if checkOut == nil {
		return Evaluation{
			Status:     StatusInProgress,
			DayType:    dayType,
			IsLate:     isLate,
			DayCredit:  creditNone,
			InProgress: true,
		}, nil
	}

	if checkOut.Before(checkIn) {
		return Evaluation{}, ErrInvalidTimeRange
	}

	worked := checkOut.Sub(checkIn)
	ev := Evaluation{
		DayType: dayType,
		IsLate:  isLate,
		Worked:  worked,
	}

	shift, scheduled := cfg.ShiftFor(dayType)
	if !scheduled {
		// Work on a day off is all extra time and carries no lateness.
		ev.IsLate = false
		if worked <= 0 {
			ev.Status = StatusAbsent
			ev.DayCredit = creditNone
			return ev, nil
		}
		ev.Status = StatusPresent
		ev.DayCredit = creditNone
		ev.setExtra(worked)
		return ev, nil
	}

	full := shift.FullShift()
	ev.setExtra(worked - full)

	switch {
	case worked <= 0 || worked < shift.AbsentBelow:
		ev.Status = StatusAbsent
		ev.DayCredit = creditNone
	case worked < shift.HalfDayBelow:
		ev.Status = StatusHalfDay
		ev.DayCredit = creditHalf
	case isLate && worked >= full:
		ev.Status = StatusPresentLateWaived
		ev.DayCredit = creditFull
	case isLate:
		ev.Status = StatusLate
		ev.LateCountable = true
		ev.DayCredit = creditFull
	default:
		ev.Status = StatusPresent
		ev.DayCredit = creditFull
	}

	return ev, nil
}

// EvaluateUnclosed classifies a session whose day ended without any
// check-out being recorded.
func EvaluateUnclosed(checkIn time.Time, cfg Config) Evaluation {
	return Evaluation{
		Status:    StatusAbsent,
		DayType:   cfg.DayTypeOf(checkIn),
		DayCredit: creditNone,
	}
}

func (e *Evaluation) setExtra(d time.Duration) {
	if d < 0 {
		d = 0
	}
	e.ExtraWorked = d
	e.ExtraWorkedHours = d.Hours()
}

// CreditFor is the day credit a final status carries when it is set by hand.
func CreditFor(s Status) decimal.Decimal {
	switch s {
	case StatusPresent, StatusPresentLateWaived, StatusLate:
		return creditFull
	case StatusHalfDay:
		return creditHalf
	}
	return creditNone
}
