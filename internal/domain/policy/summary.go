package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayRecord is the slice of a stored attendance log the monthly summary needs.
type DayRecord struct {
	Status        Status
	LateCountable bool
	DayCredit     decimal.Decimal
	ExtraWorked   time.Duration
	// OvertimeCounts is false for auto-checkout logs whose overtime has not
	// been approved.
	OvertimeCounts bool
}

// MonthlySummary aggregates a period of attendance.
type MonthlySummary struct {
	Days            int             `json:"days"`
	StatusCounts    map[Status]int  `json:"status_counts"`
	TotalDayCredit  decimal.Decimal `json:"total_day_credit"`
	LateCount       int             `json:"late_count"`
	ExtraWorked     time.Duration   `json:"-"`
	ExtraHours      float64         `json:"extra_hours"`
	PendingOvertime time.Duration   `json:"-"`
	Penalty         PenaltyState    `json:"penalty"`
}

// Summarize folds day records into counts and the period's penalty.
// In-progress days are counted but contribute nothing else.
func Summarize(records []DayRecord, cfg Config) MonthlySummary {
	s := MonthlySummary{
		StatusCounts:   make(map[Status]int),
		TotalDayCredit: decimal.Zero,
	}

	for _, r := range records {
		s.Days++
		s.StatusCounts[r.Status]++
		if r.Status == StatusInProgress {
			continue
		}
		s.TotalDayCredit = s.TotalDayCredit.Add(r.DayCredit)
		if r.LateCountable {
			s.LateCount++
		}
		if r.ExtraWorked <= 0 {
			continue
		}
		if r.OvertimeCounts {
			s.ExtraWorked += r.ExtraWorked
		} else {
			s.PendingOvertime += r.ExtraWorked
		}
	}

	s.ExtraHours = s.ExtraWorked.Hours()
	s.Penalty = ComputePenalty(s.LateCount, s.ExtraWorked, cfg)
	return s
}
