package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayType classifies a calendar date under the policy.
type DayType string

const (
	DayTypeWeekday         DayType = "weekday"
	DayTypeWorkingSaturday DayType = "working_saturday"
	DayTypeDayOff          DayType = "day_off"
)

// DayTypeOf returns the kind of day t falls on in the policy's location.
func (c Config) DayTypeOf(t time.Time) DayType {
	local := t.In(c.loc())
	if c.isHoliday(local) {
		return DayTypeDayOff
	}

	switch local.Weekday() {
	case time.Sunday:
		return DayTypeDayOff
	case time.Saturday:
		if c.isWorkingSaturday(local) {
			return DayTypeWorkingSaturday
		}
		return DayTypeDayOff
	default:
		return DayTypeWeekday
	}
}

// ShiftFor returns the shift of the given day type; ok is false on a day off.
func (c Config) ShiftFor(dt DayType) (Shift, bool) {
	switch dt {
	case DayTypeWeekday:
		return c.Weekday, true
	case DayTypeWorkingSaturday:
		return c.Saturday, true
	}
	return Shift{}, false
}

// LateCutoff is the first instant on t's date that counts as late. The
// second return is false on days without a shift.
func (c Config) LateCutoff(t time.Time) (time.Time, bool) {
	shift, ok := c.ShiftFor(c.DayTypeOf(t))
	if !ok {
		return time.Time{}, false
	}
	return shift.Start.On(t, c.loc()).Add(c.LateGrace), true
}

// AutoCheckoutDeadline is the instant an open session of day is closed by the system.
func AutoCheckoutDeadline(day time.Time, cfg Config) time.Time {
	return cfg.AutoCheckoutAt.On(day, cfg.loc())
}

// SessionDeadline is when the system closes a session that started at
// checkIn. A session opened after the day's deadline runs to the next one.
func SessionDeadline(checkIn time.Time, cfg Config) time.Time {
	deadline := AutoCheckoutDeadline(checkIn, cfg)
	if deadline.Before(checkIn) {
		deadline = AutoCheckoutDeadline(checkIn.AddDate(0, 0, 1), cfg)
	}
	return deadline
}

// ScheduledDays returns the weighted number of working days in a month:
// weekdays count 1, working Saturdays 0.5, days off 0.
func ScheduledDays(year int, month time.Month, cfg Config) decimal.Decimal {
	loc := cfg.loc()
	half := decimal.NewFromFloat(0.5)
	total := decimal.Zero

	for d := time.Date(year, month, 1, 12, 0, 0, 0, loc); d.Month() == month; d = d.AddDate(0, 0, 1) {
		switch cfg.DayTypeOf(d) {
		case DayTypeWeekday:
			total = total.Add(decimal.NewFromInt(1))
		case DayTypeWorkingSaturday:
			total = total.Add(half)
		}
	}
	return total
}

func (c Config) isHoliday(local time.Time) bool {
	date := local.Format("2006-01-02")
	for _, h := range c.Holidays {
		if h == date {
			return true
		}
	}
	return false
}

func (c Config) isWorkingSaturday(local time.Time) bool {
	if len(c.WorkingSaturdays) == 0 {
		return true
	}
	ordinal := (local.Day()-1)/7 + 1
	for _, n := range c.WorkingSaturdays {
		if n == ordinal {
			return true
		}
	}
	return false
}

// MonthBounds returns the first and last calendar dates of a month as UTC
// midnights, matching how log dates are stored.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// LocalDate is the calendar date of t in the policy location, as a UTC midnight.
func (c Config) LocalDate(t time.Time) time.Time {
	local := t.In(c.loc())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
