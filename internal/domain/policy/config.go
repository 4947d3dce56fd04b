package policy

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Clock is a wall-clock time of day, e.g. 09:15.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid clock %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("invalid clock %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid clock %q: bad minute", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// MustClock is ParseClock for literals.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// On returns the instant at this clock time on the calendar date of day in loc.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, loc)
}

func (c Clock) sinceMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Shift describes the expected working window of one kind of day and the
// worked-time thresholds below which the day degrades.
type Shift struct {
	Start           Clock         `json:"start"`
	End             Clock         `json:"end"`
	CountdownTarget Clock         `json:"countdown_target"`
	HalfDayBelow    time.Duration `json:"half_day_below"`
	AbsentBelow     time.Duration `json:"absent_below"`
}

// FullShift is the worked duration that counts as a complete day.
func (s Shift) FullShift() time.Duration {
	return s.End.sinceMidnight() - s.Start.sinceMidnight()
}

// Config holds every attendance rule in one place. Zero values are not
// usable; start from DefaultConfig.
type Config struct {
	Location *time.Location `json:"-"`

	Weekday  Shift `json:"weekday"`
	Saturday Shift `json:"saturday"`
	// WorkingSaturdays lists which Saturdays of a month are worked (1 = first).
	// Empty means every Saturday is a half-day shift.
	WorkingSaturdays []int    `json:"working_saturdays,omitempty"`
	Holidays         []string `json:"holidays,omitempty"`

	LateGrace      time.Duration   `json:"late_grace"`
	GraceLateCount int             `json:"grace_late_count"`
	BlockValue     decimal.Decimal `json:"block_value"`
	OffsetStep     time.Duration   `json:"offset_step"`

	AutoCheckoutAt         Clock   `json:"auto_checkout_at"`
	AutoCheckoutEnabled    bool    `json:"auto_checkout_enabled"`
	LocationMismatchMeters float64 `json:"location_mismatch_meters"`
}

// DefaultConfig returns the standard office policy: 09:00-18:00 on weekdays
// with a 09:15 late cutoff, half-day Saturdays, three lates per half-day
// deduction and four extra hours per half-day offset.
func DefaultConfig() Config {
	return Config{
		Location: time.Local,
		Weekday: Shift{
			Start:           MustClock("09:00"),
			End:             MustClock("18:00"),
			CountdownTarget: MustClock("17:00"),
			HalfDayBelow:    6 * time.Hour,
			AbsentBelow:     4 * time.Hour,
		},
		Saturday: Shift{
			Start:           MustClock("09:00"),
			End:             MustClock("13:00"),
			CountdownTarget: MustClock("13:00"),
			HalfDayBelow:    3 * time.Hour,
			AbsentBelow:     2 * time.Hour,
		},
		LateGrace:              15 * time.Minute,
		GraceLateCount:         3,
		BlockValue:             decimal.NewFromFloat(0.5),
		OffsetStep:             4 * time.Hour,
		AutoCheckoutAt:         MustClock("22:00"),
		AutoCheckoutEnabled:    true,
		LocationMismatchMeters: 500,
	}
}

// Validate reports the first inconsistency in the configuration.
func (c Config) Validate() error {
	if c.Location == nil {
		return fmt.Errorf("%w: location is required", ErrInvalidConfig)
	}
	if c.GraceLateCount <= 0 {
		return fmt.Errorf("%w: grace late count must be positive", ErrInvalidConfig)
	}
	if !c.BlockValue.IsPositive() {
		return fmt.Errorf("%w: block value must be positive", ErrInvalidConfig)
	}
	if c.OffsetStep <= 0 {
		return fmt.Errorf("%w: offset step must be positive", ErrInvalidConfig)
	}
	if c.LateGrace < 0 {
		return fmt.Errorf("%w: late grace must not be negative", ErrInvalidConfig)
	}
	for name, s := range map[string]Shift{"weekday": c.Weekday, "saturday": c.Saturday} {
		if s.FullShift() <= 0 {
			return fmt.Errorf("%w: %s shift must end after it starts", ErrInvalidConfig, name)
		}
		if s.AbsentBelow > s.HalfDayBelow {
			return fmt.Errorf("%w: %s absent threshold exceeds half-day threshold", ErrInvalidConfig, name)
		}
		if s.HalfDayBelow > s.FullShift() {
			return fmt.Errorf("%w: %s half-day threshold exceeds full shift", ErrInvalidConfig, name)
		}
	}
	for _, n := range c.WorkingSaturdays {
		if n < 1 || n > 5 {
			return fmt.Errorf("%w: working saturday %d out of range 1-5", ErrInvalidConfig, n)
		}
	}
	for _, h := range c.Holidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			return fmt.Errorf("%w: holiday %q is not YYYY-MM-DD", ErrInvalidConfig, h)
		}
	}
	if c.LocationMismatchMeters <= 0 {
		return fmt.Errorf("%w: location mismatch distance must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
