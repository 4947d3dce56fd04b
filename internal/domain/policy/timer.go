package policy

import "time"

// TimerSnapshot is one tick of the live shift timer.
type TimerSnapshot struct {
	CheckIn   time.Time     `json:"check_in"`
	Now       time.Time     `json:"now"`
	Elapsed   time.Duration `json:"-"`
	HasTarget bool          `json:"has_target"`
	Target    *time.Time    `json:"target,omitempty"`
	Remaining time.Duration `json:"-"`
	Overtime  time.Duration `json:"-"`
	// Progress is elapsed/(target-checkIn) as a percentage clamped to [0,100].
	Progress float64 `json:"progress"`
}

// Countdown computes the live timer for a session opened at checkIn. Before
// the day's countdown target it reports time remaining and progress; past
// the target it reports overtime. Days off have no target and only elapsed
// time is reported.
func Countdown(checkIn, now time.Time, cfg Config) (TimerSnapshot, error) {
	if now.Before(checkIn) {
		return TimerSnapshot{}, ErrInvalidTimeRange
	}

	snap := TimerSnapshot{
		CheckIn: checkIn,
		Now:     now,
		Elapsed: now.Sub(checkIn),
	}

	shift, ok := cfg.ShiftFor(cfg.DayTypeOf(checkIn))
	if !ok {
		return snap, nil
	}

	target := shift.CountdownTarget.On(checkIn, cfg.loc())
	snap.HasTarget = true
	snap.Target = &target

	if !now.Before(target) {
		snap.Overtime = now.Sub(target)
		snap.Progress = 100
		return snap, nil
	}

	snap.Remaining = target.Sub(now)
	span := target.Sub(checkIn)
	if span <= 0 {
		snap.Progress = 100
		return snap, nil
	}
	snap.Progress = clampPercent(float64(snap.Elapsed) / float64(span) * 100)
	return snap, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
