package cli

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

type TimerCmd struct {
	CheckIn string `arg:"" name:"check-in" help:"Check-in time of the open session."`
	At      string `help:"Evaluate the timer at this time instead of now."`
}

func (c *TimerCmd) Run(ctx *Context) error {
	checkIn, err := ctx.parseTime(c.CheckIn)
	if err != nil {
		return err
	}

	now := ctx.Now()
	if c.At != "" {
		if now, err = ctx.parseTime(c.At); err != nil {
			return err
		}
	}

	snap, err := policy.Countdown(checkIn, now, ctx.Policy)
	if err != nil {
		return err
	}
	if ctx.JSON {
		return ctx.printJSON(snap)
	}

	fmt.Fprintf(ctx.Out, "Elapsed:     %s\n", formatDuration(snap.Elapsed))
	switch {
	case !snap.HasTarget:
		fmt.Fprintln(ctx.Out, "Target:      none (day off)")
	case snap.Overtime > 0:
		fmt.Fprintf(ctx.Out, "Target:      %s\n", snap.Target.In(ctx.Policy.Location).Format("15:04"))
		fmt.Fprintf(ctx.Out, "Overtime:    +%s\n", formatDuration(snap.Overtime))
	default:
		fmt.Fprintf(ctx.Out, "Target:      %s\n", snap.Target.In(ctx.Policy.Location).Format("15:04"))
		fmt.Fprintf(ctx.Out, "Remaining:   %s (%.0f%%)\n", formatDuration(snap.Remaining), snap.Progress)
	}
	return nil
}
