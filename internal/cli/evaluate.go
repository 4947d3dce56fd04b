package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

type EvaluateCmd struct {
	CheckIn  string `arg:"" name:"check-in" help:"Check-in time."`
	CheckOut string `arg:"" name:"check-out" optional:"" help:"Check-out time. Omit for an open session."`
	Prior    int    `help:"Countable lates already recorded this period." default:"0"`
}

func (c *EvaluateCmd) Run(ctx *Context) error {
	checkIn, err := ctx.parseTime(c.CheckIn)
	if err != nil {
		return err
	}

	var checkOut *time.Time
	if c.CheckOut != "" {
		out, err := ctx.parseTime(c.CheckOut)
		if err != nil {
			return err
		}
		checkOut = &out
	}

	ev, err := policy.Evaluate(checkIn, checkOut, ctx.Policy)
	if err != nil {
		return err
	}
	resp := policy.NewEvaluateResponse(ev, c.Prior, ctx.Policy)

	if ctx.JSON {
		return ctx.printJSON(resp)
	}

	fmt.Fprintf(ctx.Out, "Date:        %s (%s)\n", checkIn.In(ctx.Policy.Location).Format("Mon 2006-01-02"), ev.DayType)
	fmt.Fprintf(ctx.Out, "Status:      %s\n", ev.Status.Label())
	fmt.Fprintf(ctx.Out, "Late:        %t (countable: %t)\n", ev.IsLate, ev.LateCountable)
	if !ev.InProgress {
		fmt.Fprintf(ctx.Out, "Worked:      %s\n", formatDuration(ev.Worked))
		fmt.Fprintf(ctx.Out, "Extra:       %s\n", formatDuration(ev.ExtraWorked))
		fmt.Fprintf(ctx.Out, "Day credit:  %s\n", ev.DayCredit.String())
	}
	fmt.Fprintf(ctx.Out, "Late count:  %d", resp.LateMark.Count)
	if resp.LateMark.TriggersBlock {
		fmt.Fprint(ctx.Out, " (completes a penalty block)")
	}
	fmt.Fprintln(ctx.Out)
	fmt.Fprintf(ctx.Out, "Deduction:   %s day(s)\n", resp.Penalty.DeductionDays.String())
	return nil
}
