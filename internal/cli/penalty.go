package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
)

type PenaltyCmd struct {
	Lates int           `arg:"" help:"Countable late days in the period."`
	Extra time.Duration `help:"Extra time worked in the period, e.g. 5h30m." default:"0s"`
}

func (c *PenaltyCmd) Run(ctx *Context) error {
	if c.Lates < 0 || c.Extra < 0 {
		return fmt.Errorf("late count and extra time must not be negative")
	}

	state := policy.ComputePenalty(c.Lates, c.Extra, ctx.Policy)
	if ctx.JSON {
		return ctx.printJSON(state)
	}

	fmt.Fprintf(ctx.Out, "Lates:       %d -> %d block(s), %s day(s)\n", state.LateCount, state.Blocks, state.RawDeductionDays.String())
	fmt.Fprintf(ctx.Out, "Extra:       %s -> %d block(s) offset, %s day(s)\n", formatDuration(c.Extra), state.OffsetBlocks, state.OffsetDays.String())
	fmt.Fprintf(ctx.Out, "Deduction:   %s day(s)\n", state.DeductionDays.String())
	return nil
}
