package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/alecthomas/kong"

	"github.com/cmlabs-hris/attendance-backend-go/internal/cli"
)

var version = "dev"

var CLI struct {
	Version  kong.VersionFlag
	Timezone string   `help:"Policy timezone." default:"Asia/Jakarta" env:"POLICY_TIMEZONE"`
	Holidays []string `help:"Holiday dates (YYYY-MM-DD)." env:"POLICY_HOLIDAYS"`
	JSON     bool     `help:"Print JSON instead of text."`

	Evaluate cli.EvaluateCmd `cmd:"" help:"Classify a check-in/check-out pair."`
	Penalty  cli.PenaltyCmd  `cmd:"" help:"Compute the late penalty of a period."`
	Timer    cli.TimerCmd    `cmd:"" help:"Show the live timer of an open session."`
	Distance cli.DistanceCmd `cmd:"" help:"Distance between check-in and check-out coordinates."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("attendancectl"),
		kong.Description("Attendance policy calculator"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	appCtx, err := cli.NewContext(os.Stdout, CLI.Timezone, CLI.Holidays, CLI.JSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
