package cli

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
)

type DistanceCmd struct {
	Lat1  float64 `arg:"" help:"Check-in latitude."`
	Lng1  float64 `arg:"" help:"Check-in longitude."`
	Lat2  float64 `arg:"" help:"Check-out latitude."`
	Lng2  float64 `arg:"" help:"Check-out longitude."`
	Limit float64 `help:"Mismatch distance in meters. Defaults to the policy value."`
}

type distanceResult struct {
	Meters       float64 `json:"meters"`
	LimitMeters  float64 `json:"limit_meters"`
	NoteRequired bool    `json:"note_required"`
}

func (c *DistanceCmd) Run(ctx *Context) error {
	limit := c.Limit
	if limit <= 0 {
		limit = ctx.Policy.LocationMismatchMeters
	}

	a := utils.Coordinate{Latitude: c.Lat1, Longitude: c.Lng1}
	b := utils.Coordinate{Latitude: c.Lat2, Longitude: c.Lng2}
	res := distanceResult{
		Meters:       utils.DistanceBetween(a, b),
		LimitMeters:  limit,
		NoteRequired: utils.ExceedsDistance(a, b, limit),
	}

	if ctx.JSON {
		return ctx.printJSON(res)
	}

	fmt.Fprintf(ctx.Out, "Distance:    %.1f m (limit %.0f m)\n", res.Meters, res.LimitMeters)
	if res.NoteRequired {
		fmt.Fprintln(ctx.Out, "A location note is required at check-out.")
	}
	return nil
}
