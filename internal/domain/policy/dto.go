package policy

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EvaluateRequest struct {
	CheckIn        string  `json:"check_in"`
	CheckOut       *string `json:"check_out,omitempty"`
	PriorLateCount int     `json:"prior_late_count"`
}

// Parse validates the request and returns its timestamps.
func (r *EvaluateRequest) Parse() (checkIn time.Time, checkOut *time.Time, err error) {
	var errs validator.ValidationErrors

	checkIn, ok := validator.IsValidDateTime(r.CheckIn)
	if validator.IsEmpty(r.CheckIn) {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "check_in is required"})
	} else if !ok {
		errs = append(errs, validator.ValidationError{Field: "check_in", Message: "check_in must be an RFC3339 timestamp"})
	}

	if r.CheckOut != nil && !validator.IsEmpty(*r.CheckOut) {
		out, ok := validator.IsValidDateTime(*r.CheckOut)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "check_out", Message: "check_out must be an RFC3339 timestamp"})
		} else {
			checkOut = &out
		}
	}

	if r.PriorLateCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "prior_late_count", Message: "prior_late_count must not be negative"})
	}

	if len(errs) > 0 {
		return time.Time{}, nil, errs
	}
	return checkIn, checkOut, nil
}

// MaxPenaltyExtraHours bounds the extra time of one penalty period: every
// hour of a 31-day month.
const MaxPenaltyExtraHours = 31 * 24

type PenaltyRequest struct {
	LateCount  int     `json:"late_count"`
	ExtraHours float64 `json:"extra_hours"`
}

func (r *PenaltyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LateCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "late_count", Message: "late_count must not be negative"})
	}
	if r.ExtraHours < 0 {
		errs = append(errs, validator.ValidationError{Field: "extra_hours", Message: "extra_hours must not be negative"})
	}
	if r.ExtraHours > MaxPenaltyExtraHours {
		errs = append(errs, validator.ValidationError{
			Field:   "extra_hours",
			Message: fmt.Sprintf("extra_hours must not exceed %d", MaxPenaltyExtraHours),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Extra converts ExtraHours to a duration, clamped to the valid range.
func (r *PenaltyRequest) Extra() time.Duration {
	hours := math.Min(math.Max(r.ExtraHours, 0), MaxPenaltyExtraHours)
	return time.Duration(hours * float64(time.Hour))
}

type EvaluateResponse struct {
	Evaluation
	StatusLabel string       `json:"status_label"`
	WorkedHours float64      `json:"worked_hours"`
	LateMark    LateMark     `json:"late_mark"`
	Penalty     PenaltyState `json:"penalty"`
}

// NewEvaluateResponse previews the penalty the running late count would
// produce, with no extra time offset.
func NewEvaluateResponse(ev Evaluation, prior int, cfg Config) EvaluateResponse {
	mark := NextLateMark(prior, ev, cfg)
	return EvaluateResponse{
		Evaluation:  ev,
		StatusLabel: ev.Status.Label(),
		WorkedHours: ev.Worked.Hours(),
		LateMark:    mark,
		Penalty:     ComputePenalty(mark.Count, 0, cfg),
	}
}

type ShiftResponse struct {
	Start           string  `json:"start"`
	End             string  `json:"end"`
	CountdownTarget string  `json:"countdown_target"`
	FullShiftHours  float64 `json:"full_shift_hours"`
	HalfDayBelowH   float64 `json:"half_day_below_hours"`
	AbsentBelowH    float64 `json:"absent_below_hours"`
}

type ConfigResponse struct {
	Timezone               string          `json:"timezone"`
	Weekday                ShiftResponse   `json:"weekday"`
	Saturday               ShiftResponse   `json:"saturday"`
	WorkingSaturdays       []int           `json:"working_saturdays"`
	Holidays               []string        `json:"holidays"`
	LateGraceMinutes       float64         `json:"late_grace_minutes"`
	GraceLateCount         int             `json:"grace_late_count"`
	BlockValue             decimal.Decimal `json:"block_value"`
	OffsetStepHours        float64         `json:"offset_step_hours"`
	AutoCheckoutAt         string          `json:"auto_checkout_at"`
	AutoCheckoutEnabled    bool            `json:"auto_checkout_enabled"`
	LocationMismatchMeters float64         `json:"location_mismatch_meters"`
}

func newShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		Start:           s.Start.String(),
		End:             s.End.String(),
		CountdownTarget: s.CountdownTarget.String(),
		FullShiftHours:  s.FullShift().Hours(),
		HalfDayBelowH:   s.HalfDayBelow.Hours(),
		AbsentBelowH:    s.AbsentBelow.Hours(),
	}
}

func NewConfigResponse(c Config) ConfigResponse {
	return ConfigResponse{
		Timezone:               c.loc().String(),
		Weekday:                newShiftResponse(c.Weekday),
		Saturday:               newShiftResponse(c.Saturday),
		WorkingSaturdays:       c.WorkingSaturdays,
		Holidays:               c.Holidays,
		LateGraceMinutes:       c.LateGrace.Minutes(),
		GraceLateCount:         c.GraceLateCount,
		BlockValue:             c.BlockValue,
		OffsetStepHours:        c.OffsetStep.Hours(),
		AutoCheckoutAt:         c.AutoCheckoutAt.String(),
		AutoCheckoutEnabled:    c.AutoCheckoutEnabled,
		LocationMismatchMeters: c.LocationMismatchMeters,
	}
}
