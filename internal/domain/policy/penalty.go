package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

// PenaltyState is the late-arrival penalty of a period. It is always derived
// from the period's logs and never stored.
type PenaltyState struct {
	LateCount        int             `json:"late_count"`
	Blocks           int             `json:"blocks"`
	RawDeductionDays decimal.Decimal `json:"raw_deduction_days"`
	ExtraHours       float64         `json:"extra_hours"`
	OffsetBlocks     int             `json:"offset_blocks"`
	OffsetDays       decimal.Decimal `json:"offset_days"`
	DeductionDays    decimal.Decimal `json:"deduction_days"`
}

// ComputePenalty turns a late count and accumulated extra time into penalty
// days. Every GraceLateCount countable lates cost one block; every
// OffsetStep of extra time cancels one block. The result is floored at zero.
func ComputePenalty(lateCount int, extra time.Duration, cfg Config) PenaltyState {
	if lateCount < 0 {
		lateCount = 0
	}
	if extra < 0 {
		extra = 0
	}

	blocks := 0
	if cfg.GraceLateCount > 0 {
		blocks = lateCount / cfg.GraceLateCount
	}
	offsetBlocks := 0
	if cfg.OffsetStep > 0 {
		offsetBlocks = int(extra / cfg.OffsetStep)
	}

	raw := cfg.BlockValue.Mul(decimal.NewFromInt(int64(blocks)))
	offset := cfg.BlockValue.Mul(decimal.NewFromInt(int64(offsetBlocks)))
	deduction := raw.Sub(offset)
	if deduction.IsNegative() {
		deduction = decimal.Zero
	}

	return PenaltyState{
		LateCount:        lateCount,
		Blocks:           blocks,
		RawDeductionDays: raw,
		ExtraHours:       extra.Hours(),
		OffsetBlocks:     offsetBlocks,
		OffsetDays:       offset,
		DeductionDays:    deduction,
	}
}

// LateMark is the running late count after one more evaluated day.
type LateMark struct {
	Count         int  `json:"count"`
	Counted       bool `json:"counted"`
	TriggersBlock bool `json:"triggers_block"`
}

// NextLateMark adds ev to a prior late count. TriggersBlock is set when the
// new mark completes a penalty block (the 3rd, 6th, ... countable late).
func NextLateMark(prior int, ev Evaluation, cfg Config) LateMark {
	if prior < 0 {
		prior = 0
	}
	if !ev.LateCountable {
		return LateMark{Count: prior}
	}
	count := prior + 1
	return LateMark{
		Count:         count,
		Counted:       true,
		TriggersBlock: cfg.GraceLateCount > 0 && count%cfg.GraceLateCount == 0,
	}
}
