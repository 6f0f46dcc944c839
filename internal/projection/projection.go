// Package projection answers "how much must I invest today to reach target X
// in N cycles" by inverting the fixed-rate compound-growth model used for
// order maturation. The inversion is closed-form: the growth is geometric, so
// no root finding is needed.
package projection

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidProjectionInput is returned for a non-positive target, a negative
// yield rate, or fewer than one remaining cycle.
var ErrInvalidProjectionInput = errors.New("invalid projection input")

var one = decimal.NewFromInt(1)

// Result carries the required additional investment together with the
// intermediate values surfaced for display and audit.
type Result struct {
	FutureValueOfCommitted decimal.Decimal
	Shortfall              decimal.Decimal
	Required               decimal.Decimal
}

// RequiredInvestment computes the principal that must be invested today so
// that, compounded over remainingCycles at cycleYieldRate together with the
// capital already committed, the balance reaches targetAmount. Amounts are
// rounded half-up to cents since the result is an actionable deposit amount.
// A zero Required is a valid outcome: the goal is already reachable.
func RequiredInvestment(targetAmount, cycleYieldRate decimal.Decimal, remainingCycles int, alreadyCommitted decimal.Decimal) (Result, error) {
	if targetAmount.LessThanOrEqual(decimal.Zero) {
		return Result{}, ErrInvalidProjectionInput
	}
	if cycleYieldRate.IsNegative() {
		return Result{}, ErrInvalidProjectionInput
	}
	if remainingCycles < 1 {
		return Result{}, ErrInvalidProjectionInput
	}
	if alreadyCommitted.IsNegative() {
		return Result{}, ErrInvalidProjectionInput
	}

	growth := one.Add(cycleYieldRate).Pow(decimal.NewFromInt(int64(remainingCycles)))
	futureValue := alreadyCommitted.Mul(growth)
	if futureValue.GreaterThanOrEqual(targetAmount) {
		return Result{
			FutureValueOfCommitted: futureValue.Round(2),
			Shortfall:              decimal.Zero,
			Required:               decimal.Zero,
		}, nil
	}

	shortfall := targetAmount.Sub(futureValue)
	return Result{
		FutureValueOfCommitted: futureValue.Round(2),
		Shortfall:              shortfall.Round(2),
		Required:               shortfall.Div(growth).Round(2),
	}, nil
}

// GrowthRow is one line of the per-cycle growth table.
type GrowthRow struct {
	Cycle   int             `json:"cycle"`
	Opening decimal.Decimal `json:"opening"`
	Yield   decimal.Decimal `json:"yield"`
	Closing decimal.Decimal `json:"closing"`
}

// GrowthSchedule compounds a starting balance forward cycle by cycle and
// returns the table shown next to a projection. Each row is settled to cents;
// the closing balance of one cycle is the opening balance of the next.
func GrowthSchedule(start, cycleYieldRate decimal.Decimal, cycles int) ([]GrowthRow, error) {
	if start.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidProjectionInput
	}
	if cycleYieldRate.IsNegative() {
		return nil, ErrInvalidProjectionInput
	}
	if cycles < 1 {
		return nil, ErrInvalidProjectionInput
	}

	rows := make([]GrowthRow, 0, cycles)
	opening := start.Round(2)
	for k := 1; k <= cycles; k++ {
		yield := opening.Mul(cycleYieldRate).Round(2)
		closing := opening.Add(yield)
		rows = append(rows, GrowthRow{
			Cycle:   k,
			Opening: opening,
			Yield:   yield,
			Closing: closing,
		})
		opening = closing
	}
	return rows, nil
}

// RoundToStep rounds an amount half-up to the nearest multiple of a deposit
// step (e.g. 48980 -> 49000 with step 500). Computed in cents so float drift
// cannot move the result across a step boundary. Non-positive amounts round
// to zero; a non-positive step leaves the amount untouched.
func RoundToStep(amount decimal.Decimal, step int64) decimal.Decimal {
	if step <= 0 {
		return amount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	stepCents := step * 100
	rounded := ((cents + stepCents/2) / stepCents) * stepCents
	return decimal.NewFromInt(rounded).Div(decimal.NewFromInt(100))
}
