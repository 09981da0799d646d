package bet

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/oddsforge/sportsbook/pkg/sportsbook/market"
)

// Mode is the betting mode of a slip.
type Mode string

const (
	ModeSingle   Mode = "single"
	ModeMultiple Mode = "multiple" // accumulator
	ModeSystem   Mode = "system"   // combination betting
)

// ErrNoValidSlip is returned when no selections remain to wager on.
var ErrNoValidSlip = errors.New("no valid slip")

var validate = validator.New()

// Slip is a raw client-submitted bet slip.
type Slip struct {
	Mode       Mode               `json:"mode" validate:"required,oneof=single multiple system"`
	Stake      decimal.Decimal    `json:"stake"`
	SystemSize int                `json:"system_size,omitempty"`
	Selections []market.Selection `json:"selections" validate:"required,min=1"`
}

// Validate checks slip shape before expansion. Decimal fields are
// checked by hand since the tag validator cannot see into them.
func (s *Slip) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if s.Stake.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("stake must be positive")
	}
	// Stake splitting works in whole cents; finer precision would be
	// silently truncated.
	if !s.Stake.Equal(s.Stake.Round(2)) {
		return fmt.Errorf("stake must be a whole number of cents")
	}
	one := decimal.NewFromInt(1)
	for i, sel := range s.Selections {
		if sel.FixtureID == 0 {
			return fmt.Errorf("selection %d: fixture id is required", i)
		}
		if sel.Odd.LessThanOrEqual(one) {
			return fmt.Errorf("selection %d: odd must be greater than 1", i)
		}
	}
	if s.Mode == ModeSystem && s.SystemSize < 2 {
		return fmt.Errorf("system bets require a system size of at least 2")
	}
	return nil
}

// Line is one concrete wagered line produced from a slip. Lines are
// immutable once persisted; settlement only appends a decision.
type Line struct {
	Selections      []market.Selection `json:"selections"`
	Stake           decimal.Decimal    `json:"stake"`
	PotentialPayout decimal.Decimal    `json:"potential_payout"`
}

// Expand turns a slip into its concrete wagered lines.
//
// Modes degrade when selections dropped out between slip construction
// and placement: an accumulator with fewer than two selections becomes
// a single, a system clamps its size into [2, n] and becomes an
// accumulator at exactly two selections.
func Expand(slip Slip) ([]Line, error) {
	n := len(slip.Selections)
	if n == 0 {
		return nil, ErrNoValidSlip
	}

	mode := slip.Mode
	size := slip.SystemSize
	if mode == ModeMultiple && n < 2 {
		mode = ModeSingle
	}
	if mode == ModeSystem {
		if size > n {
			size = n
		}
		if size < 2 {
			size = 2
		}
		if n == 2 {
			mode = ModeMultiple
		} else if n < 2 {
			mode = ModeSingle
		}
	}

	switch mode {
	case ModeMultiple:
		product := decimal.NewFromInt(1)
		for _, sel := range slip.Selections {
			product = product.Mul(sel.Odd)
		}
		return []Line{{
			Selections:      slip.Selections,
			Stake:           slip.Stake,
			PotentialPayout: slip.Stake.Mul(product).Round(2),
		}}, nil

	case ModeSingle:
		stakes := splitStake(slip.Stake, n)
		lines := make([]Line, 0, n)
		for i, sel := range slip.Selections {
			lines = append(lines, Line{
				Selections:      []market.Selection{sel},
				Stake:           stakes[i],
				PotentialPayout: stakes[i].Mul(sel.Odd).Round(2),
			})
		}
		return lines, nil

	case ModeSystem:
		combos := combinations(n, size)
		stakes := splitStake(slip.Stake, len(combos))
		lines := make([]Line, 0, len(combos))
		for i, combo := range combos {
			selections := make([]market.Selection, 0, size)
			product := decimal.NewFromInt(1)
			for _, idx := range combo {
				selections = append(selections, slip.Selections[idx])
				product = product.Mul(slip.Selections[idx].Odd)
			}
			lines = append(lines, Line{
				Selections:      selections,
				Stake:           stakes[i],
				PotentialPayout: stakes[i].Mul(product).Round(2),
			})
		}
		return lines, nil

	default:
		return nil, fmt.Errorf("unknown bet mode: %s", slip.Mode)
	}
}

// TotalPotentialPayout sums the per-line payouts, which are already
// rounded to cents, and rounds the sum once at the end.
func TotalPotentialPayout(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.PotentialPayout)
	}
	return total.Round(2)
}

// splitStake divides a stake across n lines with integer-cent
// arithmetic: the first remainder lines carry one extra cent, so the
// parts always sum exactly to the original stake.
func splitStake(total decimal.Decimal, n int) []decimal.Decimal {
	totalCents := total.Shift(2).IntPart()
	base := totalCents / int64(n)
	remainder := totalCents % int64(n)

	stakes := make([]decimal.Decimal, n)
	for i := range stakes {
		cents := base
		if int64(i) < remainder {
			cents++
		}
		stakes[i] = decimal.New(cents, -2)
	}
	return stakes
}

// combinations enumerates all k-element index subsets of [0,n) in input
// order, without de-duplicating by content.
func combinations(n, k int) [][]int {
	var result [][]int
	combo := make([]int, k)

	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			picked := make([]int, k)
			copy(picked, combo)
			result = append(result, picked)
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return result
}
