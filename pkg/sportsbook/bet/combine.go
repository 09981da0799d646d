// Package bet combines per-selection settlement results into bet-level
// outcomes and expands raw bet slips into concrete wagered lines.
package bet

import (
	"github.com/shopspring/decimal"

	"github.com/oddsforge/sportsbook/pkg/sportsbook/fixture"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/market"
)

// LegResult pairs a selection with its settlement judgment.
type LegResult struct {
	Selection market.Selection `json:"selection"`
	Result    market.Result    `json:"result"`
}

// Outcome is the bet-level settlement decision. Payout is nil while the
// bet is unresolved.
type Outcome struct {
	Outcome market.Outcome   `json:"outcome"`
	Payout  *decimal.Decimal `json:"payout"`
	Legs    []LegResult      `json:"legs"`
}

// Settle resolves every selection of one wagered line and reduces the
// results into a single outcome.
//
// The reduction order is load-bearing: unresolved dominates so an
// incomplete result is never crystallized early, then a single lost leg
// loses the bet regardless of everything else, then an all-void bet
// refunds the stake. Void legs are excluded from the winning odds
// product, so a partially voided accumulator still pays on its
// remaining legs.
func Settle(selections []market.Selection, contexts map[int]*fixture.Context, stake decimal.Decimal) Outcome {
	// A line with no legs cannot be judged; it stays unresolved rather
	// than paying out on an empty product.
	if len(selections) == 0 {
		return Outcome{Outcome: market.OutcomeUnresolved, Legs: []LegResult{}}
	}

	legs := make([]LegResult, 0, len(selections))
	for _, sel := range selections {
		legs = append(legs, LegResult{
			Selection: sel,
			Result:    market.Resolve(sel, contexts[sel.FixtureID]),
		})
	}

	anyUnresolved := false
	anyLost := false
	allVoid := len(legs) > 0
	for _, leg := range legs {
		switch leg.Result.Outcome {
		case market.OutcomeUnresolved:
			anyUnresolved = true
			allVoid = false
		case market.OutcomeLost:
			anyLost = true
			allVoid = false
		case market.OutcomeWon:
			allVoid = false
		}
	}

	switch {
	case anyUnresolved:
		return Outcome{Outcome: market.OutcomeUnresolved, Payout: nil, Legs: legs}
	case anyLost:
		zero := decimal.Zero
		return Outcome{Outcome: market.OutcomeLost, Payout: &zero, Legs: legs}
	case allVoid:
		refund := stake
		return Outcome{Outcome: market.OutcomeVoid, Payout: &refund, Legs: legs}
	default:
		product := decimal.NewFromInt(1)
		for _, leg := range legs {
			if leg.Result.Outcome == market.OutcomeWon {
				product = product.Mul(leg.Selection.Odd)
			}
		}
		payout := stake.Mul(product).Round(2)
		return Outcome{Outcome: market.OutcomeWon, Payout: &payout, Legs: legs}
	}
}
