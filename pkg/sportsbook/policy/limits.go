// Package policy enforces bookmaker acceptance limits on incoming
// bet slips.
package policy

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oddsforge/sportsbook/pkg/sportsbook/bet"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/market"
)

// Limits defines the acceptance parameters for bet placement.
type Limits struct {
	// Per-slip limits
	MaxStake        decimal.Decimal // max total stake on one slip
	MinStake        decimal.Decimal // min total stake
	MaxSelections   int             // max legs on one slip
	MaxCombinedOdds decimal.Decimal // max odds product of any line
	MaxLinePayout   decimal.Decimal // max potential payout of any line

	// Daily limits
	MaxDailyStake decimal.Decimal // max total stake accepted per day
	MaxDailyBets  int             // max slips accepted per day

	// Exposure limits
	MaxFixtureExposure decimal.Decimal // max potential payout riding on one fixture

	// Market restrictions
	BlockedFamilies []market.Family // families to refuse outright
}

// DefaultLimits returns conservative default acceptance limits.
func DefaultLimits() *Limits {
	return &Limits{
		MaxStake:        decimal.NewFromInt(1000),
		MinStake:        decimal.NewFromFloat(0.10),
		MaxSelections:   20,
		MaxCombinedOdds: decimal.NewFromInt(1000),
		MaxLinePayout:   decimal.NewFromInt(100000),

		MaxDailyStake: decimal.NewFromInt(50000),
		MaxDailyBets:  10000,

		MaxFixtureExposure: decimal.NewFromInt(250000),
	}
}

// Engine enforces acceptance limits and tracks rolling exposure.
type Engine struct {
	limits *Limits

	mu       sync.Mutex
	exposure map[int]decimal.Decimal // fixtureID -> potential payout at risk
	dayStake decimal.Decimal
	dayBets  int
	statsDay int // day of year the counters belong to
}

// NewEngine creates a policy engine with the given limits.
func NewEngine(limits *Limits) *Engine {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &Engine{
		limits:   limits,
		exposure: make(map[int]decimal.Decimal),
		statsDay: time.Now().YearDay(),
	}
}

// CheckSlip validates a slip and its expanded lines against the
// acceptance limits. It does not mutate state; call RecordAccepted once
// the slip is persisted.
func (e *Engine) CheckSlip(slip bet.Slip, lines []bet.Line) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetDailyIfNeeded()

	if e.limits.MaxStake.IsPositive() && slip.Stake.GreaterThan(e.limits.MaxStake) {
		return fmt.Errorf("stake %s exceeds max %s", slip.Stake, e.limits.MaxStake)
	}
	if slip.Stake.LessThan(e.limits.MinStake) {
		return fmt.Errorf("stake %s below min %s", slip.Stake, e.limits.MinStake)
	}
	if e.limits.MaxSelections > 0 && len(slip.Selections) > e.limits.MaxSelections {
		return fmt.Errorf("too many selections: %d > %d", len(slip.Selections), e.limits.MaxSelections)
	}

	for _, sel := range slip.Selections {
		family := market.Classify(sel.MarketName)
		for _, blocked := range e.limits.BlockedFamilies {
			if family == blocked {
				return fmt.Errorf("market family %s is not accepted", family)
			}
		}
	}

	for _, line := range lines {
		odds := decimal.NewFromInt(1)
		for _, sel := range line.Selections {
			odds = odds.Mul(sel.Odd)
		}
		if e.limits.MaxCombinedOdds.IsPositive() && odds.GreaterThan(e.limits.MaxCombinedOdds) {
			return fmt.Errorf("combined odds %s exceed max %s", odds.Round(2), e.limits.MaxCombinedOdds)
		}
		if e.limits.MaxLinePayout.IsPositive() && line.PotentialPayout.GreaterThan(e.limits.MaxLinePayout) {
			return fmt.Errorf("potential payout %s exceeds max %s", line.PotentialPayout, e.limits.MaxLinePayout)
		}
	}

	if e.limits.MaxDailyBets > 0 && e.dayBets >= e.limits.MaxDailyBets {
		return fmt.Errorf("daily bet limit reached: %d", e.limits.MaxDailyBets)
	}
	if e.limits.MaxDailyStake.IsPositive() && e.dayStake.Add(slip.Stake).GreaterThan(e.limits.MaxDailyStake) {
		return fmt.Errorf("would exceed daily stake limit %s", e.limits.MaxDailyStake)
	}

	// Per-fixture liability across all accepted bets.
	if e.limits.MaxFixtureExposure.IsPositive() {
		added := make(map[int]decimal.Decimal)
		for _, line := range lines {
			for _, sel := range line.Selections {
				added[sel.FixtureID] = added[sel.FixtureID].Add(line.PotentialPayout)
			}
		}
		for fixtureID, amount := range added {
			next := e.exposure[fixtureID].Add(amount)
			if next.GreaterThan(e.limits.MaxFixtureExposure) {
				return fmt.Errorf("fixture %d exposure %s would exceed limit %s",
					fixtureID, next.Round(2), e.limits.MaxFixtureExposure)
			}
		}
	}

	return nil
}

// RecordAccepted registers an accepted slip's stake and liability.
func (e *Engine) RecordAccepted(slip bet.Slip, lines []bet.Line) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetDailyIfNeeded()

	e.dayStake = e.dayStake.Add(slip.Stake)
	e.dayBets++

	for _, line := range lines {
		for _, sel := range line.Selections {
			e.exposure[sel.FixtureID] = e.exposure[sel.FixtureID].Add(line.PotentialPayout)
		}
	}
}

// ReleaseFixture drops the tracked liability for a settled fixture.
func (e *Engine) ReleaseFixture(fixtureID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.exposure, fixtureID)
}

// FixtureExposure returns the potential payout at risk on a fixture.
func (e *Engine) FixtureExposure(fixtureID int) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exposure[fixtureID]
}

// Status is a summary of the current acceptance state.
type Status struct {
	DailyStake      string `json:"daily_stake"`
	MaxDailyStake   string `json:"max_daily_stake"`
	DailyBets       int    `json:"daily_bets"`
	MaxDailyBets    int    `json:"max_daily_bets"`
	OpenFixtures    int    `json:"open_fixtures"`
	LargestExposure string `json:"largest_exposure"`
}

// Status returns the current acceptance status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	largest := decimal.Zero
	for _, amount := range e.exposure {
		if amount.GreaterThan(largest) {
			largest = amount
		}
	}

	return Status{
		DailyStake:      e.dayStake.String(),
		MaxDailyStake:   e.limits.MaxDailyStake.String(),
		DailyBets:       e.dayBets,
		MaxDailyBets:    e.limits.MaxDailyBets,
		OpenFixtures:    len(e.exposure),
		LargestExposure: largest.String(),
	}
}

func (e *Engine) resetDailyIfNeeded() {
	if day := time.Now().YearDay(); day != e.statsDay {
		e.dayStake = decimal.Zero
		e.dayBets = 0
		e.statsDay = day
	}
}
