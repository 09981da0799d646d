package policy

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oddsforge/sportsbook/pkg/sportsbook/bet"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/market"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func slipWith(stake string, sels ...market.Selection) bet.Slip {
	return bet.Slip{
		Mode:       bet.ModeSingle,
		Stake:      dec(stake),
		Selections: sels,
	}
}

func sel(fixtureID int, marketName, value, odd string) market.Selection {
	return market.Selection{
		FixtureID:  fixtureID,
		MarketName: marketName,
		Value:      value,
		Odd:        dec(odd),
	}
}

func mustExpand(t *testing.T, slip bet.Slip) []bet.Line {
	t.Helper()
	lines, err := bet.Expand(slip)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return lines
}

func TestCheckSlipAcceptsWithinLimits(t *testing.T) {
	engine := NewEngine(nil)
	slip := slipWith("100",
		sel(101, "Match Winner", "Home", "1.80"),
		sel(102, "Goals Over/Under", "Over 2.5", "1.95"),
	)

	if err := engine.CheckSlip(slip, mustExpand(t, slip)); err != nil {
		t.Fatalf("CheckSlip: %v", err)
	}
}

func TestCheckSlipRejections(t *testing.T) {
	tests := []struct {
		name    string
		limits  *Limits
		slip    bet.Slip
		wantErr string
	}{
		{
			name:    "stake above max",
			limits:  &Limits{MaxStake: dec("50"), MinStake: dec("0.10"), MaxDailyStake: dec("1000")},
			slip:    slipWith("51", sel(1, "Match Winner", "Home", "1.80")),
			wantErr: "exceeds max",
		},
		{
			name:    "stake below min",
			limits:  &Limits{MaxStake: dec("1000"), MinStake: dec("5"), MaxDailyStake: dec("10000")},
			slip:    slipWith("4.99", sel(1, "Match Winner", "Home", "1.80")),
			wantErr: "below min",
		},
		{
			name: "too many selections",
			limits: &Limits{
				MaxStake: dec("1000"), MinStake: dec("0.10"),
				MaxSelections: 2, MaxDailyStake: dec("10000"),
			},
			slip: slipWith("30",
				sel(1, "Match Winner", "Home", "1.50"),
				sel(2, "Match Winner", "Away", "2.50"),
				sel(3, "Both Teams Score", "Yes", "1.90"),
			),
			wantErr: "too many selections",
		},
		{
			name: "blocked market family",
			limits: &Limits{
				MaxStake: dec("1000"), MinStake: dec("0.10"),
				MaxDailyStake:   dec("10000"),
				BlockedFamilies: []market.Family{market.FamilyCorrectScore},
			},
			slip:    slipWith("10", sel(1, "Exact Score", "2:1", "9.00")),
			wantErr: "not accepted",
		},
		{
			name: "combined odds over cap",
			limits: &Limits{
				MaxStake: dec("1000"), MinStake: dec("0.10"),
				MaxCombinedOdds: dec("5"), MaxDailyStake: dec("10000"),
			},
			slip: bet.Slip{
				Mode:  bet.ModeMultiple,
				Stake: dec("10"),
				Selections: []market.Selection{
					sel(1, "Match Winner", "Home", "3.00"),
					sel(2, "Match Winner", "Away", "2.00"),
				},
			},
			wantErr: "combined odds",
		},
		{
			name: "line payout over cap",
			limits: &Limits{
				MaxStake: dec("1000"), MinStake: dec("0.10"),
				MaxLinePayout: dec("100"), MaxDailyStake: dec("10000"),
			},
			slip:    slipWith("60", sel(1, "Match Winner", "Away", "2.00")),
			wantErr: "potential payout",
		},
		{
			name: "daily stake exhausted",
			limits: &Limits{
				MaxStake: dec("1000"), MinStake: dec("0.10"),
				MaxDailyStake: dec("40"),
			},
			slip:    slipWith("50", sel(1, "Match Winner", "Home", "1.80")),
			wantErr: "daily stake",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(tt.limits)
			err := engine.CheckSlip(tt.slip, mustExpand(t, tt.slip))
			if err == nil {
				t.Fatalf("CheckSlip: want error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("CheckSlip error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestCheckSlipDailyBetLimit(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxDailyBets = 2
	engine := NewEngine(limits)

	slip := slipWith("10", sel(1, "Match Winner", "Home", "1.80"))
	lines := mustExpand(t, slip)

	for i := 0; i < 2; i++ {
		if err := engine.CheckSlip(slip, lines); err != nil {
			t.Fatalf("slip %d: %v", i, err)
		}
		engine.RecordAccepted(slip, lines)
	}

	err := engine.CheckSlip(slip, lines)
	if err == nil || !strings.Contains(err.Error(), "daily bet limit") {
		t.Errorf("CheckSlip after limit = %v, want daily bet limit error", err)
	}
}

func TestFixtureExposureTracking(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxFixtureExposure = dec("100")
	engine := NewEngine(limits)

	slip := slipWith("30", sel(42, "Match Winner", "Home", "2.00"))
	lines := mustExpand(t, slip)

	if err := engine.CheckSlip(slip, lines); err != nil {
		t.Fatalf("first slip: %v", err)
	}
	engine.RecordAccepted(slip, lines)

	if got := engine.FixtureExposure(42); !got.Equal(dec("60")) {
		t.Errorf("FixtureExposure(42) = %s, want 60", got)
	}

	// A second identical slip would push exposure to 120.
	err := engine.CheckSlip(slip, lines)
	if err == nil || !strings.Contains(err.Error(), "exposure") {
		t.Errorf("CheckSlip over exposure = %v, want exposure error", err)
	}

	// A different fixture is unaffected.
	other := slipWith("30", sel(43, "Match Winner", "Home", "2.00"))
	if err := engine.CheckSlip(other, mustExpand(t, other)); err != nil {
		t.Errorf("other fixture slip: %v", err)
	}

	engine.ReleaseFixture(42)
	if got := engine.FixtureExposure(42); !got.IsZero() {
		t.Errorf("FixtureExposure after release = %s, want 0", got)
	}
	if err := engine.CheckSlip(slip, lines); err != nil {
		t.Errorf("CheckSlip after release: %v", err)
	}
}

func TestCheckSlipDoesNotMutateState(t *testing.T) {
	engine := NewEngine(nil)
	slip := slipWith("25", sel(7, "Match Winner", "Draw", "3.40"))
	lines := mustExpand(t, slip)

	for i := 0; i < 3; i++ {
		if err := engine.CheckSlip(slip, lines); err != nil {
			t.Fatalf("CheckSlip %d: %v", i, err)
		}
	}

	status := engine.Status()
	if status.DailyBets != 0 {
		t.Errorf("DailyBets = %d, want 0", status.DailyBets)
	}
	if status.DailyStake != "0" {
		t.Errorf("DailyStake = %s, want 0", status.DailyStake)
	}
	if got := engine.FixtureExposure(7); !got.IsZero() {
		t.Errorf("FixtureExposure = %s, want 0", got)
	}
}

func TestStatus(t *testing.T) {
	engine := NewEngine(nil)

	first := slipWith("100", sel(10, "Match Winner", "Home", "2.00"))
	second := slipWith("50", sel(11, "Match Winner", "Away", "3.00"))
	engine.RecordAccepted(first, mustExpand(t, first))
	engine.RecordAccepted(second, mustExpand(t, second))

	status := engine.Status()
	if status.DailyBets != 2 {
		t.Errorf("DailyBets = %d, want 2", status.DailyBets)
	}
	if status.DailyStake != "150" {
		t.Errorf("DailyStake = %s, want 150", status.DailyStake)
	}
	if status.OpenFixtures != 2 {
		t.Errorf("OpenFixtures = %d, want 2", status.OpenFixtures)
	}
	if status.LargestExposure != "200" {
		t.Errorf("LargestExposure = %s, want 200", status.LargestExposure)
	}
}
