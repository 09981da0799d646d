package fixture

import "testing"

func ip(v int) *int { return &v }

func fp(v float64) *float64 { return &v }

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		status        string
		final         bool
		cancelled     bool
		wentExtraTime bool
	}{
		{"FT", true, false, false},
		{"AET", true, false, true},
		{"PEN", true, false, true},
		{"CANC", true, true, false},
		{"ABD", true, true, false},
		{"AWD", true, false, false},
		{"WO", true, false, false},
		{"NS", false, false, false},
		{"1H", false, false, false},
		{"ft ", true, false, false}, // provider casing noise
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			c := &Context{Status: tt.status}
			if got := c.IsFinal(); got != tt.final {
				t.Errorf("IsFinal() = %v, want %v", got, tt.final)
			}
			if got := c.IsCancelled(); got != tt.cancelled {
				t.Errorf("IsCancelled() = %v, want %v", got, tt.cancelled)
			}
			if got := c.WentToExtraTime(); got != tt.wentExtraTime {
				t.Errorf("WentToExtraTime() = %v, want %v", got, tt.wentExtraTime)
			}
		})
	}
}

func TestFullTimeFallsBackToGoals(t *testing.T) {
	c := &Context{Goals: Period{Home: ip(2), Away: ip(1)}}
	h, a, ok := c.FullTime()
	if !ok || h != 2 || a != 1 {
		t.Errorf("FullTime() = %d, %d, %v", h, a, ok)
	}

	// When both are present the fulltime phase wins.
	c.Score.Fulltime = Period{Home: ip(3), Away: ip(1)}
	h, a, ok = c.FullTime()
	if !ok || h != 3 {
		t.Errorf("FullTime() preferred goals fallback: %d, %d, %v", h, a, ok)
	}

	empty := &Context{}
	if _, _, ok := empty.FullTime(); ok {
		t.Error("FullTime() reported a score with no data")
	}
}

func TestFullTimeRefusesGoalsFallbackAfterExtraTime(t *testing.T) {
	// Goals on an AET fixture include extra time, so without the
	// fulltime phase the regulation score is unknown.
	c := &Context{Status: "AET", Goals: Period{Home: ip(3), Away: ip(2)}}
	if _, _, ok := c.FullTime(); ok {
		t.Error("FullTime() used the goals pair on an extra-time fixture")
	}

	c.Score.Fulltime = Period{Home: ip(2), Away: ip(2)}
	h, a, ok := c.FullTime()
	if !ok || h != 2 || a != 2 {
		t.Errorf("FullTime() = %d, %d, %v, want 2, 2, true", h, a, ok)
	}
}

func TestSecondHalfIsDerived(t *testing.T) {
	c := &Context{
		Score: Score{
			Halftime: Period{Home: ip(1), Away: ip(0)},
			Fulltime: Period{Home: ip(3), Away: ip(2)},
		},
	}
	h, a, ok := c.SecondHalf()
	if !ok || h != 2 || a != 2 {
		t.Errorf("SecondHalf() = %d, %d, %v, want 2, 2", h, a, ok)
	}

	noHalf := &Context{Score: Score{Fulltime: Period{Home: ip(3), Away: ip(2)}}}
	if _, _, ok := noHalf.SecondHalf(); ok {
		t.Error("SecondHalf() derived a score without halftime data")
	}
}

func TestDecisivePrefersShootout(t *testing.T) {
	c := &Context{
		Score: Score{
			Fulltime:  Period{Home: ip(1), Away: ip(1)},
			Extratime: Period{Home: ip(2), Away: ip(2)},
			Penalty:   Period{Home: ip(5), Away: ip(4)},
		},
	}
	h, a, ok := c.Decisive()
	if !ok || h != 5 || a != 4 {
		t.Errorf("Decisive() = %d, %d, %v, want shootout 5-4", h, a, ok)
	}

	c.Score.Penalty = Period{}
	h, a, _ = c.Decisive()
	if h != 2 || a != 2 {
		t.Errorf("Decisive() = %d-%d, want extra time 2-2", h, a)
	}

	c.Score.Extratime = Period{}
	h, a, _ = c.Decisive()
	if h != 1 || a != 1 {
		t.Errorf("Decisive() = %d-%d, want fulltime 1-1", h, a)
	}
}

func TestStatisticLookup(t *testing.T) {
	c := &Context{
		Home: Team{ID: 10},
		Away: Team{ID: 20},
		Statistics: []TeamStatistics{
			{Team: Team{ID: 10}, Stats: []Stat{
				{Type: "Corner Kicks", Value: fp(6)},
				{Type: "Ball Possession", Value: fp(61)},
				{Type: "Passes %", Value: nil},
			}},
			{Team: Team{ID: 20}, Stats: []Stat{
				{Type: "corner kicks", Value: fp(4)},
			}},
		},
	}

	if v, ok := c.Statistic(10, "Corner Kicks"); !ok || v != 6 {
		t.Errorf("Statistic(home, corners) = %v, %v", v, ok)
	}
	// Type matching is case and spacing insensitive.
	if v, ok := c.Statistic(20, "  CORNER   KICKS "); !ok || v != 4 {
		t.Errorf("Statistic(away, corners) = %v, %v", v, ok)
	}
	if _, ok := c.Statistic(10, "Passes %"); ok {
		t.Error("a nil-valued row must not report a value")
	}
	if _, ok := c.Statistic(99, "Corner Kicks"); ok {
		t.Error("unknown team must not report a value")
	}

	if total, ok := c.StatisticTotal("Corner Kicks"); !ok || total != 10 {
		t.Errorf("StatisticTotal(corners) = %v, %v", total, ok)
	}
	// Possession is only present for one team: no total.
	if _, ok := c.StatisticTotal("Ball Possession"); ok {
		t.Error("StatisticTotal with one side missing must not report")
	}
}

func TestHasEnrichments(t *testing.T) {
	c := &Context{}
	if c.HasEvents() || c.HasStatistics() {
		t.Error("nil slices must read as not fetched")
	}
	c.Events = []Event{}
	c.Statistics = []TeamStatistics{}
	if !c.HasEvents() || !c.HasStatistics() {
		t.Error("empty non-nil slices must read as fetched")
	}
}

func TestParseStatValue(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want *float64
	}{
		{"float", float64(7), fp(7)},
		{"int", 3, fp(3)},
		{"numeric string", "12", fp(12)},
		{"percentage", "55%", fp(55)},
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"garbage", "n/a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStatValue(tt.raw)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("ParseStatValue(%v) = %v, want %v", tt.raw, got, tt.want)
			case *got != *tt.want:
				t.Errorf("ParseStatValue(%v) = %v, want %v", tt.raw, *got, *tt.want)
			}
		})
	}
}
