package market

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Family
	}{
		{"Match Winner", FamilyMatchWinner},
		{"1X2", FamilyMatchWinner},
		{"Full Time Result", FamilyMatchWinner},
		{"Half Time Result", FamilyFirstHalfWinner},
		{"First Half Winner", FamilyFirstHalfWinner},
		{"2nd Half Winner", FamilySecondHalfWinner},
		{"Half Time/Full Time", FamilyHalftimeFulltime},
		{"HT/FT Double", FamilyHalftimeFulltime},
		{"Double Chance", FamilyDoubleChance},
		{"Draw No Bet", FamilyDrawNoBet},
		{"To Qualify", FamilyQualifier},
		{"Both Teams To Score", FamilyBTTS},
		{"Both Teams To Score - First Half", FamilyBTTS},
		{"Home Win To Nil", FamilyWinToNil},
		{"Away Clean Sheet", FamilyCleanSheet},
		{"Home Team Win Both Halves", FamilyWinBothHalves},
		{"Home Team Score In Both Halves", FamilyScoreBothHalves},
		{"First Team To Score", FamilyFirstTeamToScore},
		{"Last Team To Score", FamilyLastTeamToScore},
		{"Time Of First Goal", FamilyGoalTiming},
		{"Goal Between 31-45 Minutes", FamilyGoalTiming},
		{"Home Team To Score", FamilyTeamToScore},
		{"To Win By 2+ Goals", FamilyWinByMargin},
		{"Winning Margin", FamilyWinByMargin},
		{"Red Card In Match", FamilyRedCard},
		{"Total Cards", FamilyCards},
		{"Yellow Cards Over/Under", FamilyCards},
		{"Total Corners", FamilyCorners},
		{"Corners Over/Under - Home", FamilyCorners},
		{"Penalty Awarded", FamilyPenalty},
		{"Own Goal In Match", FamilyOwnGoal},
		{"Total Shots On Target - Home", FamilyTeamStats},
		{"Fouls Over/Under", FamilyTeamStats},
		{"Offsides - Away", FamilyTeamStats},
		{"Goal Line", FamilyGoalLine},
		{"Home Team Total Goals", FamilyTeamTotal},
		{"Total - Home", FamilyTeamTotal},
		{"Exact Goals Number", FamilyExactGoals},
		{"Goals Over/Under", FamilyOverUnder},
		{"Goals Over/Under - First Half", FamilyOverUnder},
		{"Total Goals", FamilyOverUnder},
		{"Asian Handicap", FamilyHandicap},
		{"Handicap Result", FamilyHandicap},
		{"Correct Score", FamilyCorrectScore},
		{"Correct Score - First Half", FamilyCorrectScore},
		{"Odd/Even", FamilyOddEven},
		{"Odd/Even - Home", FamilyOddEven},
		{"Who Will Win The Trophy", FamilyUnknown},
		{"Player To Be Booked", FamilyUnknown},
		{"", FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyNormalizesInput(t *testing.T) {
	// Accents, case, and uneven spacing must not affect classification.
	tests := []struct {
		name string
		want Family
	}{
		{"  MATCH   WINNER  ", FamilyMatchWinner},
		{"Tótal Góals", FamilyOverUnder},
		{"both teams to score", FamilyBTTS},
	}

	for _, tt := range tests {
		if got := Classify(tt.name); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// Every family a classify rule can produce must have a handler, and the
// enrichment hint tables must only name handled families. Otherwise a
// market could pass the placement gate and then never settle.
func TestFamilyVocabularyConsistency(t *testing.T) {
	for _, rule := range classifyRules {
		if _, ok := handlers[rule.family]; !ok {
			t.Errorf("family %v is classifiable but has no handler", rule.family)
		}
	}
	for family := range eventFamilies {
		if _, ok := handlers[family]; !ok {
			t.Errorf("event family %v has no handler", family)
		}
	}
	for family := range statisticsFamilies {
		if _, ok := handlers[family]; !ok {
			t.Errorf("statistics family %v has no handler", family)
		}
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("Match Winner") {
		t.Error("IsSupported(Match Winner) = false, want true")
	}
	if IsSupported("Player To Be Booked") {
		t.Error("IsSupported(Player To Be Booked) = true, want false")
	}
	if IsSupported("") {
		t.Error("IsSupported(empty) = true, want false")
	}
}

func TestNeedsEnrichment(t *testing.T) {
	tests := []struct {
		name       string
		wantEvents bool
		wantStats  bool
	}{
		{"Match Winner", false, false},
		{"First Team To Score", true, false},
		{"Total Cards", true, false},
		{"Penalty Awarded", true, false},
		{"Total Corners", false, true},
		{"Total Shots On Target - Home", false, true},
		{"Goals Over/Under", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsEvents(tt.name); got != tt.wantEvents {
				t.Errorf("NeedsEvents(%q) = %v, want %v", tt.name, got, tt.wantEvents)
			}
			if got := NeedsStatistics(tt.name); got != tt.wantStats {
				t.Errorf("NeedsStatistics(%q) = %v, want %v", tt.name, got, tt.wantStats)
			}
		})
	}
}
