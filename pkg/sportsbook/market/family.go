// Package market resolves bet selections against fixture settlement
// snapshots. Market names arrive as free text from the odds feed; they
// are normalized once, classified into a Family, and dispatched to a
// per-family handler. Resolution is deterministic and side-effect free:
// insufficient data always yields the unresolved outcome, never a guess.
package market

import "strings"

// Family is the classified market family of a selection.
type Family string

const (
	FamilyMatchWinner      Family = "MATCH_WINNER"
	FamilyHalftimeFulltime Family = "HT_FT"
	FamilyFirstHalfWinner  Family = "FIRST_HALF_WINNER"
	FamilySecondHalfWinner Family = "SECOND_HALF_WINNER"
	FamilyDoubleChance     Family = "DOUBLE_CHANCE"
	FamilyDrawNoBet        Family = "DRAW_NO_BET"
	FamilyBTTS             Family = "BTTS"
	FamilyTeamTotal        Family = "TEAM_TOTAL"
	FamilyOverUnder        Family = "OVER_UNDER"
	FamilyGoalLine         Family = "GOAL_LINE"
	FamilyHandicap         Family = "HANDICAP"
	FamilyCorrectScore     Family = "CORRECT_SCORE"
	FamilyExactGoals       Family = "EXACT_GOALS"
	FamilyOddEven          Family = "ODD_EVEN"
	FamilyCleanSheet       Family = "CLEAN_SHEET"
	FamilyWinToNil         Family = "WIN_TO_NIL"
	FamilyWinBothHalves    Family = "WIN_BOTH_HALVES"
	FamilyScoreBothHalves  Family = "SCORE_BOTH_HALVES"
	FamilyTeamToScore      Family = "TEAM_TO_SCORE"
	FamilyWinByMargin      Family = "WIN_BY_MARGIN"
	FamilyFirstTeamToScore Family = "FIRST_TEAM_TO_SCORE"
	FamilyLastTeamToScore  Family = "LAST_TEAM_TO_SCORE"
	FamilyGoalTiming       Family = "GOAL_TIMING"
	FamilyCorners          Family = "CORNERS"
	FamilyCards            Family = "CARDS"
	FamilyRedCard          Family = "RED_CARD"
	FamilyPenalty          Family = "PENALTY"
	FamilyOwnGoal          Family = "OWN_GOAL"
	FamilyTeamStats        Family = "TEAM_STATS"
	FamilyQualifier        Family = "QUALIFIER"
	FamilyUnknown          Family = "UNKNOWN"
)

// classifyRule maps normalized market-name substrings to a family.
type classifyRule struct {
	family Family
	subs   []string
}

// classifyRules is evaluated in order, so more specific families must
// come before the generic ones they textually contain. In particular:
// half-time/full-time before the half winners, BTTS before "team to
// score", team totals before plain over/under, and every family naming
// "winner" or "result" before the match-winner fallback at the bottom.
var classifyRules = []classifyRule{
	{FamilyHalftimeFulltime, []string{"half time/full time", "halftime/fulltime", "ht/ft", "half time / full time", "double result"}},
	{FamilyFirstHalfWinner, []string{"first half winner", "1st half winner", "half time result", "half time winner", "1st half - winner", "first half result"}},
	{FamilySecondHalfWinner, []string{"second half winner", "2nd half winner", "second half result", "2nd half - winner", "2nd half result"}},
	{FamilyDoubleChance, []string{"double chance"}},
	{FamilyDrawNoBet, []string{"draw no bet", "no bet"}},
	{FamilyQualifier, []string{"to qualify", "qualifier", "to advance", "to go through"}},
	{FamilyBTTS, []string{"both teams to score", "both teams score", "btts"}},
	{FamilyWinToNil, []string{"win to nil", "to nil"}},
	{FamilyCleanSheet, []string{"clean sheet"}},
	{FamilyWinBothHalves, []string{"win both halves"}},
	{FamilyScoreBothHalves, []string{"score in both halves", "score both halves"}},
	{FamilyFirstTeamToScore, []string{"first team to score", "team to score first"}},
	{FamilyLastTeamToScore, []string{"last team to score", "team to score last"}},
	{FamilyGoalTiming, []string{"time of first goal", "first goal interval", "goal in first", "minute of first goal", "goal between"}},
	{FamilyTeamToScore, []string{"team to score", "home to score", "away to score"}},
	{FamilyWinByMargin, []string{"to win by", "wins by", "win by", "winning margin"}},
	{FamilyRedCard, []string{"red card", "sending off", "sent off"}},
	{FamilyCards, []string{"total cards", "cards over/under", "yellow cards", "bookings", "cards"}},
	{FamilyCorners, []string{"total corners", "corners over/under", "corner kicks", "corners"}},
	{FamilyPenalty, []string{"penalty awarded", "penalty scored", "penalty missed", "penalty in match", "penalty"}},
	{FamilyOwnGoal, []string{"own goal"}},
	{FamilyTeamStats, []string{"offsides", "offside", "fouls", "shots on target", "shots on goal", "total shots", "shots", "saves"}},
	{FamilyGoalLine, []string{"goal line"}},
	{FamilyTeamTotal, []string{"total - home", "total - away", "home team total", "away team total", "home total", "away total", "team total", "home team goals", "away team goals"}},
	{FamilyExactGoals, []string{"exact goals number", "exact number of goals", "exact total goals", "exact goals"}},
	{FamilyOverUnder, []string{"over/under", "goals over/under", "total goals", "over under", "number of goals"}},
	{FamilyHandicap, []string{"asian handicap", "handicap", "spread"}},
	{FamilyCorrectScore, []string{"correct score", "exact score"}},
	{FamilyOddEven, []string{"odd/even", "odd or even", "odd even"}},
	{FamilyMatchWinner, []string{"match winner", "full time result", "fulltime result", "1x2", "match result", "match odds", "moneyline", "money line", "to win the match", "winner", "result"}},
}

// Classify maps a raw market name to its family. Unrecognized names
// classify as FamilyUnknown so they settle as unresolved instead of
// silently losing.
func Classify(name string) Family {
	n := Normalize(name)
	if n == "" {
		return FamilyUnknown
	}
	for _, rule := range classifyRules {
		for _, sub := range rule.subs {
			if strings.Contains(n, sub) {
				return rule.family
			}
		}
	}
	return FamilyUnknown
}

// IsSupported reports whether a market name has a resolution handler.
// The placement flow rejects unsupported markets; accepting one would
// leave the bet permanently unresolved.
func IsSupported(name string) bool {
	family := Classify(name)
	if family == FamilyUnknown {
		return false
	}
	_, ok := handlers[family]
	return ok
}

// Families that evaluate the event timeline.
var eventFamilies = map[Family]bool{
	FamilyFirstTeamToScore: true,
	FamilyLastTeamToScore:  true,
	FamilyGoalTiming:       true,
	FamilyCards:            true,
	FamilyRedCard:          true,
	FamilyPenalty:          true,
	FamilyOwnGoal:          true,
}

// Families that evaluate per-team match statistics.
var statisticsFamilies = map[Family]bool{
	FamilyCorners:   true,
	FamilyTeamStats: true,
}

// NeedsEvents tells the settlement orchestrator whether fetching the
// event timeline is worth it before resolving this market.
func NeedsEvents(name string) bool {
	return eventFamilies[Classify(name)]
}

// NeedsStatistics tells the settlement orchestrator whether fetching
// match statistics is worth it before resolving this market.
func NeedsStatistics(name string) bool {
	return statisticsFamilies[Classify(name)]
}
