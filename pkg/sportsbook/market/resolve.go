package market

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/oddsforge/sportsbook/pkg/sportsbook/fixture"
)

// Outcome is the settlement outcome of one selection.
type Outcome string

const (
	OutcomeWon        Outcome = "won"
	OutcomeLost       Outcome = "lost"
	OutcomeVoid       Outcome = "void"
	OutcomeUnresolved Outcome = "unresolved"
)

// Terminal reports whether the outcome is final. Unresolved selections
// are retried once richer fixture data is available.
func (o Outcome) Terminal() bool {
	return o != OutcomeUnresolved
}

// Result is the settlement judgment for one selection. Reason is a
// short diagnostic tag, populated on every branch.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason"`
}

// Selection is one leg of a bet as stored at placement time.
type Selection struct {
	FixtureID   int             `json:"fixture_id"`
	MarketBetID int             `json:"market_bet_id,omitempty"`
	MarketName  string          `json:"market_name,omitempty"`
	Value       string          `json:"value"`
	Handicap    string          `json:"handicap,omitempty"`
	Odd         decimal.Decimal `json:"odd"`
}

func won(reason string) Result        { return Result{OutcomeWon, reason} }
func lost(reason string) Result       { return Result{OutcomeLost, reason} }
func void(reason string) Result       { return Result{OutcomeVoid, reason} }
func unresolved(reason string) Result { return Result{OutcomeUnresolved, reason} }

func decide(ok bool, reason string) Result {
	if ok {
		return won(reason)
	}
	return lost(reason)
}

// Resolve judges a selection against a fixture settlement snapshot.
// It is total: every insufficiency maps to unresolved, and a push maps
// to void. It never guesses and never treats missing data as a loss.
func Resolve(sel Selection, fx *fixture.Context) Result {
	if fx == nil {
		return unresolved("fixture-context-missing")
	}
	if !fx.IsFinal() {
		return unresolved("fixture-not-final")
	}
	if fx.IsCancelled() {
		return void("fixture-cancelled")
	}

	name := Normalize(sel.MarketName)
	value := Normalize(sel.Value)

	if name == "" {
		return resolveValueOnly(sel, value, fx)
	}

	family := Classify(name)
	handler, ok := handlers[family]
	if !ok {
		return unresolved("unsupported-market")
	}
	return handler(sel, name, value, fx)
}

type handlerFunc func(sel Selection, name, value string, fx *fixture.Context) Result

// handlers dispatches a classified family to its resolution logic.
// IsSupported is defined as membership here, so the placement allow-list
// can never drift from what actually settles.
var handlers = map[Family]handlerFunc{
	FamilyMatchWinner:      resolveWinner,
	FamilyHalftimeFulltime: resolveHalftimeFulltime,
	FamilyFirstHalfWinner:  resolveWinner,
	FamilySecondHalfWinner: resolveWinner,
	FamilyDoubleChance:     resolveDoubleChance,
	FamilyDrawNoBet:        resolveDrawNoBet,
	FamilyBTTS:             resolveBTTS,
	FamilyTeamTotal:        resolveTeamTotal,
	FamilyOverUnder:        resolveOverUnder,
	FamilyGoalLine:         resolveOverUnder,
	FamilyHandicap:         resolveHandicap,
	FamilyCorrectScore:     resolveCorrectScore,
	FamilyExactGoals:       resolveExactGoals,
	FamilyOddEven:          resolveOddEven,
	FamilyCleanSheet:       resolveCleanSheet,
	FamilyWinToNil:         resolveWinToNil,
	FamilyWinBothHalves:    resolveWinBothHalves,
	FamilyScoreBothHalves:  resolveScoreBothHalves,
	FamilyTeamToScore:      resolveTeamToScore,
	FamilyWinByMargin:      resolveWinByMargin,
	FamilyFirstTeamToScore: resolveFirstTeamToScore,
	FamilyLastTeamToScore:  resolveLastTeamToScore,
	FamilyGoalTiming:       resolveGoalTiming,
	FamilyCorners:          resolveCorners,
	FamilyCards:            resolveCards,
	FamilyRedCard:          resolveRedCard,
	FamilyPenalty:          resolvePenalty,
	FamilyOwnGoal:          resolveOwnGoal,
	FamilyTeamStats:        resolveTeamStats,
	FamilyQualifier:        resolveQualifier,
}

// --- Scoped score helpers ---

// scopedScore fetches the score for a scope, or the unresolved reason
// when the underlying phase data is absent.
func scopedScore(fx *fixture.Context, scope Scope) (home, away int, res Result, ok bool) {
	switch scope {
	case ScopeFirstHalf:
		h, a, present := fx.HalfTime()
		if !present {
			return 0, 0, unresolved("missing-halftime-score"), false
		}
		return h, a, Result{}, true
	case ScopeSecondHalf:
		h, a, present := fx.SecondHalf()
		if !present {
			return 0, 0, unresolved("missing-halftime-score"), false
		}
		return h, a, Result{}, true
	default:
		h, a, present := fx.FullTime()
		if !present {
			return 0, 0, unresolved("missing-fulltime-score"), false
		}
		return h, a, Result{}, true
	}
}

func winnerOf(home, away int) Side {
	switch {
	case home > away:
		return SideHome
	case away > home:
		return SideAway
	default:
		return SideDraw
	}
}

func scopeTag(scope Scope) string {
	switch scope {
	case ScopeFirstHalf:
		return "1h"
	case ScopeSecondHalf:
		return "2h"
	default:
		return "ft"
	}
}

func scoreReason(scope Scope, home, away int) string {
	return fmt.Sprintf("%s %d-%d", scopeTag(scope), home, away)
}

// teamGoals projects a scoped score onto one side.
func teamGoals(side Side, home, away int) (team, opponent int) {
	if side == SideAway {
		return away, home
	}
	return home, away
}

// sideFromValuePrefix reads a side token leading a longer value, e.g.
// "home -1.5".
func sideFromValuePrefix(value string) Side {
	switch {
	case strings.HasPrefix(value, "home") || strings.HasPrefix(value, "1 "):
		return SideHome
	case strings.HasPrefix(value, "away") || strings.HasPrefix(value, "2 "):
		return SideAway
	case strings.HasPrefix(value, "draw") || strings.HasPrefix(value, "x "):
		return SideDraw
	}
	return SideNone
}

// --- Value-only fallback ---

// resolveValueOnly handles selections persisted without a market name.
// Only the unambiguous token vocabularies are recognized; anything else
// stays unresolved.
func resolveValueOnly(sel Selection, value string, fx *fixture.Context) Result {
	fh, fa, ok := fx.FullTime()
	if !ok {
		return unresolved("missing-fulltime-score")
	}

	if side, ok := parseSide(value); ok {
		return decide(winnerOf(fh, fa) == side, scoreReason(ScopeFullTime, fh, fa))
	}
	if a, b, ok := doubleChancePair(value); ok {
		w := winnerOf(fh, fa)
		return decide(w == a || w == b, scoreReason(ScopeFullTime, fh, fa))
	}
	if yes, ok := parseYesNo(value); ok {
		both := fh > 0 && fa > 0
		return decide(both == yes, scoreReason(ScopeFullTime, fh, fa))
	}
	if over, ok := overUnderSide(value); ok {
		line, lineOK := parseLine(sel.Handicap, value)
		if !lineOK {
			return unresolved("bad-line")
		}
		return compareTotal(float64(fh+fa), line, over, scoreReason(ScopeFullTime, fh, fa))
	}
	return unresolved("unsupported-market")
}

// --- Winner families ---

func resolveWinner(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	side, sideOK := parseSide(value)
	if !sideOK {
		return unresolved("bad-value")
	}
	return decide(winnerOf(h, a) == side, scoreReason(scope, h, a))
}

func resolveHalftimeFulltime(sel Selection, name, value string, fx *fixture.Context) Result {
	htSide, ftSide, ok := parseHalftimeFulltime(value)
	if !ok {
		return unresolved("bad-value")
	}
	hh, ha, present := fx.HalfTime()
	if !present {
		return unresolved("missing-halftime-score")
	}
	fh, fa, present := fx.FullTime()
	if !present {
		return unresolved("missing-fulltime-score")
	}
	hit := winnerOf(hh, ha) == htSide && winnerOf(fh, fa) == ftSide
	return decide(hit, fmt.Sprintf("ht %d-%d ft %d-%d", hh, ha, fh, fa))
}

func resolveDoubleChance(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	first, second, pairOK := doubleChancePair(value)
	if !pairOK {
		return unresolved("bad-value")
	}
	w := winnerOf(h, a)
	return decide(w == first || w == second, scoreReason(scope, h, a))
}

func resolveDrawNoBet(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	side, sideOK := parseSide(value)
	if !sideOK || side == SideDraw {
		return unresolved("bad-value")
	}
	w := winnerOf(h, a)
	if w == SideDraw {
		return void("push")
	}
	return decide(w == side, scoreReason(scope, h, a))
}

func resolveQualifier(sel Selection, name, value string, fx *fixture.Context) Result {
	h, a, ok := fx.Decisive()
	if !ok {
		return unresolved("missing-fulltime-score")
	}
	side, sideOK := parseSide(value)
	if !sideOK || side == SideDraw {
		return unresolved("bad-value")
	}
	w := winnerOf(h, a)
	if w == SideDraw {
		return unresolved("fixture-undecided")
	}
	return decide(w == side, fmt.Sprintf("decisive %d-%d", h, a))
}

// --- Goals families ---

func resolveBTTS(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	yes, yesNoOK := parseYesNo(value)
	if !yesNoOK {
		return unresolved("bad-value")
	}
	both := h > 0 && a > 0
	return decide(both == yes, scoreReason(scope, h, a))
}

// compareTotal applies the over/under comparison with push on the line.
func compareTotal(total, line float64, over bool, reason string) Result {
	if total == line {
		return void("push")
	}
	if over {
		return decide(total > line, reason)
	}
	return decide(total < line, reason)
}

func resolveOverUnder(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	over, ouOK := overUnderSide(value)
	if !ouOK {
		return unresolved("bad-value")
	}
	line, lineOK := parseLine(sel.Handicap, value)
	if !lineOK {
		return unresolved("bad-line")
	}
	return compareTotal(float64(h+a), line, over, scoreReason(scope, h, a))
}

func resolveTeamTotal(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	side := sideFromName(name)
	if side == SideNone {
		side = sideFromValuePrefix(value)
	}
	if side != SideHome && side != SideAway {
		return unresolved("bad-value")
	}
	over, ouOK := overUnderSide(value)
	if !ouOK {
		return unresolved("bad-value")
	}
	line, lineOK := parseLine(sel.Handicap, value)
	if !lineOK {
		return unresolved("bad-line")
	}
	goals, _ := teamGoals(side, h, a)
	return compareTotal(float64(goals), line, over, scoreReason(scope, h, a))
}

func resolveExactGoals(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	th, thOK := parseThreshold(value)
	if !thOK {
		return unresolved("bad-value")
	}
	total := h + a
	if side := sideFromName(name); side == SideHome || side == SideAway {
		total, _ = teamGoals(side, h, a)
	}
	return decide(th.matches(float64(total)), scoreReason(scope, h, a))
}

// resolveHandicap settles classic and Asian handicaps with the adjusted
// goal difference transform: (team - opponent) + line. Positive wins,
// negative loses, zero is a push.
func resolveHandicap(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	side, sideOK := parseSide(value)
	if !sideOK {
		side = sideFromValuePrefix(value)
	}
	if side != SideHome && side != SideAway {
		return unresolved("bad-value")
	}
	line, lineOK := parseLine(sel.Handicap, value)
	if !lineOK {
		return unresolved("bad-line")
	}
	team, opp := teamGoals(side, h, a)
	adjusted := float64(team-opp) + line
	switch {
	case adjusted > 0:
		return won(scoreReason(scope, h, a))
	case adjusted < 0:
		return lost(scoreReason(scope, h, a))
	default:
		return void("push")
	}
}

func resolveCorrectScore(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	wantHome, wantAway, scoreOK := parseScoreValue(value)
	if !scoreOK {
		return unresolved("bad-value")
	}
	return decide(h == wantHome && a == wantAway, scoreReason(scope, h, a))
}

func resolveOddEven(sel Selection, name, value string, fx *fixture.Context) Result {
	scope := scopeFromName(name)
	h, a, res, ok := scopedScore(fx, scope)
	if !ok {
		return res
	}
	total := h + a
	if side := sideFromName(name); side == SideHome || side == SideAway {
		total, _ = teamGoals(side, h, a)
	}
	var wantOdd bool
	switch value {
	case "odd":
		wantOdd = true
	case "even":
		wantOdd = false
	default:
		return unresolved("bad-value")
	}
	// Zero counts as even.
	isOdd := total%2 == 1
	return decide(isOdd == wantOdd, scoreReason(scope, h, a))
}

func resolveCleanSheet(sel Selection, name, value string, fx *fixture.Context) Result {
	h, a, ok := fx.FullTime()
	if !ok {
		return unresolved("missing-fulltime-score")
	}
	side := sideFromName(name)
	if side == SideNone {
		side = sideFromValuePrefix(value)
	}
	if side != SideHome && side != SideAway {
		return unresolved("bad-value")
	}
	_, opp := teamGoals(side, h, a)
	kept := opp == 0
	if yes, yesNoOK := parseYesNo(value); yesNoOK {
		return decide(kept == yes, scoreReason(ScopeFullTime, h, a))
	}
	return decide(kept, scoreReason(ScopeFullTime, h, a))
}

func resolveWinToNil(sel Selection, name, value string, fx *fixture.Context) Result {
	h, a, ok := fx.FullTime()
	if !ok {
		return unresolved("missing-fulltime-score")
	}
	side := sideFromName(name)
	if side == SideNone {
		if s, sOK := parseSide(value); sOK {
			side = s
		}
	}
	if side != SideHome && side != SideAway {
		return unresolved("bad-value")
	}
	team, opp := teamGoals(side, h, a)
	hit := team > opp && opp == 0
	if yes, yesNoOK := parseYesNo(value); yesNoOK {
		return decide(hit == yes, scoreReason(ScopeFullTime, h, a))
	}
	return decide(hit, scoreReason(ScopeFullTime, h, a))
}

func resolveWinBothHalves(sel Selection, name, value string, fx *fixture.Context) Result {
	side := sideFromName(name)
	if side == SideNone {
		if s, sOK := parseSide(value); sOK {
			side = s
		}
	}
	if side != SideHome && side != SideAway {
		return unresolved("bad-value")
	}
	h1, a1, present := fx.HalfTime()
	if !present {
		return unresolved("missing-halftime-score")
	}
	h2, a2, present := fx.SecondHalf()
	if !present {
		return unresolved("missing-halftime-score")
	}
	t1, o1 := teamGoals(side, h1, a1)
	t2, o2 := teamGoals(side, h2, a2)
	return decide(t1 > o1 && t2 > o2, fmt.Sprintf("1h %d-%d 2h %d-%d", h1, a1, h2, a2))
}

func resolveScoreBothHalves(sel Selection, name, value string, fx *fixture.Context) Result {
	side := sideFromName(name)
	if side == SideNone {
		if s, sOK := parseSide(value); sOK {
			side = s
		}
	}
	if side != SideHome && side != SideAway {
		return unresolved("bad-value")
	}
	h1, a1, present := fx.HalfTime()
	if !present {
		return unresolved("missing-halftime-score")
	}
	h2, a2, present := fx.SecondHalf()
	if !present {
		return unresolved("missing-halftime-score")
	}
	t1, _ := teamGoals(side, h1, a1)
	t2, _ := teamGoals(side, h2, a2)
	return decide(t1 > 0 && t2 > 0, fmt.Sprintf("1h %d-%d 2h %d-%d", h1, a1, h2, a2))
}

func resolveTeamToScore(sel Selection, name, value string, fx *fixture.Context) Result {
	h, a, ok := fx.FullTime()
	if !ok {
		return unresolved("missing-fulltime-score")
	}
	side := sideFromName(name)
	if side == SideNone {
		if s, sOK := parseSide(value); sOK {
			side = s
		}
	}
	if side != SideHome && side != SideAway {
		return unresolved("bad-value")
	}
	team, _ := teamGoals(side, h, a)
	scored := team > 0
	if yes, yesNoOK := parseYesNo(value); yesNoOK {
		return decide(scored == yes, scoreReason(ScopeFullTime, h, a))
	}
	return decide(scored, scoreReason(ScopeFullTime, h, a))
}

func resolveWinByMargin(sel Selection, name, value string, fx *fixture.Context) Result {
	h, a, ok := fx.FullTime()
	if !ok {
		return unresolved("missing-fulltime-score")
	}
	side := sideFromValuePrefix(value)
	if side == SideNone {
		side = sideFromName(name)
	}
	if side == SideNone {
		return unresolved("bad-value")
	}
	th, thOK := parseThreshold(value)
	if !thOK {
		return unresolved("bad-value")
	}
	switch side {
	case SideEither:
		margin := h - a
		if margin < 0 {
			margin = -margin
		}
		return decide(margin > 0 && th.matches(float64(margin)), scoreReason(ScopeFullTime, h, a))
	case SideHome, SideAway:
		team, opp := teamGoals(side, h, a)
		margin := team - opp
		return decide(margin > 0 && th.matches(float64(margin)), scoreReason(ScopeFullTime, h, a))
	default:
		return unresolved("bad-value")
	}
}

// --- Event timeline families ---

func resolveFirstTeamToScore(sel Selection, name, value string, fx *fixture.Context) Result {
	if !fx.HasEvents() {
		return unresolved("missing-events")
	}
	first, found := fx.FirstGoal()
	if value == "no goal" || value == "none" {
		return decide(!found, "timeline")
	}
	side, sideOK := parseSide(value)
	if !sideOK || side == SideDraw {
		return unresolved("bad-value")
	}
	if !found {
		return lost("no-goal")
	}
	scorer := SideHome
	if first.TeamID == fx.Away.ID {
		scorer = SideAway
	}
	return decide(scorer == side, fmt.Sprintf("first-goal %d'", first.Minute))
}

func resolveLastTeamToScore(sel Selection, name, value string, fx *fixture.Context) Result {
	if !fx.HasEvents() {
		return unresolved("missing-events")
	}
	last, found := fx.LastGoal()
	if value == "no goal" || value == "none" {
		return decide(!found, "timeline")
	}
	side, sideOK := parseSide(value)
	if !sideOK || side == SideDraw {
		return unresolved("bad-value")
	}
	if !found {
		return lost("no-goal")
	}
	scorer := SideHome
	if last.TeamID == fx.Away.ID {
		scorer = SideAway
	}
	return decide(scorer == side, fmt.Sprintf("last-goal %d'", last.Minute))
}

func resolveGoalTiming(sel Selection, name, value string, fx *fixture.Context) Result {
	if !fx.HasEvents() {
		return unresolved("missing-events")
	}
	from, to, noGoal, ok := parseMinuteWindow(value)
	if !ok {
		return unresolved("bad-value")
	}
	first, found := fx.FirstGoal()
	if noGoal {
		return decide(!found, "timeline")
	}
	// "Goal between A-B" asks about any goal in the window; first-goal
	// markets pin the window to the opening goal.
	if !strings.Contains(name, "first") {
		return decide(fx.GoalInWindow(from, to), "timeline")
	}
	if !found {
		return lost("no-goal")
	}
	return decide(first.Minute >= from && first.Minute <= to, fmt.Sprintf("first-goal %d'", first.Minute))
}

func cardCounter(name string) func(fixture.EventKind) bool {
	switch {
	case strings.Contains(name, "yellow"):
		return func(k fixture.EventKind) bool {
			return k == fixture.KindYellowCard || k == fixture.KindSecondYellow
		}
	case strings.Contains(name, "red"):
		return fixture.EventKind.IsRed
	default:
		return fixture.EventKind.IsCard
	}
}

func resolveCards(sel Selection, name, value string, fx *fixture.Context) Result {
	if !fx.HasEvents() {
		return unresolved("missing-events")
	}
	teamID := 0
	switch sideFromName(name) {
	case SideHome:
		teamID = fx.Home.ID
	case SideAway:
		teamID = fx.Away.ID
	}
	count := fx.CountEvents(teamID, cardCounter(name))
	reason := fmt.Sprintf("cards %d", count)

	if over, ouOK := overUnderSide(value); ouOK {
		line, lineOK := parseLine(sel.Handicap, value)
		if !lineOK {
			return unresolved("bad-line")
		}
		return compareTotal(float64(count), line, over, reason)
	}
	th, thOK := parseThreshold(value)
	if !thOK {
		return unresolved("bad-value")
	}
	return decide(th.matches(float64(count)), reason)
}

func resolveRedCard(sel Selection, name, value string, fx *fixture.Context) Result {
	if !fx.HasEvents() {
		return unresolved("missing-events")
	}
	teamID := 0
	switch sideFromName(name) {
	case SideHome:
		teamID = fx.Home.ID
	case SideAway:
		teamID = fx.Away.ID
	}
	count := fx.CountEvents(teamID, fixture.EventKind.IsRed)
	reason := fmt.Sprintf("red-cards %d", count)

	if yes, yesNoOK := parseYesNo(value); yesNoOK {
		return decide((count > 0) == yes, reason)
	}
	if over, ouOK := overUnderSide(value); ouOK {
		line, lineOK := parseLine(sel.Handicap, value)
		if !lineOK {
			return unresolved("bad-line")
		}
		return compareTotal(float64(count), line, over, reason)
	}
	return unresolved("bad-value")
}

func resolvePenalty(sel Selection, name, value string, fx *fixture.Context) Result {
	if !fx.HasEvents() {
		return unresolved("missing-events")
	}
	yes, yesNoOK := parseYesNo(value)
	if !yesNoOK {
		return unresolved("bad-value")
	}
	var hit bool
	switch {
	case strings.Contains(name, "missed"):
		hit = fx.CountEvents(0, func(k fixture.EventKind) bool { return k == fixture.KindMissedPenalty }) > 0
	case strings.Contains(name, "scored"):
		hit = fx.CountEvents(0, func(k fixture.EventKind) bool { return k == fixture.KindPenaltyGoal }) > 0
	default:
		// Awarded covers both converted and missed penalties.
		hit = fx.CountEvents(0, func(k fixture.EventKind) bool {
			return k == fixture.KindPenaltyGoal || k == fixture.KindMissedPenalty
		}) > 0
	}
	return decide(hit == yes, "timeline")
}

func resolveOwnGoal(sel Selection, name, value string, fx *fixture.Context) Result {
	if !fx.HasEvents() {
		return unresolved("missing-events")
	}
	yes, yesNoOK := parseYesNo(value)
	if !yesNoOK {
		return unresolved("bad-value")
	}
	hit := fx.CountEvents(0, func(k fixture.EventKind) bool { return k == fixture.KindOwnGoal }) > 0
	return decide(hit == yes, "timeline")
}

// --- Statistics families ---

func resolveCorners(sel Selection, name, value string, fx *fixture.Context) Result {
	return resolveStatOverUnder(sel, name, value, fx, "corner kicks")
}

// statRowRules maps market-name fragments to provider statistic rows.
// Order matters: the more specific shot rows come first.
var statRowRules = []struct{ sub, row string }{
	{"shots on target", "shots on goal"},
	{"shots on goal", "shots on goal"},
	{"total shots", "total shots"},
	{"shots", "total shots"},
	{"offside", "offsides"},
	{"fouls", "fouls"},
	{"saves", "goalkeeper saves"},
}

func resolveTeamStats(sel Selection, name, value string, fx *fixture.Context) Result {
	for _, rule := range statRowRules {
		if strings.Contains(name, rule.sub) {
			return resolveStatOverUnder(sel, name, value, fx, rule.row)
		}
	}
	return unresolved("unsupported-market")
}

func resolveStatOverUnder(sel Selection, name, value string, fx *fixture.Context, statRow string) Result {
	if !fx.HasStatistics() {
		return unresolved("missing-statistics")
	}

	var count float64
	var present bool
	switch sideFromName(name) {
	case SideHome:
		count, present = fx.Statistic(fx.Home.ID, statRow)
	case SideAway:
		count, present = fx.Statistic(fx.Away.ID, statRow)
	default:
		count, present = fx.StatisticTotal(statRow)
	}
	if !present {
		return unresolved("missing-statistic-row")
	}
	reason := fmt.Sprintf("%s %g", strings.ReplaceAll(statRow, " ", "-"), count)

	if over, ouOK := overUnderSide(value); ouOK {
		line, lineOK := parseLine(sel.Handicap, value)
		if !lineOK {
			return unresolved("bad-line")
		}
		return compareTotal(count, line, over, reason)
	}
	th, thOK := parseThreshold(value)
	if !thOK {
		return unresolved("bad-value")
	}
	return decide(th.matches(count), reason)
}
