package market

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize prepares a market name or selection value for matching:
// lowercase, accents stripped, whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(s)

	// Remove accents
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)

	// Normalize spaces
	s = strings.Join(strings.Fields(s), " ")

	return strings.TrimSpace(s)
}

// Side is the side of a fixture a selection refers to.
type Side int

const (
	SideNone Side = iota
	SideHome
	SideAway
	SideDraw
	SideEither
)

// parseSide reads seller-facing side tokens from a normalized value:
// home/1, away/2, draw/x.
func parseSide(value string) (Side, bool) {
	switch value {
	case "home", "1", "home team", "w1":
		return SideHome, true
	case "away", "2", "away team", "w2":
		return SideAway, true
	case "draw", "x":
		return SideDraw, true
	}
	return SideNone, false
}

// sideFromName extracts a side baked into the market label itself,
// e.g. "Home Team To Score" or "Total Corners - Away".
func sideFromName(name string) Side {
	switch {
	case strings.Contains(name, "either team") || strings.Contains(name, "any team"):
		return SideEither
	case strings.Contains(name, "home"):
		return SideHome
	case strings.Contains(name, "away"):
		return SideAway
	}
	return SideNone
}

// doubleChancePair maps double chance tokens to the two covered sides.
func doubleChancePair(value string) (Side, Side, bool) {
	switch value {
	case "home/draw", "draw/home", "1x", "x1", "home or draw":
		return SideHome, SideDraw, true
	case "home/away", "away/home", "12", "home or away":
		return SideHome, SideAway, true
	case "draw/away", "away/draw", "x2", "2x", "draw or away", "away or draw":
		return SideDraw, SideAway, true
	}
	return SideNone, SideNone, false
}

// parseYesNo reads a yes/no style value.
func parseYesNo(value string) (bool, bool) {
	switch value {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	return false, false
}

// Scope selects which phase of the match a market's numbers come from.
type Scope int

const (
	ScopeFullTime Scope = iota
	ScopeFirstHalf
	ScopeSecondHalf
)

// scopeFromName detects a half scope baked into a market label.
func scopeFromName(name string) Scope {
	switch {
	case strings.Contains(name, "1st half") || strings.Contains(name, "first half") || strings.Contains(name, "halftime") || strings.Contains(name, "half time"):
		return ScopeFirstHalf
	case strings.Contains(name, "2nd half") || strings.Contains(name, "second half"):
		return ScopeSecondHalf
	}
	return ScopeFullTime
}

var numberPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

// parseNumber extracts the first signed number from a token.
func parseNumber(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseLine reads a betting line, preferring the selection's explicit
// handicap field over a number embedded in the value token.
func parseLine(handicap, value string) (float64, bool) {
	if h := strings.TrimSpace(handicap); h != "" {
		if v, ok := parseNumber(h); ok {
			return v, true
		}
	}
	return parseNumber(value)
}

// overUnderSide reads the over/under direction from a value token.
func overUnderSide(value string) (over bool, ok bool) {
	switch {
	case strings.HasPrefix(value, "over"), strings.HasPrefix(value, "o "), value == "o":
		return true, true
	case strings.HasPrefix(value, "under"), strings.HasPrefix(value, "u "), value == "u":
		return false, true
	}
	return false, false
}

// thresholdKind describes how a count threshold compares.
type thresholdKind int

const (
	thresholdExact   thresholdKind = iota // exactly N
	thresholdAtLeast                      // N+ / N or more
	thresholdRange                        // A-B inclusive
)

type threshold struct {
	kind thresholdKind
	lo   float64
	hi   float64
}

func (t threshold) matches(v float64) bool {
	switch t.kind {
	case thresholdExact:
		return v == t.lo
	case thresholdAtLeast:
		return v >= t.lo
	case thresholdRange:
		return v >= t.lo && v <= t.hi
	}
	return false
}

var rangePattern = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)

// parseThreshold reads a count threshold token: "N+", "N or more",
// "exactly N", "A-B", or a bare number.
func parseThreshold(value string) (threshold, bool) {
	v := strings.TrimSpace(value)

	if m := rangePattern.FindStringSubmatch(v); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		return threshold{kind: thresholdRange, lo: lo, hi: hi}, true
	}

	switch {
	case strings.HasSuffix(v, "+"):
		if n, ok := parseNumber(v); ok {
			return threshold{kind: thresholdAtLeast, lo: n}, true
		}
	case strings.Contains(v, "or more"):
		if n, ok := parseNumber(v); ok {
			return threshold{kind: thresholdAtLeast, lo: n}, true
		}
	case strings.HasPrefix(v, "exactly") || strings.HasPrefix(v, "exact"):
		if n, ok := parseNumber(v); ok {
			return threshold{kind: thresholdExact, lo: n}, true
		}
	default:
		if n, ok := parseNumber(v); ok {
			return threshold{kind: thresholdExact, lo: n}, true
		}
	}
	return threshold{}, false
}

var scorePattern = regexp.MustCompile(`^(\d+)\s*[-:]\s*(\d+)$`)

// parseScoreValue reads an exact score token like "2-1" or "2:1".
func parseScoreValue(value string) (home, away int, ok bool) {
	m := scorePattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, 0, false
	}
	home, _ = strconv.Atoi(m[1])
	away, _ = strconv.Atoi(m[2])
	return home, away, true
}

// parseHalftimeFulltime reads a combined result token like "Home/Draw"
// or "1/X" into the half-time and full-time sides.
func parseHalftimeFulltime(value string) (ht, ft Side, ok bool) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return SideNone, SideNone, false
	}
	ht, ok1 := parseSide(strings.TrimSpace(parts[0]))
	ft, ok2 := parseSide(strings.TrimSpace(parts[1]))
	if !ok1 || !ok2 {
		return SideNone, SideNone, false
	}
	return ht, ft, true
}

// parseMinuteWindow reads a first-goal timing token: an "A-B" minute
// range, or "no goal".
func parseMinuteWindow(value string) (from, to int, noGoal, ok bool) {
	v := strings.TrimSpace(value)
	if v == "no goal" || v == "none" {
		return 0, 0, true, true
	}
	if m := rangePattern.FindStringSubmatch(v); m != nil {
		from, _ = strconv.Atoi(m[1])
		to, _ = strconv.Atoi(m[2])
		return from, to, false, true
	}
	return 0, 0, false, false
}
