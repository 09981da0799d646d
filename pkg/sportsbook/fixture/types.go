// Package fixture models the settlement snapshot of a football fixture:
// final and period scores, the classified event timeline, and per-team
// match statistics. The snapshot is assembled once by the provider client
// and treated as immutable by everything downstream.
package fixture

import (
	"sort"
	"strconv"
	"strings"
)

// Team identifies one side of a fixture.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Period is a nullable {home, away} score pair for one phase of the match.
type Period struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Both reports the period score when both sides are present.
func (p Period) Both() (home, away int, ok bool) {
	if p.Home == nil || p.Away == nil {
		return 0, 0, false
	}
	return *p.Home, *p.Away, true
}

// Score holds the per-phase scores of a fixture. Any phase may be absent.
type Score struct {
	Halftime  Period `json:"halftime"`
	Fulltime  Period `json:"fulltime"`
	Extratime Period `json:"extratime"`
	Penalty   Period `json:"penalty"`
}

// Stat is one normalized statistic row value. Nil means the provider
// reported the row without a value.
type Stat struct {
	Type  string   `json:"type"`
	Value *float64 `json:"value"`
}

// TeamStatistics groups the statistic rows reported for one team.
type TeamStatistics struct {
	Team  Team   `json:"team"`
	Stats []Stat `json:"statistics"`
}

// Context is the immutable settlement snapshot for one fixture.
type Context struct {
	ID     int    `json:"fixture_id"`
	Status string `json:"status_short"`

	Home Team `json:"home"`
	Away Team `json:"away"`

	// Goals is the provider's top-level final score, used as a fallback
	// when Score.Fulltime is absent.
	Goals Period `json:"goals"`
	Score Score  `json:"score"`

	// Events is the classified timeline in provider order. Use Ordered
	// for by-minute access.
	Events []Event `json:"events,omitempty"`

	Statistics []TeamStatistics `json:"statistics,omitempty"`
}

// Short status codes that mark a fixture as settleable.
var finalStatuses = map[string]bool{
	"FT":   true, // full time
	"AET":  true, // after extra time
	"PEN":  true, // after penalty shootout
	"CANC": true,
	"ABD":  true, // abandoned
	"AWD":  true, // technical award
	"WO":   true, // walkover
}

// IsFinal reports whether the fixture status permits settlement.
func (c *Context) IsFinal() bool {
	return finalStatuses[strings.ToUpper(strings.TrimSpace(c.Status))]
}

// IsCancelled reports whether the fixture was cancelled or abandoned.
// Such fixtures void their selections rather than resolving them.
func (c *Context) IsCancelled() bool {
	switch strings.ToUpper(strings.TrimSpace(c.Status)) {
	case "CANC", "ABD":
		return true
	}
	return false
}

// WentToExtraTime reports whether the fixture was decided after 90 minutes.
func (c *Context) WentToExtraTime() bool {
	switch strings.ToUpper(strings.TrimSpace(c.Status)) {
	case "AET", "PEN":
		return true
	}
	return false
}

// FullTime returns the regulation final score, falling back to the
// top-level goals pair when the fulltime phase is absent. The fallback
// is refused when the fixture went past 90 minutes: the goals pair then
// includes extra time and would misstate the regulation score.
func (c *Context) FullTime() (home, away int, ok bool) {
	if h, a, ok := c.Score.Fulltime.Both(); ok {
		return h, a, true
	}
	if c.WentToExtraTime() {
		return 0, 0, false
	}
	return c.Goals.Both()
}

// HalfTime returns the first half score.
func (c *Context) HalfTime() (home, away int, ok bool) {
	return c.Score.Halftime.Both()
}

// SecondHalf derives the second half score as fulltime minus halftime.
func (c *Context) SecondHalf() (home, away int, ok bool) {
	fh, fa, ok := c.FullTime()
	if !ok {
		return 0, 0, false
	}
	hh, ha, ok := c.HalfTime()
	if !ok {
		return 0, 0, false
	}
	return fh - hh, fa - ha, true
}

// Decisive returns the score that decides who progresses: the penalty
// shootout if one was played, else the extra time score, else full time.
func (c *Context) Decisive() (home, away int, ok bool) {
	if h, a, ok := c.Score.Penalty.Both(); ok {
		return h, a, true
	}
	if h, a, ok := c.Score.Extratime.Both(); ok {
		return h, a, true
	}
	return c.FullTime()
}

// Ordered returns the event timeline sorted by elapsed minute then added
// time, preserving provider order for simultaneous events.
func (c *Context) Ordered() []Event {
	evs := make([]Event, len(c.Events))
	copy(evs, c.Events)
	sort.SliceStable(evs, func(i, j int) bool {
		if evs[i].Minute != evs[j].Minute {
			return evs[i].Minute < evs[j].Minute
		}
		return evs[i].Extra < evs[j].Extra
	})
	return evs
}

// HasEvents reports whether an event timeline was supplied at all.
// An empty-but-present timeline is distinguishable from a missing one
// only at assembly time, so callers treat nil as "not fetched".
func (c *Context) HasEvents() bool {
	return c.Events != nil
}

// HasStatistics reports whether statistics were supplied.
func (c *Context) HasStatistics() bool {
	return c.Statistics != nil
}

// Statistic looks up a statistic row for a team by normalized type name.
// The second return is false when the team or row is absent, or the row
// carries no value.
func (c *Context) Statistic(teamID int, statType string) (float64, bool) {
	want := normalizeStatType(statType)
	for _, ts := range c.Statistics {
		if ts.Team.ID != teamID {
			continue
		}
		for _, s := range ts.Stats {
			if normalizeStatType(s.Type) == want {
				if s.Value == nil {
					return 0, false
				}
				return *s.Value, true
			}
		}
	}
	return 0, false
}

// StatisticTotal sums a statistic across both teams. Both rows must be
// present for the total to count.
func (c *Context) StatisticTotal(statType string) (float64, bool) {
	hv, hok := c.Statistic(c.Home.ID, statType)
	av, aok := c.Statistic(c.Away.ID, statType)
	if !hok || !aok {
		return 0, false
	}
	return hv + av, true
}

func normalizeStatType(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// ParseStatValue converts a raw provider statistic value ("7", "55%",
// 7.0, null) into a numeric value.
func ParseStatValue(raw any) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "%")
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
