package fixture

import "strings"

// EventKind is the classified type of a timeline event. Provider free
// text is mapped into a kind exactly once, at ingestion; the resolver
// never sees raw type/detail strings.
type EventKind string

const (
	KindGoal          EventKind = "GOAL"
	KindOwnGoal       EventKind = "OWN_GOAL"
	KindPenaltyGoal   EventKind = "PENALTY_GOAL"
	KindMissedPenalty EventKind = "MISSED_PENALTY"
	KindYellowCard    EventKind = "YELLOW_CARD"
	KindSecondYellow  EventKind = "SECOND_YELLOW"
	KindRedCard       EventKind = "RED_CARD"
	KindVAR           EventKind = "VAR"
	KindSubstitution  EventKind = "SUBSTITUTION"
	KindOther         EventKind = "OTHER"
)

// IsGoal reports whether the event put the ball in the net for the
// credited team. Own goals are already credited to the benefiting team
// by the provider.
func (k EventKind) IsGoal() bool {
	switch k {
	case KindGoal, KindOwnGoal, KindPenaltyGoal:
		return true
	}
	return false
}

// IsCard reports whether the event is a booking of any color.
func (k EventKind) IsCard() bool {
	switch k {
	case KindYellowCard, KindSecondYellow, KindRedCard:
		return true
	}
	return false
}

// IsRed reports whether the event results in a dismissal.
func (k EventKind) IsRed() bool {
	return k == KindRedCard || k == KindSecondYellow
}

// Event is one classified timeline entry.
type Event struct {
	Kind   EventKind `json:"kind"`
	Minute int       `json:"minute"` // elapsed minute
	Extra  int       `json:"extra"`  // added time within the minute
	TeamID int       `json:"team_id"`
	Player string    `json:"player,omitempty"`
}

// ClassifyEvent maps free-text provider type/detail fields into an
// EventKind. Matching is case-insensitive substring matching; anything
// unrecognized becomes KindOther rather than being dropped.
func ClassifyEvent(eventType, detail string) EventKind {
	t := strings.ToLower(strings.TrimSpace(eventType))
	d := strings.ToLower(strings.TrimSpace(detail))

	switch {
	case strings.Contains(t, "goal"):
		switch {
		case strings.Contains(d, "own"):
			return KindOwnGoal
		case strings.Contains(d, "missed"):
			return KindMissedPenalty
		case strings.Contains(d, "penalty"):
			return KindPenaltyGoal
		default:
			return KindGoal
		}
	case strings.Contains(t, "card"):
		switch {
		case strings.Contains(d, "second yellow"):
			return KindSecondYellow
		case strings.Contains(d, "red"):
			return KindRedCard
		case strings.Contains(d, "yellow"):
			return KindYellowCard
		default:
			return KindOther
		}
	case strings.Contains(t, "var"):
		return KindVAR
	case strings.Contains(t, "subst"):
		return KindSubstitution
	default:
		return KindOther
	}
}

// CountEvents counts events matching the predicate, team 0 meaning
// either team.
func (c *Context) CountEvents(teamID int, match func(EventKind) bool) int {
	n := 0
	for _, ev := range c.Events {
		if teamID != 0 && ev.TeamID != teamID {
			continue
		}
		if match(ev.Kind) {
			n++
		}
	}
	return n
}

// FirstGoal returns the earliest goal event on the timeline.
func (c *Context) FirstGoal() (Event, bool) {
	for _, ev := range c.Ordered() {
		if ev.Kind.IsGoal() {
			return ev, true
		}
	}
	return Event{}, false
}

// LastGoal returns the latest goal event on the timeline.
func (c *Context) LastGoal() (Event, bool) {
	ordered := c.Ordered()
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Kind.IsGoal() {
			return ordered[i], true
		}
	}
	return Event{}, false
}

// GoalInWindow reports whether any goal fell inside the inclusive minute
// window [from, to]. Added time counts toward the minute it extends.
func (c *Context) GoalInWindow(from, to int) bool {
	for _, ev := range c.Events {
		if ev.Kind.IsGoal() && ev.Minute >= from && ev.Minute <= to {
			return true
		}
	}
	return false
}
