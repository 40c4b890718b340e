package model

import (
	"strings"
	"time"
)

// Action is a recommendation verb from the newsletter.
// Keep these values stable; they are intended for CSV and event output.
type Action string

const (
	ActionBuy    Action = "BUY"
	ActionSell   Action = "SELL"
	ActionReduce Action = "REDUCE"
	ActionHold   Action = "HOLD"
)

// ParseAction normalizes a CSV recommendation cell. Matching is
// case-insensitive; anything outside the four known verbs is rejected.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case ActionBuy, ActionSell, ActionReduce, ActionHold:
		return a, nil
	}
	return "", &UnknownActionError{Input: s}
}

// Recommendation is one dated buy/sell/hold/reduce call for a symbol.
// Immutable once parsed.
type Recommendation struct {
	Date   time.Time `json:"date"`
	Symbol string    `json:"symbol"`
	Name   string    `json:"name"`
	Action Action    `json:"action"`
}

// recDateLayouts are the two date formats the newsletter uses.
// Order matters: the four-digit year must be tried first.
var recDateLayouts = []string{"01/02/2006", "01/02/06"}

// ParseRecDate parses MM/DD/YYYY or MM/DD/YY into a day key.
func ParseRecDate(s string) (time.Time, error) {
	for _, layout := range recDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, &DateFormatError{Input: s}
}

// Day truncates t to midnight UTC. Every date the engine handles is a
// day key produced by this function, so dates compare with ==.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
