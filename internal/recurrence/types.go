package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

var ErrUnknownRepeatOption = errors.New("unknown repeat option")

// RepeatOption names how a task or reminder repeats. The zero value means no repeat.
type RepeatOption string

const (
	RepeatNone           RepeatOption = ""
	RepeatDaily          RepeatOption = "daily"
	RepeatEveryTwoDays   RepeatOption = "every two days"
	RepeatEveryThreeDays RepeatOption = "every three days"
	RepeatWeekly         RepeatOption = "weekly"
	RepeatBiweekly       RepeatOption = "biweekly"
	RepeatMonthly        RepeatOption = "monthly"
	RepeatYearly         RepeatOption = "yearly"
)

// RepeatOptions lists every repeating option in display order.
var RepeatOptions = []RepeatOption{
	RepeatDaily,
	RepeatEveryTwoDays,
	RepeatEveryThreeDays,
	RepeatWeekly,
	RepeatBiweekly,
	RepeatMonthly,
	RepeatYearly,
}

// ParseRepeatOption normalizes user input. "" and "none" mean no repeat;
// anything outside the accepted vocabulary is rejected.
func ParseRepeatOption(s string) (RepeatOption, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return RepeatNone, nil
	}
	opt := RepeatOption(s)
	if !opt.Valid() {
		return RepeatNone, fmt.Errorf("%w: %q", ErrUnknownRepeatOption, s)
	}
	return opt, nil
}

// Valid reports whether r is none or one of the accepted options.
func (r RepeatOption) Valid() bool {
	if r == RepeatNone {
		return true
	}
	for _, o := range RepeatOptions {
		if r == o {
			return true
		}
	}
	return false
}

// Repeats reports whether r describes more than a single occurrence.
func (r RepeatOption) Repeats() bool {
	return r != RepeatNone
}

// Rule is a recurrence anchored at a calendar day, optionally bounded by End.
type Rule struct {
	Repeat RepeatOption
	Anchor time.Time
	End    mo.Option[time.Time]
}

// NewRule builds a Rule; a nil end leaves the rule unbounded.
func NewRule(repeat RepeatOption, anchor time.Time, end *time.Time) Rule {
	r := Rule{Repeat: repeat, Anchor: anchor, End: mo.None[time.Time]()}
	if end != nil && !end.IsZero() {
		r.End = mo.Some(*end)
	}
	return r
}

// Occurrence is one calendar day on which a rule fires.
type Occurrence struct {
	Date    time.Time `json:"date"`
	DateStr string    `json:"dateStr"`
}
