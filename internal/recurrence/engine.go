// Package recurrence decides on which calendar days a repeating task or
// reminder occurs.
//
// All functions are pure and safe for concurrent use. Malformed input degrades
// to false or an empty result and is logged; nothing here returns an error.
package recurrence

import (
	"log/slog"
	"math"
	"time"

	"Planner/internal/dateutil"
)

const day = 24 * time.Hour

// MatchesPattern reports whether rule has an occurrence on the given day.
// The anchor day always matches.
func MatchesPattern(d time.Time, rule Rule) bool {
	if !dateutil.IsValid(d) || !dateutil.IsValid(rule.Anchor) {
		slog.Error("recurrence: invalid date in pattern match",
			"day", d, "anchor", rule.Anchor, "repeat", string(rule.Repeat))
		return false
	}

	d = dateutil.Day(d)
	anchor := dateutil.Day(rule.Anchor)

	if d.Before(anchor) {
		return false
	}
	if end, ok := rule.End.Get(); ok && dateutil.IsValid(end) && d.After(dateutil.Day(end)) {
		return false
	}
	if dateutil.SameDay(d, anchor) {
		return true
	}
	if rule.Repeat == RepeatNone {
		return dateutil.DateString(d) == dateutil.DateString(anchor)
	}

	diffDays := int(math.Round(math.Abs(float64(d.Sub(anchor))) / float64(day)))

	switch rule.Repeat {
	case RepeatDaily:
		return true
	case RepeatEveryTwoDays:
		return diffDays%2 == 0
	case RepeatEveryThreeDays:
		return diffDays%3 == 0
	case RepeatWeekly:
		return diffDays%7 == 0
	case RepeatBiweekly:
		return diffDays%14 == 0
	case RepeatMonthly:
		if d.Day() == anchor.Day() {
			return true
		}
		// Anchored on a month's last day: fire on every month's last day.
		return dateutil.IsLastDayOfMonth(anchor) && dateutil.IsLastDayOfMonth(d)
	case RepeatYearly:
		return d.Month() == anchor.Month() && d.Day() == anchor.Day()
	default:
		return false
	}
}

// OccursOn reports whether rule fires on day d and that occurrence has not been skipped.
func OccursOn(rule Rule, skip SkipList, d time.Time) bool {
	if skip.Has(d) {
		return false
	}
	return MatchesPattern(d, rule)
}

// OccurrencesInRange lists every non-skipped occurrence of rule between
// rangeStart and rangeEnd inclusive, in ascending order.
func OccurrencesInRange(rule Rule, skip SkipList, rangeStart, rangeEnd time.Time) []Occurrence {
	if !dateutil.IsValid(rule.Anchor) || !dateutil.IsValid(rangeStart) || !dateutil.IsValid(rangeEnd) {
		slog.Error("recurrence: invalid occurrence range",
			"anchor", rule.Anchor, "from", rangeStart, "to", rangeEnd)
		return nil
	}

	start := dateutil.Day(rangeStart)
	end := dateutil.Day(rangeEnd)
	if start.After(end) {
		return nil
	}
	if ruleEnd, ok := rule.End.Get(); ok && dateutil.IsValid(ruleEnd) {
		end = dateutil.Earliest(end, dateutil.Day(ruleEnd))
	}

	out := make([]Occurrence, 0)
	for cur := dateutil.Latest(dateutil.Day(rule.Anchor), start); !cur.After(end); cur = dateutil.AddDays(cur, 1) {
		ds := dateutil.DateString(cur)
		if skip.HasString(ds) {
			continue
		}
		if MatchesPattern(cur, rule) {
			out = append(out, Occurrence{Date: cur, DateStr: ds})
		}
	}
	return out
}
