package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"Planner/internal/dateutil"
)

// RRuleOption translates rule into rrule-go options anchored at the rule's
// anchor day. It reports false for non-repeating or unknown options.
func RRuleOption(rule Rule) (rrule.ROption, bool) {
	if !dateutil.IsValid(rule.Anchor) {
		return rrule.ROption{}, false
	}
	anchor := dateutil.Day(rule.Anchor)
	opt := rrule.ROption{Dtstart: anchor, Interval: 1}

	switch rule.Repeat {
	case RepeatDaily:
		opt.Freq = rrule.DAILY
	case RepeatEveryTwoDays:
		opt.Freq = rrule.DAILY
		opt.Interval = 2
	case RepeatEveryThreeDays:
		opt.Freq = rrule.DAILY
		opt.Interval = 3
	case RepeatWeekly:
		opt.Freq = rrule.WEEKLY
	case RepeatBiweekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = 2
	case RepeatMonthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{anchor.Day()}
		if dateutil.IsLastDayOfMonth(anchor) {
			opt.Bymonthday = append(opt.Bymonthday, -1)
		}
	case RepeatYearly:
		opt.Freq = rrule.YEARLY
		opt.Bymonth = []int{int(anchor.Month())}
		opt.Bymonthday = []int{anchor.Day()}
	default:
		return rrule.ROption{}, false
	}

	if end, ok := rule.End.Get(); ok && dateutil.IsValid(end) {
		opt.Until = dateutil.AddDays(dateutil.Day(end), 1).Add(-time.Second)
	}
	return opt, true
}

// ToRRule renders rule as an RFC 5545 RRULE value (without DTSTART).
func ToRRule(rule Rule) (string, bool) {
	opt, ok := RRuleOption(rule)
	if !ok {
		return "", false
	}
	opt.Dtstart = time.Time{}
	return opt.RRuleString(), true
}
