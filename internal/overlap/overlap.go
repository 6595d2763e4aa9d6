// Package overlap detects time conflicts between single and recurring tasks.
package overlap

import (
	"log/slog"
	"time"

	"github.com/samber/mo"

	"Planner/internal/dateutil"
	"Planner/internal/recurrence"
)

// gregorianCycle is the length in days of the 400-year Gregorian calendar
// cycle. Day of month, month and weekday all repeat after it.
const gregorianCycle = 146097

// DefaultHorizon caps the search for two unbounded series. Two Gregorian
// cycles cover the longest combined period of any pair of repeat options
// (biweekly against monthly or yearly).
const DefaultHorizon = 2 * gregorianCycle * 24 * time.Hour

// Candidate is a time-bound event as seen by the detector. Only the time of day
// of StartTime and EndTime matters; an ID of 0 marks an unsaved event.
type Candidate struct {
	ID           int64
	StartTime    time.Time
	EndTime      time.Time
	SelectedDay  time.Time
	Repeat       recurrence.RepeatOption
	RepeatEndDay mo.Option[time.Time]
	SkipDates    recurrence.SkipList
}

// Rule returns the recurrence rule the candidate follows.
func (c Candidate) Rule() recurrence.Rule {
	return recurrence.Rule{Repeat: c.Repeat, Anchor: c.SelectedDay, End: c.RepeatEndDay}
}

func (c Candidate) valid() bool {
	return dateutil.IsValid(c.StartTime) && dateutil.IsValid(c.EndTime) && dateutil.IsValid(c.SelectedDay)
}

// Conflict identifies the existing event that clashes and the day it clashes on.
type Conflict struct {
	Existing Candidate
	Date     string
}

// Detector finds conflicts. Horizon only limits pairs of unbounded series;
// bounded windows are always searched in full. The zero value uses DefaultHorizon.
type Detector struct {
	Horizon time.Duration
}

// NewDetector returns a Detector limited to the given horizon.
func NewDetector(horizon time.Duration) *Detector {
	return &Detector{Horizon: horizon}
}

var defaultDetector = &Detector{Horizon: DefaultHorizon}

// RangesOverlap reports whether [start1,end1) and [start2,end2) intersect.
// Touching endpoints do not overlap.
func RangesOverlap(start1, end1, start2, end2 time.Time) bool {
	if !dateutil.IsValid(start1) || !dateutil.IsValid(end1) || !dateutil.IsValid(start2) || !dateutil.IsValid(end2) {
		return false
	}
	return start1.Before(end2) && start2.Before(end1)
}

// FindConflict reports whether candidate conflicts with any of existing.
func FindConflict(candidate Candidate, existing []Candidate) bool {
	_, ok := defaultDetector.FirstConflict(candidate, existing)
	return ok
}

// FindConflict reports whether candidate conflicts with any of existing.
func (d *Detector) FindConflict(candidate Candidate, existing []Candidate) bool {
	_, ok := d.FirstConflict(candidate, existing)
	return ok
}

// FirstConflict returns the first member of existing that conflicts with candidate.
func (d *Detector) FirstConflict(candidate Candidate, existing []Candidate) (Conflict, bool) {
	if !candidate.valid() {
		slog.Error("overlap: candidate has invalid dates", "id", candidate.ID)
		return Conflict{}, false
	}
	candDay := dateutil.DateString(candidate.SelectedDay)

	for _, item := range existing {
		if candidate.ID != 0 && item.ID == candidate.ID {
			continue
		}
		if !item.valid() {
			slog.Error("overlap: skipping record with invalid dates", "id", item.ID)
			continue
		}
		if item.SkipDates.HasString(candDay) {
			continue
		}

		if !candidate.Repeat.Repeats() && !item.Repeat.Repeats() {
			if candDay != dateutil.DateString(item.SelectedDay) {
				continue
			}
			if sameDayOverlap(candidate.SelectedDay, candidate, item) {
				return Conflict{Existing: item, Date: candDay}, true
			}
			continue
		}

		if date, ok := d.seriesConflict(candidate, item); ok {
			return Conflict{Existing: item, Date: date}, true
		}
	}
	return Conflict{}, false
}

// seriesConflict handles pairs where at least one side repeats.
func (d *Detector) seriesConflict(candidate, item Candidate) (string, bool) {
	// Both sides are placed on the same UTC day, so clocks that never overlap
	// rule out every day at once.
	if !sameDayOverlap(candidate.SelectedDay, candidate, item) {
		return "", false
	}

	windowStart := dateutil.Latest(dateutil.Day(candidate.SelectedDay), dateutil.Day(item.SelectedDay))
	windowEnd := dateutil.Earliest(activeUntil(candidate), activeUntil(item))
	if windowStart.After(windowEnd) {
		return "", false
	}
	if windowEnd.Equal(dateutil.MaxDate) {
		windowEnd = d.unboundedEnd(windowStart, candidate, item)
	}

	candOcc := occurrences(candidate, windowStart, windowEnd)
	if len(candOcc) == 0 {
		return "", false
	}
	itemDays := make(map[string]time.Time)
	for _, o := range occurrences(item, windowStart, windowEnd) {
		itemDays[o.DateStr] = o.Date
	}

	for _, o := range candOcc {
		if _, ok := itemDays[o.DateStr]; !ok {
			continue
		}
		// Checked again per pair, independent of the expansion above.
		if item.SkipDates.HasString(o.DateStr) {
			continue
		}
		if sameDayOverlap(o.Date, candidate, item) {
			return o.DateStr, true
		}
	}
	return "", false
}

// unboundedEnd is where the search of two open-ended series may stop. Past the
// last skipped day both patterns are periodic, so one combined period after it
// holds every day the pair can ever share.
func (d *Detector) unboundedEnd(windowStart time.Time, a, b Candidate) time.Time {
	from := windowStart
	for _, skip := range []recurrence.SkipList{a.SkipDates, b.SkipDates} {
		for _, s := range skip.Strings() {
			if day, ok := dateutil.ParseUTCDate(s).Get(); ok && !day.Before(from) {
				from = dateutil.AddDays(day, 1)
			}
		}
	}

	span := time.Duration(pairPeriod(a.Repeat, b.Repeat)) * 24 * time.Hour
	horizon := d.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	if horizon < span {
		span = horizon
	}
	return dateutil.Earliest(from.Add(span), dateutil.MaxDate)
}

// pairPeriod is the number of days after which two repeat patterns line up
// again the same way.
func pairPeriod(a, b recurrence.RepeatOption) int {
	pa, pb := period(a), period(b)
	return pa * pb / gcd(pa, pb)
}

func period(r recurrence.RepeatOption) int {
	switch r {
	case recurrence.RepeatDaily:
		return 1
	case recurrence.RepeatEveryTwoDays:
		return 2
	case recurrence.RepeatEveryThreeDays:
		return 3
	case recurrence.RepeatWeekly:
		return 7
	case recurrence.RepeatBiweekly:
		return 14
	default:
		return gregorianCycle
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// activeUntil is the last day on which c can occur.
func activeUntil(c Candidate) time.Time {
	if !c.Repeat.Repeats() {
		return dateutil.Day(c.SelectedDay)
	}
	if end, ok := c.RepeatEndDay.Get(); ok && dateutil.IsValid(end) {
		return dateutil.Day(end)
	}
	return dateutil.MaxDate
}

func occurrences(c Candidate, from, to time.Time) []recurrence.Occurrence {
	if !c.Repeat.Repeats() {
		day := dateutil.Day(c.SelectedDay)
		return []recurrence.Occurrence{{Date: day, DateStr: dateutil.DateString(day)}}
	}
	return recurrence.OccurrencesInRange(c.Rule(), c.SkipDates, from, to)
}

// sameDayOverlap places both time ranges on day and compares them.
func sameDayOverlap(day time.Time, a, b Candidate) bool {
	aStart, ok1 := dateutil.CombineDateTime(day, a.StartTime).Get()
	aEnd, ok2 := dateutil.CombineDateTime(day, a.EndTime).Get()
	bStart, ok3 := dateutil.CombineDateTime(day, b.StartTime).Get()
	bEnd, ok4 := dateutil.CombineDateTime(day, b.EndTime).Get()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return RangesOverlap(aStart, aEnd, bStart, bEnd)
}
