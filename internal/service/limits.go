package service

import (
	"fmt"
	"time"

	"Planner/internal/dateutil"
	"Planner/internal/overlap"
)

// Limits bounds the work a single request may ask of the recurrence engine.
type Limits struct {
	MaxRangeDays   int
	OverlapHorizon time.Duration
}

var DefaultLimits = Limits{
	MaxRangeDays:   366,
	OverlapHorizon: overlap.DefaultHorizon,
}

func (l Limits) withDefaults() Limits {
	if l.MaxRangeDays <= 0 {
		l.MaxRangeDays = DefaultLimits.MaxRangeDays
	}
	if l.OverlapHorizon <= 0 {
		l.OverlapHorizon = DefaultLimits.OverlapHorizon
	}
	return l
}

// checkRange validates a list query and returns it normalized to calendar days.
func (l Limits) checkRange(from, to time.Time) (time.Time, time.Time, error) {
	if !dateutil.IsValid(from) || !dateutil.IsValid(to) {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	from, to = dateutil.Day(from), dateutil.Day(to)
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > l.MaxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d days, at most %d", ErrRangeTooLarge, days, l.MaxRangeDays)
	}
	return from, to, nil
}

// seriesEnd is the last day a rule with the given end bound can occur on.
func seriesEnd(repeats bool, selectedDay time.Time, end *time.Time) time.Time {
	if !repeats {
		return dateutil.Day(selectedDay)
	}
	if end != nil {
		return dateutil.Day(*end)
	}
	return dateutil.MaxDate
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil || !dateutil.IsValid(*t) {
		return nil
	}
	d := dateutil.Day(*t)
	return &d
}
