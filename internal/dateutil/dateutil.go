// Package dateutil normalizes heterogeneous date inputs into UTC calendar dates.
//
// Every value is read and written through UTC accessors only, so results do not
// depend on the host timezone.
package dateutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// DateLayout is the canonical calendar-date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// MaxDate stands in for an absent end bound.
var MaxDate = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

var dateOnlyRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Layouts tried, in order, for strings that are not a bare date.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseUTCDate converts value into a time in UTC.
//
// A string matching YYYY-MM-DD exactly becomes UTC midnight of that date;
// a month or day outside the calendar yields None.
// Other strings are parsed as timestamps, numbers as epoch milliseconds, and
// time values are copied. Anything else yields None.
func ParseUTCDate(value any) mo.Option[time.Time] {
	switch v := value.(type) {
	case nil:
		return mo.None[time.Time]()
	case string:
		return parseString(v)
	case []byte:
		return parseString(string(v))
	case time.Time:
		return validTime(v)
	case *time.Time:
		if v == nil {
			return mo.None[time.Time]()
		}
		return validTime(*v)
	case mo.Option[time.Time]:
		if t, ok := v.Get(); ok {
			return validTime(t)
		}
		return mo.None[time.Time]()
	case int:
		return fromEpochMillis(float64(v))
	case int32:
		return fromEpochMillis(float64(v))
	case int64:
		return fromEpochMillis(float64(v))
	case float32:
		return fromEpochMillis(float64(v))
	case float64:
		return fromEpochMillis(v)
	default:
		return mo.None[time.Time]()
	}
}

func parseString(s string) mo.Option[time.Time] {
	s = strings.TrimSpace(s)
	if s == "" {
		return mo.None[time.Time]()
	}
	if m := dateOnlyRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 {
			return mo.None[time.Time]()
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// Days past the end of the month are rejected, not rolled over.
		if t.Day() != day {
			return mo.None[time.Time]()
		}
		return mo.Some(t)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return validTime(t)
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpochMillis(n)
	}
	return mo.None[time.Time]()
}

func fromEpochMillis(ms float64) mo.Option[time.Time] {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return mo.None[time.Time]()
	}
	return validTime(time.UnixMilli(int64(ms)))
}

func validTime(t time.Time) mo.Option[time.Time] {
	if !IsValid(t) {
		return mo.None[time.Time]()
	}
	return mo.Some(t.UTC())
}

// IsValid reports whether t holds a usable instant. The zero time is invalid.
func IsValid(t time.Time) bool {
	return !t.IsZero()
}

// FormatDate renders t's UTC calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) mo.Option[string] {
	if !IsValid(t) {
		return mo.None[string]()
	}
	return mo.Some(t.UTC().Format(DateLayout))
}

// DateString is FormatDate with "" for invalid input.
func DateString(t time.Time) string {
	return FormatDate(t).OrEmpty()
}

// CombineDateTime returns date's calendar day at clock's time of day.
func CombineDateTime(date, clock time.Time) mo.Option[time.Time] {
	if !IsValid(date) || !IsValid(clock) {
		return mo.None[time.Time]()
	}
	d := date.UTC()
	c := clock.UTC()
	return mo.Some(time.Date(d.Year(), d.Month(), d.Day(),
		c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), time.UTC))
}

// Day truncates t to UTC midnight of its UTC calendar date.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// IsLastDayOfMonth reports whether t is the final day of its UTC month.
func IsLastDayOfMonth(t time.Time) bool {
	u := t.UTC()
	return u.AddDate(0, 0, 1).Month() != u.Month()
}

// Earliest returns the earlier of a and b.
func Earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Latest returns the later of a and b.
func Latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
