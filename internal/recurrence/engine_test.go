package recurrence

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"Planner/internal/dateutil"
)

func date(s string) time.Time {
	return dateutil.ParseUTCDate(s).MustGet()
}

func ruleOf(repeat RepeatOption, anchor string, end string) Rule {
	r := Rule{Repeat: repeat, Anchor: date(anchor), End: mo.None[time.Time]()}
	if end != "" {
		r.End = mo.Some(date(end))
	}
	return r
}

func dateStrs(occ []Occurrence) []string {
	out := make([]string, len(occ))
	for i, o := range occ {
		out[i] = o.DateStr
	}
	return out
}

func TestMatchesPattern_AnchorAlwaysMatches(t *testing.T) {
	options := append([]RepeatOption{RepeatNone, RepeatOption("fortnightly-ish")}, RepeatOptions...)
	for _, opt := range options {
		t.Run(string(opt), func(t *testing.T) {
			rule := ruleOf(opt, "2023-05-17", "2023-05-17")
			assert.True(t, MatchesPattern(date("2023-05-17"), rule))
		})
	}
}

func TestMatchesPattern_Bounds(t *testing.T) {
	for _, opt := range RepeatOptions {
		t.Run(string(opt), func(t *testing.T) {
			rule := ruleOf(opt, "2023-01-01", "2024-01-01")
			assert.False(t, MatchesPattern(date("2022-12-31"), rule), "before anchor")
			assert.False(t, MatchesPattern(date("2022-01-01"), rule), "a year before anchor")
			assert.False(t, MatchesPattern(date("2024-01-02"), rule), "after end")
			assert.False(t, MatchesPattern(date("2025-01-01"), rule), "a year after end")
		})
	}
}

func TestMatchesPattern_TimeOfDayIgnored(t *testing.T) {
	rule := ruleOf(RepeatWeekly, "2023-07-20", "")
	rule.Anchor = rule.Anchor.Add(15 * time.Hour)
	assert.True(t, MatchesPattern(time.Date(2023, 7, 27, 6, 0, 0, 0, time.UTC), rule))
	assert.False(t, MatchesPattern(time.Date(2023, 7, 28, 23, 0, 0, 0, time.UTC), rule))
}

func TestMatchesPattern_Weekly(t *testing.T) {
	anchor := date("2023-03-06")
	rule := Rule{Repeat: RepeatWeekly, Anchor: anchor}
	for k := 0; k < 60; k++ {
		assert.True(t, MatchesPattern(anchor.AddDate(0, 0, 7*k), rule), "k=%d", k)
		for r := 1; r < 7; r++ {
			assert.False(t, MatchesPattern(anchor.AddDate(0, 0, 7*k+r), rule), "k=%d r=%d", k, r)
		}
	}
}

func TestMatchesPattern_Intervals(t *testing.T) {
	tests := []struct {
		repeat RepeatOption
		day    string
		want   bool
	}{
		{RepeatDaily, "2023-01-02", true},
		{RepeatDaily, "2031-06-17", true},
		{RepeatEveryTwoDays, "2023-01-03", true},
		{RepeatEveryTwoDays, "2023-01-04", false},
		{RepeatEveryTwoDays, "2023-03-02", true},
		{RepeatEveryThreeDays, "2023-01-04", true},
		{RepeatEveryThreeDays, "2023-01-05", false},
		{RepeatBiweekly, "2023-01-15", true},
		{RepeatBiweekly, "2023-01-08", false},
		{RepeatBiweekly, "2023-01-29", true},
		{RepeatYearly, "2024-01-01", true},
		{RepeatYearly, "2024-01-02", false},
		{RepeatMonthly, "2023-02-01", true},
		{RepeatMonthly, "2023-02-02", false},
		{RepeatNone, "2023-01-02", false},
		{RepeatOption("hourly"), "2023-01-02", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.repeat)+"/"+tt.day, func(t *testing.T) {
			rule := ruleOf(tt.repeat, "2023-01-01", "")
			assert.Equal(t, tt.want, MatchesPattern(date(tt.day), rule))
		})
	}
}

func TestMatchesPattern_IntervalsAcrossDST(t *testing.T) {
	// Calendar arithmetic is UTC-only, so the spring-forward week has no effect.
	rule := ruleOf(RepeatEveryThreeDays, "2023-03-24", "")
	assert.True(t, MatchesPattern(date("2023-03-27"), rule))
	assert.True(t, MatchesPattern(date("2023-04-02"), rule))
	assert.False(t, MatchesPattern(date("2023-03-28"), rule))
}

func TestMatchesPattern_MonthlyLastDay(t *testing.T) {
	rule := ruleOf(RepeatMonthly, "2023-01-31", "")

	for _, d := range []string{"2023-02-28", "2023-03-31", "2023-04-30", "2023-05-31", "2024-02-29"} {
		assert.True(t, MatchesPattern(date(d), rule), d)
	}
	for _, d := range []string{"2023-02-27", "2023-04-29", "2024-02-28"} {
		assert.False(t, MatchesPattern(date(d), rule), d)
	}
}

func TestMatchesPattern_MonthlyNotOnLastDay(t *testing.T) {
	// The 30th of January is not a month end, so February has no occurrence.
	rule := ruleOf(RepeatMonthly, "2023-01-30", "")
	assert.False(t, MatchesPattern(date("2023-02-28"), rule))
	assert.True(t, MatchesPattern(date("2023-03-30"), rule))
	assert.False(t, MatchesPattern(date("2023-03-31"), rule))
	assert.True(t, MatchesPattern(date("2023-04-30"), rule))
}

func TestMatchesPattern_MonthlyAnchoredOnShortMonthEnd(t *testing.T) {
	// April 30 is a month end: fires on the 30th and on every month's last day.
	rule := ruleOf(RepeatMonthly, "2023-04-30", "")
	assert.True(t, MatchesPattern(date("2023-05-30"), rule))
	assert.True(t, MatchesPattern(date("2023-05-31"), rule))
	assert.True(t, MatchesPattern(date("2024-02-29"), rule))
}

func TestMatchesPattern_YearlyLeapDay(t *testing.T) {
	rule := ruleOf(RepeatYearly, "2024-02-29", "")
	assert.False(t, MatchesPattern(date("2025-02-28"), rule))
	assert.False(t, MatchesPattern(date("2025-03-01"), rule))
	assert.True(t, MatchesPattern(date("2028-02-29"), rule))
}

func TestMatchesPattern_InvalidInput(t *testing.T) {
	bad := dateutil.ParseUTCDate("not-a-date")
	require.True(t, bad.IsAbsent())

	rule := Rule{Repeat: RepeatDaily, Anchor: bad.OrEmpty()}
	assert.False(t, MatchesPattern(date("2023-01-01"), rule))
	assert.False(t, MatchesPattern(bad.OrEmpty(), ruleOf(RepeatDaily, "2023-01-01", "")))
	assert.Empty(t, OccurrencesInRange(rule, nil, date("2023-01-01"), date("2023-01-31")))
}

func TestOccurrencesInRange(t *testing.T) {
	tests := []struct {
		name     string
		rule     Rule
		skip     SkipList
		from, to string
		want     []string
	}{
		{
			name: "daily five days",
			rule: ruleOf(RepeatDaily, "2023-01-01", ""),
			from: "2023-01-01", to: "2023-01-05",
			want: []string{"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05"},
		},
		{
			name: "skip list excludes a day",
			rule: ruleOf(RepeatDaily, "2023-01-01", ""),
			skip: NewSkipList("2023-01-03"),
			from: "2023-01-01", to: "2023-01-05",
			want: []string{"2023-01-01", "2023-01-02", "2023-01-04", "2023-01-05"},
		},
		{
			name: "end bound truncates",
			rule: ruleOf(RepeatDaily, "2023-01-01", "2023-01-05"),
			from: "2023-01-01", to: "2023-01-10",
			want: []string{"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05"},
		},
		{
			name: "range starts before anchor",
			rule: ruleOf(RepeatWeekly, "2023-01-10", ""),
			from: "2023-01-01", to: "2023-01-31",
			want: []string{"2023-01-10", "2023-01-17", "2023-01-24", "2023-01-31"},
		},
		{
			name: "monthly month ends",
			rule: ruleOf(RepeatMonthly, "2023-01-31", ""),
			from: "2023-01-01", to: "2023-05-31",
			want: []string{"2023-01-31", "2023-02-28", "2023-03-31", "2023-04-30", "2023-05-31"},
		},
		{
			name: "single event inside range",
			rule: ruleOf(RepeatNone, "2023-01-03", ""),
			from: "2023-01-01", to: "2023-01-07",
			want: []string{"2023-01-03"},
		},
		{
			name: "range ends before anchor",
			rule: ruleOf(RepeatDaily, "2023-02-01", ""),
			from: "2023-01-01", to: "2023-01-31",
			want: []string{},
		},
		{
			name: "inverted range",
			rule: ruleOf(RepeatDaily, "2023-01-01", ""),
			from: "2023-01-10", to: "2023-01-01",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OccurrencesInRange(tt.rule, tt.skip, date(tt.from), date(tt.to))
			assert.Equal(t, tt.want, dateStrs(got))
			for _, o := range got {
				assert.Equal(t, o.DateStr, o.Date.Format(dateutil.DateLayout))
				assert.Equal(t, time.UTC, o.Date.Location())
			}
		})
	}
}

func TestOccurrencesInRange_FreshSlice(t *testing.T) {
	rule := ruleOf(RepeatDaily, "2023-01-01", "")
	a := OccurrencesInRange(rule, nil, date("2023-01-01"), date("2023-01-03"))
	b := OccurrencesInRange(rule, nil, date("2023-01-01"), date("2023-01-03"))
	require.Len(t, a, 3)
	a[0].DateStr = "mutated"
	assert.Equal(t, "2023-01-01", b[0].DateStr)
}

func TestOccursOn(t *testing.T) {
	rule := ruleOf(RepeatDaily, "2023-01-01", "")
	skip := NewSkipList("2023-01-02")
	assert.True(t, OccursOn(rule, skip, date("2023-01-01")))
	assert.False(t, OccursOn(rule, skip, date("2023-01-02")))
}

// The linear scan must agree with an independent RFC 5545 expansion.
func TestOccurrencesInRange_AgreesWithRRule(t *testing.T) {
	from, to := date("2023-01-01"), date("2025-12-31")
	for _, opt := range RepeatOptions {
		for _, anchor := range []string{"2023-01-31", "2023-02-28", "2023-04-30", "2023-03-15", "2024-02-29"} {
			t.Run(string(opt)+"/"+anchor, func(t *testing.T) {
				rule := ruleOf(opt, anchor, "2025-06-30")
				ro, ok := RRuleOption(rule)
				require.True(t, ok)
				rr, err := rrule.NewRRule(ro)
				require.NoError(t, err)

				var want []string
				for _, ts := range rr.Between(from, to, true) {
					want = append(want, ts.UTC().Format(dateutil.DateLayout))
				}
				got := dateStrs(OccurrencesInRange(rule, nil, from, to))
				assert.Equal(t, want, got)
			})
		}
	}
}
