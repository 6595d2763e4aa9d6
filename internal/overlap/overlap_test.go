package overlap

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Planner/internal/dateutil"
	"Planner/internal/recurrence"
)

func at(day, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func task(id int64, day, from, to string, repeat recurrence.RepeatOption, end string, skip ...string) Candidate {
	c := Candidate{
		ID:           id,
		StartTime:    at(day, from),
		EndTime:      at(day, to),
		SelectedDay:  dateutil.ParseUTCDate(day).MustGet(),
		Repeat:       repeat,
		RepeatEndDay: mo.None[time.Time](),
		SkipDates:    recurrence.NewSkipList(skip...),
	}
	if end != "" {
		c.RepeatEndDay = mo.Some(dateutil.ParseUTCDate(end).MustGet())
	}
	return c
}

func TestRangesOverlap(t *testing.T) {
	base := time.Date(2023, 7, 20, 0, 0, 0, 0, time.UTC)
	h := func(n float64) time.Time { return base.Add(time.Duration(n * float64(time.Hour))) }

	tests := []struct {
		name       string
		a, b, c, d time.Time
		want       bool
	}{
		{"disjoint", h(9), h(10), h(11), h(12), false},
		{"touching", h(9), h(10), h(10), h(11), false},
		{"partial", h(9), h(10.5), h(10), h(11), true},
		{"contained", h(9), h(12), h(10), h(11), true},
		{"identical", h(9), h(10), h(9), h(10), true},
		{"invalid input", time.Time{}, h(10), h(9), h(11), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangesOverlap(tt.a, tt.b, tt.c, tt.d))
			assert.Equal(t, tt.want, RangesOverlap(tt.c, tt.d, tt.a, tt.b), "symmetry")
		})
	}
}

func TestRangesOverlap_Symmetric(t *testing.T) {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for a := 0; a < 6; a++ {
		for b := 0; b < 6; b++ {
			for c := 0; c < 6; c++ {
				for d := 0; d < 6; d++ {
					ta, tb := base.Add(time.Duration(a)*time.Hour), base.Add(time.Duration(b)*time.Hour)
					tc, td := base.Add(time.Duration(c)*time.Hour), base.Add(time.Duration(d)*time.Hour)
					require.Equal(t, RangesOverlap(ta, tb, tc, td), RangesOverlap(tc, td, ta, tb))
				}
			}
		}
	}
}

func TestFindConflict_SingleTasks(t *testing.T) {
	existing := []Candidate{task(1, "2023-07-20", "10:00", "11:00", recurrence.RepeatNone, "")}

	assert.False(t, FindConflict(task(0, "2023-07-20", "09:00", "10:00", recurrence.RepeatNone, ""), existing), "touching")
	assert.True(t, FindConflict(task(0, "2023-07-20", "09:00", "10:01", recurrence.RepeatNone, ""), existing), "one minute over")
	assert.False(t, FindConflict(task(0, "2023-07-21", "10:00", "11:00", recurrence.RepeatNone, ""), existing), "other day")
}

func TestFindConflict_TimeTakenFromOwnDay(t *testing.T) {
	// Only the time of day of the stored timestamps is compared.
	existing := task(1, "2023-07-20", "10:00", "11:00", recurrence.RepeatNone, "")
	existing.StartTime = at("2020-01-01", "10:00")
	existing.EndTime = at("2020-01-01", "11:00")
	assert.True(t, FindConflict(task(0, "2023-07-20", "10:30", "12:00", recurrence.RepeatNone, ""), []Candidate{existing}))
}

func TestFindConflict_SelfExclusion(t *testing.T) {
	c := task(7, "2023-07-20", "09:00", "10:00", recurrence.RepeatDaily, "")
	assert.False(t, FindConflict(c, []Candidate{c}))

	other := c
	other.ID = 8
	assert.True(t, FindConflict(c, []Candidate{c, other}))
}

func TestFindConflict_UnsavedCandidateIsNotSelf(t *testing.T) {
	c := task(0, "2023-07-20", "09:00", "10:00", recurrence.RepeatNone, "")
	stored := task(0, "2023-07-20", "09:00", "10:00", recurrence.RepeatNone, "")
	assert.True(t, FindConflict(c, []Candidate{stored}))
}

func TestFindConflict_CrossPattern(t *testing.T) {
	daily := task(0, "2023-07-20", "09:00", "10:00", recurrence.RepeatDaily, "2023-07-25")

	sameStart := task(1, "2023-07-20", "09:30", "10:30", recurrence.RepeatWeekly, "2023-08-20")
	assert.True(t, FindConflict(daily, []Candidate{sameStart}))

	later := task(2, "2023-07-26", "09:30", "10:30", recurrence.RepeatWeekly, "2023-08-20")
	assert.False(t, FindConflict(daily, []Candidate{later}))
}

func TestFirstConflict_ReportsDay(t *testing.T) {
	candidate := task(0, "2023-07-21", "09:00", "10:00", recurrence.RepeatNone, "")
	series := task(3, "2023-07-14", "09:30", "09:45", recurrence.RepeatWeekly, "")

	got, ok := NewDetector(DefaultHorizon).FirstConflict(candidate, []Candidate{series})
	require.True(t, ok)
	assert.Equal(t, int64(3), got.Existing.ID)
	assert.Equal(t, "2023-07-21", got.Date)
}

func TestFindConflict_SingleAgainstSeries(t *testing.T) {
	series := task(1, "2023-07-03", "18:00", "19:00", recurrence.RepeatEveryTwoDays, "2023-07-31")

	assert.True(t, FindConflict(task(0, "2023-07-05", "18:30", "20:00", recurrence.RepeatNone, ""), []Candidate{series}))
	assert.False(t, FindConflict(task(0, "2023-07-06", "18:30", "20:00", recurrence.RepeatNone, ""), []Candidate{series}), "off day")
	assert.False(t, FindConflict(task(0, "2023-07-01", "18:30", "20:00", recurrence.RepeatNone, ""), []Candidate{series}), "before anchor")
	assert.False(t, FindConflict(task(0, "2023-08-02", "18:30", "20:00", recurrence.RepeatNone, ""), []Candidate{series}), "after end")
}

func TestFindConflict_SkippedDays(t *testing.T) {
	candidate := task(0, "2023-07-10", "09:00", "10:00", recurrence.RepeatNone, "")

	skipped := task(1, "2023-07-03", "09:00", "10:00", recurrence.RepeatWeekly, "", "2023-07-10")
	assert.False(t, FindConflict(candidate, []Candidate{skipped}), "candidate day skipped")

	// The series share 07-17 and 07-24; both are skipped in the stored one.
	weekly := task(0, "2023-07-10", "09:00", "10:00", recurrence.RepeatWeekly, "2023-07-24")
	stored := task(2, "2023-07-17", "09:00", "10:00", recurrence.RepeatWeekly, "", "2023-07-17", "2023-07-24")
	assert.False(t, FindConflict(weekly, []Candidate{stored}), "all shared days skipped")

	stored.SkipDates.Remove(dateutil.ParseUTCDate("2023-07-24").MustGet())
	got, ok := defaultDetector.FirstConflict(weekly, []Candidate{stored})
	require.True(t, ok)
	assert.Equal(t, "2023-07-24", got.Date)
}

func TestFindConflict_CandidateSkipsOwnDay(t *testing.T) {
	candidate := task(5, "2023-07-10", "09:00", "10:00", recurrence.RepeatDaily, "2023-07-12", "2023-07-11")
	stored := task(1, "2023-07-11", "09:00", "10:00", recurrence.RepeatNone, "")
	assert.False(t, FindConflict(candidate, []Candidate{stored}))
}

func TestFindConflict_UnboundedSeries(t *testing.T) {
	// A yearly series and a weekly series can first meet years after both start.
	yearly := task(0, "2023-03-01", "08:00", "09:00", recurrence.RepeatYearly, "")
	weekly := task(1, "2023-03-02", "08:30", "09:30", recurrence.RepeatWeekly, "")

	got, ok := defaultDetector.FirstConflict(yearly, []Candidate{weekly})
	require.True(t, ok)
	assert.Equal(t, "2029-03-01", got.Date)

	short := NewDetector(90 * 24 * time.Hour)
	assert.False(t, short.FindConflict(yearly, []Candidate{weekly}))
}

func TestFindConflict_LongWindows(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		item      Candidate
		wantDate  string
	}{
		{
			name:      "bounded window decades out with earlier shared days skipped",
			candidate: task(0, "2024-02-22", "09:00", "10:00", recurrence.RepeatWeekly, "2099-12-31"),
			item:      task(1, "2024-02-29", "09:00", "10:00", recurrence.RepeatYearly, "2099-12-31", "2024-02-29", "2052-02-29"),
			wantDate:  "2080-02-29",
		},
		{
			name:      "unbounded pair across 2100",
			candidate: task(0, "2096-03-04", "09:00", "10:00", recurrence.RepeatWeekly, ""),
			item:      task(1, "2096-02-29", "09:00", "10:00", recurrence.RepeatYearly, ""),
			wantDate:  "2128-02-29",
		},
		{
			name:      "unbounded pair with every shared day in the first cycle skipped",
			candidate: task(0, "2024-02-22", "09:00", "10:00", recurrence.RepeatWeekly, ""),
			item:      task(1, "2024-02-29", "09:00", "10:00", recurrence.RepeatYearly, "", "2024-02-29", "2052-02-29", "2080-02-29"),
			wantDate:  "2120-02-29",
		},
		{
			name:      "unbounded day-periodic pair never meets",
			candidate: task(0, "2023-07-03", "09:00", "10:00", recurrence.RepeatBiweekly, ""),
			item:      task(1, "2023-07-10", "09:00", "10:00", recurrence.RepeatBiweekly, ""),
		},
		{
			name:      "clocks never overlap",
			candidate: task(0, "2023-07-03", "09:00", "10:00", recurrence.RepeatDaily, ""),
			item:      task(1, "2023-07-03", "10:00", "11:00", recurrence.RepeatDaily, ""),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := defaultDetector.FirstConflict(tt.candidate, []Candidate{tt.item})
			if tt.wantDate == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantDate, got.Date)
		})
	}
}

func TestFindConflict_HorizonLeavesBoundedWindowsAlone(t *testing.T) {
	candidate := task(0, "2024-02-22", "09:00", "10:00", recurrence.RepeatWeekly, "2099-12-31")
	item := task(1, "2024-02-29", "09:00", "10:00", recurrence.RepeatYearly, "2099-12-31", "2024-02-29", "2052-02-29")

	short := NewDetector(90 * 24 * time.Hour)
	got, ok := short.FirstConflict(candidate, []Candidate{item})
	require.True(t, ok)
	assert.Equal(t, "2080-02-29", got.Date)
}

func TestPairPeriod(t *testing.T) {
	assert.Equal(t, 14, pairPeriod(recurrence.RepeatWeekly, recurrence.RepeatBiweekly))
	assert.Equal(t, 42, pairPeriod(recurrence.RepeatEveryThreeDays, recurrence.RepeatBiweekly))
	assert.Equal(t, 146097, pairPeriod(recurrence.RepeatWeekly, recurrence.RepeatYearly))
	assert.Equal(t, 2*146097, pairPeriod(recurrence.RepeatBiweekly, recurrence.RepeatMonthly))
	assert.Equal(t, 146097, pairPeriod(recurrence.RepeatMonthly, recurrence.RepeatYearly))
}

func TestFindConflict_MalformedRecords(t *testing.T) {
	candidate := task(0, "2023-07-20", "09:00", "10:00", recurrence.RepeatNone, "")

	broken := task(1, "2023-07-20", "09:00", "10:00", recurrence.RepeatNone, "")
	broken.StartTime = time.Time{}
	good := task(2, "2023-07-20", "09:30", "10:30", recurrence.RepeatNone, "")

	assert.False(t, FindConflict(candidate, []Candidate{broken}))
	assert.True(t, FindConflict(candidate, []Candidate{broken, good}))

	invalid := candidate
	invalid.SelectedDay = time.Time{}
	assert.False(t, FindConflict(invalid, []Candidate{good}))
}

func TestFindConflict_Empty(t *testing.T) {
	assert.False(t, FindConflict(task(0, "2023-07-20", "09:00", "10:00", recurrence.RepeatDaily, ""), nil))
}
