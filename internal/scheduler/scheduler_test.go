package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "Planner/internal/domain"
)

type window struct{ from, to time.Time }

type fakeSource struct {
	calls []window
	due   []dom.ReminderOccurrence
	err   error
}

func (f *fakeSource) Due(_ context.Context, from, to time.Time) ([]dom.ReminderOccurrence, error) {
	f.calls = append(f.calls, window{from, to})
	return f.due, f.err
}

type recordingNotifier struct {
	got  []dom.ReminderOccurrence
	fail int64
}

func (n *recordingNotifier) Notify(_ context.Context, o dom.ReminderOccurrence) error {
	if o.Reminder.ID == n.fail {
		return errors.New("delivery failed")
	}
	n.got = append(n.got, o)
	return nil
}

func clockAt(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[i]
		if i < len(ts)-1 {
			i++
		}
		return t
	}
}

func TestTick_AdvancesWindow(t *testing.T) {
	t0 := time.Date(2023, 7, 20, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	s := New("@every 1m", src, &recordingNotifier{})
	s.now = clockAt(t0, t0.Add(time.Minute), t0.Add(2*time.Minute))

	s.last = s.now()
	_, err := s.Tick(context.Background())
	require.NoError(t, err)
	_, err = s.Tick(context.Background())
	require.NoError(t, err)

	require.Len(t, src.calls, 2)
	assert.Equal(t, window{t0, t0.Add(time.Minute)}, src.calls[0])
	assert.Equal(t, window{t0.Add(time.Minute), t0.Add(2 * time.Minute)}, src.calls[1])
}

func TestTick_RetriesWindowAfterError(t *testing.T) {
	t0 := time.Date(2023, 7, 20, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{err: errors.New("db down")}
	s := New("@every 1m", src, &recordingNotifier{})
	s.now = clockAt(t0, t0.Add(time.Minute), t0.Add(2*time.Minute))
	s.last = s.now()

	_, err := s.Tick(context.Background())
	require.Error(t, err)

	src.err = nil
	_, err = s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, t0, src.calls[1].from, "failed window is retried")
}

func TestTick_DeliversAndCounts(t *testing.T) {
	t0 := time.Date(2023, 7, 20, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{due: []dom.ReminderOccurrence{
		{Reminder: dom.Reminder{ID: 1, Title: "a"}, Date: "2023-07-20", At: t0.Add(10 * time.Second)},
		{Reminder: dom.Reminder{ID: 2, Title: "b"}, Date: "2023-07-20", At: t0.Add(20 * time.Second)},
	}}
	n := &recordingNotifier{fail: 2}
	s := New("@every 1m", src, n)
	s.now = clockAt(t0, t0.Add(time.Minute))
	s.last = s.now()

	sent, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, n.got, 1)
	assert.Equal(t, int64(1), n.got[0].Reminder.ID)
}

func TestTick_ClampsLongPause(t *testing.T) {
	t0 := time.Date(2022, 1, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2023, 7, 20, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	s := New("@every 1m", src, &recordingNotifier{}).WithLookback(48 * time.Hour)
	s.now = clockAt(now, now.Add(time.Minute))
	s.last = t0

	_, err := s.Tick(context.Background())
	require.NoError(t, err)
	require.Len(t, src.calls, 1)
	assert.Equal(t, window{now.Add(-48 * time.Hour), now}, src.calls[0])

	_, err = s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, window{now, now.Add(time.Minute)}, src.calls[1])
}

func TestTick_NoTimeElapsed(t *testing.T) {
	t0 := time.Date(2023, 7, 20, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	s := New("@every 1m", src, nil)
	s.now = clockAt(t0)

	sent, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, src.calls)
}

func TestStart_InvalidSpec(t *testing.T) {
	s := New("every so often", &fakeSource{}, nil)
	assert.Error(t, s.Start())
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Notify(context.Background(), dom.ReminderOccurrence{}))
}
